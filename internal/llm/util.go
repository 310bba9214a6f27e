package llm

import "strings"

// CleanJSONBlock pulls the JSON payload out of a model response. It strips
// Markdown code fences, drops any prose before the first '{' or '[' and
// anything after the matching closing bracket. Text with no JSON start is
// returned trimmed so the caller's parser reports the failure.
func CleanJSONBlock(text string) string {
	text = stripFence(strings.TrimSpace(text))

	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	open := text[start]
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}
	if out := extractBalanced(text[start:], open, closer); out != "" {
		return out
	}
	return strings.TrimSpace(text[start:])
}

func stripFence(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	// Drop a language tag such as "json" on the fence line.
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		tag := strings.TrimSpace(text[:idx])
		if !strings.ContainsAny(tag, "{[ ") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// extractJSONObject returns the leading balanced {...} of s, or "".
func extractJSONObject(s string) string {
	return extractBalanced(strings.TrimSpace(s), '{', '}')
}

// extractJSONArray returns the leading balanced [...] of s, or "".
func extractJSONArray(s string) string {
	return extractBalanced(strings.TrimSpace(s), '[', ']')
}

// extractBalanced scans s, which must start with open, to the matching close
// byte. Brackets inside JSON strings are ignored.
func extractBalanced(s string, open, closer byte) string {
	if s == "" || s[0] != open {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
