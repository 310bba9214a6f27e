package gateway

import (
	"fmt"

	"github.com/jonathan/jobhunt-tracker/internal/types"
)

// ValidationError is returned before any external call when required input is missing.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ProviderError wraps a failed generation call. Message is safe to show to users.
type ProviderError struct {
	Message string
	Cause   error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider error: %s", e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// ParseError is returned when generated output is not the expected JSON.
// The raw generated text is never part of the error.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NoContentError is returned by Research when none of the pages could be read.
type NoContentError struct {
	FailedPages []types.FailedPage
}

func (e *NoContentError) Error() string {
	return msgNoContent
}

// User-facing messages.
const (
	msgQuestionRequired    = "ES設問が指定されていません"
	msgCompanyNameRequired = "企業名が指定されていません"
	msgURLRequired         = "URLが指定されていません"
	msgTooManyURLs         = "URLは最大5件まで指定できます"
	msgInvalidURL          = "URLの形式が正しくありません"
	msgMessageRequired     = "メッセージが指定されていません"
	msgNoContent           = "URLからコンテンツを取得できませんでした。URLを確認してください。"
	msgDraftFailed         = "ES文章の生成に失敗しました"
	msgCompanyInfoFailed   = "企業情報の取得に失敗しました"
	msgResearchFailed      = "企業研究の実行に失敗しました"
	msgURLSearchFailed     = "URLの検索に失敗しました"
	msgCoachFailed         = "AIコーチとの通信に失敗しました"
)
