package gateway

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/jobhunt-tracker/internal/llm"
	"github.com/jonathan/jobhunt-tracker/internal/logging"
	"github.com/jonathan/jobhunt-tracker/internal/prompts"
	"github.com/jonathan/jobhunt-tracker/internal/types"
)

const unset = "未設定"

// toneInstructions maps a tone to the writing-style line in the prompt.
var toneInstructions = map[types.Tone]string{
	types.TonePassionate: "情熱的で熱意が伝わる文体",
	types.ToneCalm:       "落ち着いて冷静な文体",
	types.ToneHumble:     "謙虚で誠実な文体",
	types.ToneLogical:    "論理的で明確な文体",
}

const defaultToneInstruction = "自然な文体"

// DraftES generates an entry-sheet answer. company and selfAnalysis may be nil;
// the episodes and strengths named in req are looked up in selfAnalysis.
func (g *Gateway) DraftES(ctx context.Context, req types.ESDraftRequest, company *types.Company, selfAnalysis *types.SelfAnalysisData) (*types.ESDraftResponse, error) {
	if strings.TrimSpace(req.Question) == "" {
		return nil, &ValidationError{Field: "question", Message: msgQuestionRequired}
	}

	prompt, err := buildDraftPrompt(req, company, selfAnalysis)
	if err != nil {
		return nil, &ProviderError{Message: msgDraftFailed, Cause: err}
	}

	text, err := g.client.GenerateContent(ctx, prompt, llm.TierStandard, llm.WithTemperature(draftTemperature))
	if err != nil {
		g.log.Error("generation failed", logging.String("op", "es-draft"), logging.Err(err))
		return nil, &ProviderError{Message: msgDraftFailed, Cause: err}
	}

	text = strings.TrimSpace(text)
	return &types.ESDraftResponse{
		GeneratedText:  text,
		CharacterCount: utf8.RuneCountInString(text),
	}, nil
}

func buildDraftPrompt(req types.ESDraftRequest, company *types.Company, sa *types.SelfAnalysisData) (string, error) {
	var c types.Company
	if company != nil {
		c = *company
	}

	analysis := "（企業分析データなし）"
	if req.UseCompanyAnalysis && !c.CompanyAnalysis.IsEmpty() {
		analysis = formatCompanyAnalysis(c.CompanyAnalysis)
	}

	var (
		values *types.ValueAndMotivation
		vision *types.FutureVision
	)
	if sa != nil {
		values, vision = sa.Values, sa.Vision
	}

	return prompts.Render(promptFile, "es-draft", map[string]string{
		"CompanyName":     orUnset(c.Name),
		"Industry":        orUnset(c.Industry),
		"JobType":         orUnset(c.JobType),
		"Description":     orUnset(c.Description),
		"Question":        strings.TrimSpace(req.Question),
		"LengthRule":      lengthRule(req.CharacterLimit),
		"Tone":            toneInstruction(req.Tone),
		"Episodes":        formatEpisodes(sa.EpisodesByID(req.SelectedEpisodes)),
		"Strengths":       formatStrengths(sa.StrengthsByID(req.SelectedStrengths)),
		"Values":          formatValues(values),
		"Vision":          formatVision(vision),
		"CompanyAnalysis": analysis,
	})
}

func lengthRule(limit int) string {
	if limit > 0 {
		return fmt.Sprintf("%d文字以内", limit)
	}
	return "文字数制限なし（400〜600文字程度を目安に）"
}

func toneInstruction(t types.Tone) string {
	if s, ok := toneInstructions[t]; ok {
		return s
	}
	return defaultToneInstruction
}

func formatEpisodes(episodes []types.Episode) string {
	if len(episodes) == 0 {
		return "（エピソードなし）"
	}
	blocks := make([]string, 0, len(episodes))
	for i, ep := range episodes {
		category := types.EpisodeCategoryLabels[ep.Category]
		if category == "" {
			category = string(ep.Category)
		}
		blocks = append(blocks, fmt.Sprintf(
			"【エピソード%d】%s（%s）\n- 何をしたか: %s\n- なぜしたか: %s\n- どのように: %s\n- 結果: %s\n- 学んだこと: %s",
			i+1, ep.Title, category, ep.What, ep.Why, ep.How, ep.Result, ep.Learning,
		))
	}
	return strings.Join(blocks, "\n\n")
}

func formatStrengths(strengths []types.StrengthAndWeakness) string {
	if len(strengths) == 0 {
		return "（強みデータなし）"
	}
	lines := make([]string, 0, len(strengths))
	for _, s := range strengths {
		lines = append(lines, fmt.Sprintf("・%s: %s（根拠: %s）", s.Name, s.Description, s.Evidence))
	}
	return strings.Join(lines, "\n")
}

func formatValues(v *types.ValueAndMotivation) string {
	if v == nil {
		return "（価値観データなし）"
	}
	return fmt.Sprintf("大切にしていること: %s\nモチベーションの源泉: %s\n人生の軸: %s",
		orUnset(v.ImportantValues), orUnset(v.MotivationSource), orUnset(v.LifeAxis))
}

func formatVision(v *types.FutureVision) string {
	if v == nil {
		return "（将来ビジョンデータなし）"
	}
	return fmt.Sprintf("短期目標（1-3年）: %s\n中期目標（5年）: %s\n理想のキャリア: %s",
		orUnset(v.ShortTerm), orUnset(v.MidTerm), orUnset(v.IdealCareer))
}

func formatCompanyAnalysis(a types.CompanyAnalysis) string {
	return fmt.Sprintf("志望理由: %s\n社員の印象: %s\nマッチするポイント: %s\n懸念点: %s",
		orUnset(a.WhyThisCompany), orUnset(a.EmployeeImpression), orUnset(a.MatchingPoints), orUnset(a.Concerns))
}

func orUnset(s string) string {
	if strings.TrimSpace(s) == "" {
		return unset
	}
	return s
}
