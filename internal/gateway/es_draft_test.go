package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/jonathan/jobhunt-tracker/internal/llm"
	"github.com/jonathan/jobhunt-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSelfAnalysis() *types.SelfAnalysisData {
	sa := types.EmptySelfAnalysis()
	sa.Episodes = []types.Episode{
		{ID: "e1", Title: "学園祭実行委員", Category: types.CategoryGakunika, What: "来場者数を増やした", Why: "地域との接点を作るため", How: "SNS運用", Result: "来場者1.5倍", Learning: "巻き込み力"},
		{ID: "e2", Title: "留学", Category: types.CategoryChallenge},
	}
	sa.Strengths = []types.StrengthAndWeakness{
		{ID: "s1", Type: "strength", Name: "粘り強さ", Description: "最後までやり抜く", Evidence: "部活で主将"},
	}
	sa.Values = &types.ValueAndMotivation{ImportantValues: "誠実さ", LifeAxis: "挑戦"}
	return sa
}

func TestDraftES(t *testing.T) {
	client := &mockClient{response: "  私が貴社を志望する理由は…  "}
	g := New(client)

	company := &types.Company{
		Name:     "Acme",
		Industry: "IT",
		CompanyAnalysis: types.CompanyAnalysis{
			WhyThisCompany: "技術力",
		},
	}
	req := types.ESDraftRequest{
		Question:           "志望動機を教えてください",
		CharacterLimit:     400,
		SelectedEpisodes:   []string{"e1", "missing"},
		SelectedStrengths:  []string{"s1"},
		Tone:               types.ToneLogical,
		UseCompanyAnalysis: true,
	}

	resp, err := g.DraftES(context.Background(), req, company, testSelfAnalysis())
	require.NoError(t, err)
	assert.Equal(t, "私が貴社を志望する理由は…", resp.GeneratedText)
	assert.Equal(t, 13, resp.CharacterCount)

	c := client.lastCall()
	assert.Equal(t, "GenerateContent", c.Method)
	assert.Equal(t, llm.TierStandard, c.Tier)
	assert.Equal(t, float32(0.8), c.Settings.Temperature)
	assert.Contains(t, c.Prompt, "- 企業名: Acme")
	assert.Contains(t, c.Prompt, "- 職種: 未設定")
	assert.Contains(t, c.Prompt, "志望動機を教えてください")
	assert.Contains(t, c.Prompt, "400文字以内")
	assert.Contains(t, c.Prompt, "論理的で明確な文体")
	assert.Contains(t, c.Prompt, "【エピソード1】学園祭実行委員（ガクチカ）")
	assert.Contains(t, c.Prompt, "- 結果: 来場者1.5倍")
	assert.NotContains(t, c.Prompt, "留学")
	assert.Contains(t, c.Prompt, "・粘り強さ: 最後までやり抜く（根拠: 部活で主将）")
	assert.Contains(t, c.Prompt, "大切にしていること: 誠実さ\nモチベーションの源泉: 未設定\n人生の軸: 挑戦")
	assert.Contains(t, c.Prompt, "（将来ビジョンデータなし）")
	assert.Contains(t, c.Prompt, "志望理由: 技術力")
	assert.NotContains(t, c.Prompt, "{{.")
}

func TestDraftES_Defaults(t *testing.T) {
	client := &mockClient{response: "回答"}
	g := New(client)

	_, err := g.DraftES(context.Background(), types.ESDraftRequest{Question: "自己PR"}, nil, nil)
	require.NoError(t, err)

	prompt := client.lastCall().Prompt
	assert.Contains(t, prompt, "文字数制限なし（400〜600文字程度を目安に）")
	assert.Contains(t, prompt, "自然な文体")
	assert.Contains(t, prompt, "（エピソードなし）")
	assert.Contains(t, prompt, "（強みデータなし）")
	assert.Contains(t, prompt, "（価値観データなし）")
	assert.Contains(t, prompt, "（企業分析データなし）")
	assert.Contains(t, prompt, "- 企業名: 未設定")
}

func TestDraftES_CompanyAnalysisOptIn(t *testing.T) {
	client := &mockClient{response: "回答"}
	g := New(client)
	company := &types.Company{Name: "Acme", CompanyAnalysis: types.CompanyAnalysis{Concerns: "残業"}}

	_, err := g.DraftES(context.Background(), types.ESDraftRequest{Question: "Q"}, company, nil)
	require.NoError(t, err)
	assert.Contains(t, client.lastCall().Prompt, "（企業分析データなし）")
}

func TestDraftES_RequiresQuestion(t *testing.T) {
	client := &mockClient{}
	g := New(client)

	_, err := g.DraftES(context.Background(), types.ESDraftRequest{Question: "  "}, nil, nil)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "question", ve.Field)
	assert.Equal(t, "ES設問が指定されていません", ve.Message)
	assert.Zero(t, client.callCount())
}

func TestDraftES_ProviderFailure(t *testing.T) {
	cause := errors.New("quota exceeded")
	g := New(&mockClient{err: cause})

	_, err := g.DraftES(context.Background(), types.ESDraftRequest{Question: "Q"}, nil, nil)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "ES文章の生成に失敗しました", pe.Message)
	assert.ErrorIs(t, err, cause)
}

func TestLengthRule(t *testing.T) {
	assert.Equal(t, "200文字以内", lengthRule(200))
	assert.Equal(t, "文字数制限なし（400〜600文字程度を目安に）", lengthRule(0))
}

func TestToneInstruction(t *testing.T) {
	tests := map[types.Tone]string{
		types.TonePassionate: "情熱的で熱意が伝わる文体",
		types.ToneCalm:       "落ち着いて冷静な文体",
		types.ToneHumble:     "謙虚で誠実な文体",
		types.ToneLogical:    "論理的で明確な文体",
		"":                   "自然な文体",
		"casual":             "自然な文体",
	}
	for tone, want := range tests {
		assert.Equal(t, want, toneInstruction(tone), "tone %q", tone)
	}
}

func TestFormatVision(t *testing.T) {
	got := formatVision(&types.FutureVision{ShortTerm: "基礎を固める", IdealCareer: "PM"})
	assert.Equal(t, "短期目標（1-3年）: 基礎を固める\n中期目標（5年）: 未設定\n理想のキャリア: PM", got)
}
