package server

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/jonathan/jobhunt-tracker/internal/gateway"
	"github.com/jonathan/jobhunt-tracker/internal/llm"
	"github.com/jonathan/jobhunt-tracker/internal/server/ratelimit"
	"github.com/jonathan/jobhunt-tracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftES(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.login(t)
	c := env.seedCompany(t, userID, "アクメ", testNow)
	require.NoError(t, env.store.SaveSelfAnalysis(t.Context(), userID, &types.SelfAnalysisData{
		Episodes: []types.Episode{{ID: "e1", Title: "塾講師"}},
	}))

	var gotCompany *types.Company
	var gotSA *types.SelfAnalysisData
	env.gateway.draft = func(req types.ESDraftRequest, company *types.Company, sa *types.SelfAnalysisData) (*types.ESDraftResponse, error) {
		gotCompany, gotSA = company, sa
		return &types.ESDraftResponse{GeneratedText: "私は粘り強い人間です。", CharacterCount: 11}, nil
	}

	w := env.do(t, http.MethodPost, "/v1/ai/es-generator", token, types.ESDraftRequest{
		CompanyID: c.ID, Question: "自己PRをしてください", CharacterLimit: 400, Tone: types.ToneCalm,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 11, decode[types.ESDraftResponse](t, w).CharacterCount)
	require.NotNil(t, gotCompany)
	assert.Equal(t, "アクメ", gotCompany.Name)
	require.NotNil(t, gotSA)
	assert.Len(t, gotSA.Episodes, 1)
}

func TestDraftES_Rejected(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.login(t)
	called := false
	env.gateway.draft = func(types.ESDraftRequest, *types.Company, *types.SelfAnalysisData) (*types.ESDraftResponse, error) {
		called = true
		return &types.ESDraftResponse{}, nil
	}

	w := env.do(t, http.MethodPost, "/v1/ai/es-generator", token, types.ESDraftRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/v1/ai/es-generator", token, types.ESDraftRequest{Question: "志望動機", Tone: "angry"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/v1/ai/es-generator", token, types.ESDraftRequest{Question: "志望動機", CompanyID: "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.False(t, called)
}

func TestCompanyInfo(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.login(t)
	env.gateway.lookup = func(name string) (*types.CompanyInfo, error) {
		return &types.CompanyInfo{Name: name, Industry: "IT"}, nil
	}

	w := env.do(t, http.MethodPost, "/v1/ai/company-info", token, types.CompanyInfoRequest{CompanyName: "アクメ"})

	require.Equal(t, http.StatusOK, w.Code)
	info := decode[types.CompanyInfo](t, w)
	assert.Equal(t, "アクメ", info.Name)
	assert.Equal(t, "IT", info.Industry)
}

func TestCompanyInfo_ProviderFailure(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.login(t)
	env.gateway.lookup = func(string) (*types.CompanyInfo, error) {
		return nil, &gateway.ProviderError{Message: "企業情報の取得に失敗しました", Cause: errors.New("googleapi: Error 429: quota exceeded")}
	}

	w := env.do(t, http.MethodPost, "/v1/ai/company-info", token, types.CompanyInfoRequest{CompanyName: "アクメ"})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decode[ErrorResponse](t, w)
	assert.Equal(t, "企業情報の取得に失敗しました", body.Error)
	assert.NotContains(t, w.Body.String(), "quota")
}

func TestCompanyResearch_PersistsOnSuccess(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.login(t)
	c := env.seedCompany(t, userID, "アクメ", testNow.Add(-time.Hour))

	var gotReq types.ResearchRequest
	env.gateway.research = func(req types.ResearchRequest) (*types.ResearchResponse, error) {
		gotReq = req
		return &types.ResearchResponse{
			Success:      true,
			Analysis:     types.ResearchAnalysis{CompanyOverview: types.CompanyOverview{Summary: "BtoB SaaS"}},
			FetchedPages: []types.PageRef{{URL: req.URLs[0], Title: "採用情報"}},
			FailedPages:  []types.FailedPage{},
		}, nil
	}

	w := env.do(t, http.MethodPost, "/v1/ai/company-research", token, types.ResearchRequest{
		URLs: []string{"https://acme.example.com/recruit"}, CompanyID: c.ID,
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "アクメ", gotReq.CompanyName)

	stored, err := env.store.GetCompany(t.Context(), userID, c.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.CompanyAnalysis.AIResearch)
	assert.Equal(t, "BtoB SaaS", stored.CompanyAnalysis.AIResearch.CompanyOverview.Summary)
	assert.Equal(t, testNow, stored.CompanyAnalysis.AIResearch.ResearchedAt)
	assert.Equal(t, testNow, stored.UpdatedAt)
}

func TestCompanyResearch_FailureDoesNotPersist(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.login(t)
	c := env.seedCompany(t, userID, "アクメ", testNow.Add(-time.Hour))
	failed := []types.FailedPage{{URL: "https://acme.example.com/", Error: "HTTP 404"}}
	env.gateway.research = func(types.ResearchRequest) (*types.ResearchResponse, error) {
		return nil, &gateway.NoContentError{FailedPages: failed}
	}

	w := env.do(t, http.MethodPost, "/v1/ai/company-research", token, types.ResearchRequest{
		URLs: []string{"https://acme.example.com/"}, CompanyID: c.ID,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, failed, decode[ErrorResponse](t, w).FailedPages)

	stored, err := env.store.GetCompany(t.Context(), userID, c.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CompanyAnalysis.AIResearch)
	assert.Equal(t, c.UpdatedAt, stored.UpdatedAt)
}

func TestCompanyResearch_Validation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.login(t)

	for _, urls := range [][]string{
		nil,
		{"not a url"},
		{"https://a.example", "https://b.example", "https://c.example", "https://d.example", "https://e.example", "https://f.example"},
	} {
		w := env.do(t, http.MethodPost, "/v1/ai/company-research", token, types.ResearchRequest{URLs: urls})
		assert.Equal(t, http.StatusBadRequest, w.Code, "%v", urls)
	}
}

func TestCompanyURLs(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.login(t)
	env.gateway.urls = func(name string) (*types.URLSuggestions, error) {
		return &types.URLSuggestions{
			OfficialDomain: "acme.example.com",
			URLs:           []types.SuggestedURL{{URL: "https://acme.example.com/recruit", Type: types.URLRecruit, Alive: true}},
		}, nil
	}

	w := env.do(t, http.MethodPost, "/v1/ai/company-urls", token, types.URLSuggestionRequest{CompanyName: "アクメ"})

	require.Equal(t, http.StatusOK, w.Code)
	got := decode[types.URLSuggestions](t, w)
	require.Len(t, got.URLs, 1)
	assert.True(t, got.URLs[0].Alive)
}

func TestCoach_StoredDocumentOnlyWhenMissing(t *testing.T) {
	env := newTestEnv(t)
	userID, token := env.login(t)
	require.NoError(t, env.store.SaveSelfAnalysis(t.Context(), userID, &types.SelfAnalysisData{
		Episodes: []types.Episode{{ID: "stored"}},
	}))

	var stored *types.SelfAnalysisData
	env.gateway.coach = func(_ types.CoachRequest, s *types.SelfAnalysisData) (*types.CoachResponse, error) {
		stored = s
		return &types.CoachResponse{Message: "良いですね"}, nil
	}

	w := env.do(t, http.MethodPost, "/v1/ai/coach", token, types.CoachRequest{Message: "自己PRを見てください"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "良いですね", decode[types.CoachResponse](t, w).Message)
	require.NotNil(t, stored)
	assert.Equal(t, "stored", stored.Episodes[0].ID)

	w = env.do(t, http.MethodPost, "/v1/ai/coach", token, types.CoachRequest{
		Message:          "続きです",
		SelfAnalysisData: &types.SelfAnalysisData{},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, stored)

	w = env.do(t, http.MethodPost, "/v1/ai/coach", token, types.CoachRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAI_GatewayDisabled(t *testing.T) {
	s, err := New(Config{Store: newMockStore(), Auth: testAuthConfig(), RateLimit: &ratelimit.Config{Enabled: false}})
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)
	env := &testEnv{server: s, store: s.store.(*mockStore), handler: s.Handler()}
	_, token := env.login(t)

	w := env.do(t, http.MethodPost, "/v1/ai/company-info", token, types.CompanyInfoRequest{CompanyName: "アクメ"})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, msgGatewayDisabled, decode[ErrorResponse](t, w).Error)
}

// brokenLLM returns text that is not JSON.
type brokenLLM struct{}

func (brokenLLM) GenerateContent(context.Context, string, llm.ModelTier, ...llm.Option) (string, error) {
	return "", errors.New("unused")
}

func (brokenLLM) GenerateJSON(context.Context, string, llm.ModelTier, ...llm.Option) (string, error) {
	return "申し訳ありませんが、SECRET-RAW-TEXT", nil
}

func (brokenLLM) Chat(context.Context, []llm.Message, string, llm.ModelTier, ...llm.Option) (string, error) {
	return "", errors.New("unused")
}

func (brokenLLM) GetModel(llm.ModelTier) string { return "test" }

func (brokenLLM) Close() error { return nil }

func TestCompanyInfo_ParseErrorThroughGateway(t *testing.T) {
	store := newMockStore()
	s, err := New(Config{
		Store:     store,
		Gateway:   gateway.New(brokenLLM{}),
		Auth:      testAuthConfig(),
		RateLimit: &ratelimit.Config{Enabled: false},
	})
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)
	env := &testEnv{server: s, store: store, handler: s.Handler()}
	_, token := env.login(t)

	w := env.do(t, http.MethodPost, "/v1/ai/company-info", token, types.CompanyInfoRequest{CompanyName: "アクメ"})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.NotContains(t, w.Body.String(), "SECRET-RAW-TEXT")
	assert.Equal(t, msgParseDetails, decode[ErrorResponse](t, w).Details)
}
