package gateway

import (
	"context"
	"strings"

	"github.com/jonathan/jobhunt-tracker/internal/cache"
	"github.com/jonathan/jobhunt-tracker/internal/llm"
	"github.com/jonathan/jobhunt-tracker/internal/prompts"
	"github.com/jonathan/jobhunt-tracker/internal/schemas"
	"github.com/jonathan/jobhunt-tracker/internal/types"
)

// SuggestURLs proposes official pages for a company and probes each one.
// The model's suggestions are cached by normalized name; liveness is always
// checked fresh.
func (g *Gateway) SuggestURLs(ctx context.Context, name string) (*types.URLSuggestions, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "companyName", Message: msgCompanyNameRequired}
	}

	key := cache.Key(kindCompanyURLs, name)
	var suggestions types.URLSuggestions
	if !g.cached(ctx, key, &suggestions) {
		prompt, err := prompts.Render(promptFile, "company-urls", map[string]string{"CompanyName": name})
		if err != nil {
			return nil, &ProviderError{Message: msgURLSearchFailed, Cause: err}
		}
		if err := g.generateJSON(ctx, "company-urls", prompt, llm.TierLite, lookupTemperature, schemas.URLSuggestions, &suggestions, msgURLSearchFailed); err != nil {
			return nil, err
		}
		if len(suggestions.URLs) > MaxSuggestedURLs {
			suggestions.URLs = suggestions.URLs[:MaxSuggestedURLs]
		}
		for i := range suggestions.URLs {
			suggestions.URLs[i].Alive = false
		}
		g.store(ctx, key, suggestions)
	}

	if suggestions.URLs == nil {
		suggestions.URLs = []types.SuggestedURL{}
	}
	urls := make([]string, len(suggestions.URLs))
	for i, s := range suggestions.URLs {
		urls[i] = s.URL
	}
	for i, res := range g.prober.ProbeAll(ctx, urls) {
		suggestions.URLs[i].Alive = res.Alive
	}
	return &suggestions, nil
}
