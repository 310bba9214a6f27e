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

// LookupCompany returns the public profile of the company best matching name.
// Results are cached by normalized name.
func (g *Gateway) LookupCompany(ctx context.Context, name string) (*types.CompanyInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Field: "companyName", Message: msgCompanyNameRequired}
	}

	key := cache.Key(kindCompanyInfo, name)
	var info types.CompanyInfo
	if g.cached(ctx, key, &info) {
		return &info, nil
	}

	prompt, err := prompts.Render(promptFile, "company-info", map[string]string{"CompanyName": name})
	if err != nil {
		return nil, &ProviderError{Message: msgCompanyInfoFailed, Cause: err}
	}
	if err := g.generateJSON(ctx, "company-info", prompt, llm.TierLite, lookupTemperature, schemas.CompanyInfo, &info, msgCompanyInfoFailed); err != nil {
		return nil, err
	}

	g.store(ctx, key, info)
	return &info, nil
}
