package gateway

import (
	"context"
	"strconv"
	"strings"

	"github.com/jonathan/jobhunt-tracker/internal/fetch"
	"github.com/jonathan/jobhunt-tracker/internal/llm"
	"github.com/jonathan/jobhunt-tracker/internal/logging"
	"github.com/jonathan/jobhunt-tracker/internal/prompts"
	"github.com/jonathan/jobhunt-tracker/internal/schemas"
	"github.com/jonathan/jobhunt-tracker/internal/types"
)

// pageSeparator joins page blocks in the research prompt.
const pageSeparator = "\n---\n"

// Research fetches up to five pages in parallel and summarizes them. Pages that
// fail are reported in FailedPages; the run fails only when no page was read.
func (g *Gateway) Research(ctx context.Context, req types.ResearchRequest) (*types.ResearchResponse, error) {
	urls, err := researchURLs(req.URLs)
	if err != nil {
		return nil, err
	}

	pages, failures := g.fetcher.FetchAll(ctx, urls)
	failed := toFailedPages(failures)
	if len(pages) == 0 {
		return nil, &NoContentError{FailedPages: failed}
	}
	g.log.Info("research pages fetched",
		logging.Int("fetched", len(pages)),
		logging.Int("failed", len(failed)),
	)

	prompt, err := buildResearchPrompt(req.CompanyName, pages)
	if err != nil {
		return nil, &ProviderError{Message: msgResearchFailed, Cause: err}
	}

	var analysis types.ResearchAnalysis
	if err := g.generateJSON(ctx, "company-research", prompt, llm.TierStandard, researchTemperature, schemas.Research, &analysis, msgResearchFailed); err != nil {
		return nil, err
	}

	fetched := make([]types.PageRef, 0, len(pages))
	for _, p := range pages {
		fetched = append(fetched, types.PageRef{URL: p.URL, Title: p.Title})
	}
	if len(analysis.Sources) == 0 {
		for _, p := range fetched {
			analysis.Sources = append(analysis.Sources, types.ResearchSource{URL: p.URL, Title: p.Title})
		}
	}

	return &types.ResearchResponse{
		Success:      true,
		Analysis:     analysis,
		FetchedPages: fetched,
		FailedPages:  failed,
	}, nil
}

// researchURLs trims and validates the requested URLs.
func researchURLs(raw []string) ([]string, error) {
	urls := make([]string, 0, len(raw))
	for _, u := range raw {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	switch {
	case len(urls) == 0:
		return nil, &ValidationError{Field: "urls", Message: msgURLRequired}
	case len(urls) > MaxResearchURLs:
		return nil, &ValidationError{Field: "urls", Message: msgTooManyURLs}
	}
	for _, u := range urls {
		if err := fetch.ValidateURL(u); err != nil {
			return nil, &ValidationError{Field: "urls", Message: msgInvalidURL + ": " + u}
		}
	}
	return urls, nil
}

func buildResearchPrompt(companyName string, pages []fetch.Page) (string, error) {
	blocks := make([]string, 0, len(pages))
	for i, p := range pages {
		block, err := prompts.Render(promptFile, "research-page", map[string]string{
			"Index":   strconv.Itoa(i + 1),
			"URL":     p.URL,
			"Title":   p.Title,
			"Content": p.Content,
		})
		if err != nil {
			return "", err
		}
		blocks = append(blocks, block)
	}

	name := strings.TrimSpace(companyName)
	if name == "" {
		name = "不明"
	}
	return prompts.Render(promptFile, "company-research", map[string]string{
		"PageCount":   strconv.Itoa(len(pages)),
		"CompanyName": name,
		"Pages":       strings.Join(blocks, pageSeparator),
	})
}

func toFailedPages(failures []fetch.Failure) []types.FailedPage {
	out := make([]types.FailedPage, 0, len(failures))
	for _, f := range failures {
		out = append(out, types.FailedPage{URL: f.URL, Error: f.Error})
	}
	return out
}
