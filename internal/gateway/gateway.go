// Package gateway drafts, looks up and summarizes job-hunting material through
// the generative model. Every operation validates input before calling out,
// and no operation mutates stored records.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jonathan/jobhunt-tracker/internal/cache"
	"github.com/jonathan/jobhunt-tracker/internal/fetch"
	"github.com/jonathan/jobhunt-tracker/internal/llm"
	"github.com/jonathan/jobhunt-tracker/internal/logging"
	"github.com/jonathan/jobhunt-tracker/internal/schemas"
)

const (
	promptFile = "gateway.json"

	// DefaultCacheTTL is how long lookup results are reused.
	DefaultCacheTTL = 24 * time.Hour

	// MaxResearchURLs bounds the pages fetched for one research run.
	MaxResearchURLs = 5
	// MaxSuggestedURLs bounds the candidate pages returned for a company.
	MaxSuggestedURLs = 5
)

// Sampling temperatures per operation.
const (
	draftTemperature    float32 = 0.8
	lookupTemperature   float32 = 0.1
	researchTemperature float32 = 0.3
	coachTemperature    float32 = 0.7
)

// Cache key kinds.
const (
	kindCompanyInfo = "company-info"
	kindCompanyURLs = "company-urls"
)

// PageFetcher fetches research pages concurrently.
type PageFetcher interface {
	FetchAll(ctx context.Context, urls []string) ([]fetch.Page, []fetch.Failure)
}

// Prober checks URL liveness concurrently.
type Prober interface {
	ProbeAll(ctx context.Context, urls []string) []fetch.ProbeResult
}

// Gateway runs the generative operations.
type Gateway struct {
	client   llm.Client
	fetcher  PageFetcher
	prober   Prober
	cache    cache.Cache
	cacheTTL time.Duration
	log      logging.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithFetcher sets the research page fetcher.
func WithFetcher(f PageFetcher) Option {
	return func(g *Gateway) { g.fetcher = f }
}

// WithProber sets the URL liveness prober.
func WithProber(p Prober) Option {
	return func(g *Gateway) { g.prober = p }
}

// WithCache enables result caching for company lookups and URL suggestions.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(g *Gateway) {
		g.cache = c
		if ttl > 0 {
			g.cacheTTL = ttl
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(g *Gateway) { g.log = l }
}

// New creates a Gateway over client. Unset collaborators get defaults:
// a plain page fetcher, a prober with the default timeout, and no cache.
func New(client llm.Client, opts ...Option) *Gateway {
	g := &Gateway{
		client:   client,
		cache:    cache.Nop{},
		cacheTTL: DefaultCacheTTL,
		log:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.fetcher == nil {
		g.fetcher = fetch.NewPageFetcher(g.log)
	}
	if g.prober == nil {
		g.prober = fetch.NewProber(fetch.DefaultProbeTimeout)
	}
	return g
}

// generateJSON runs a JSON-mode call, strips fences, validates against schema and decodes into dst.
func (g *Gateway) generateJSON(ctx context.Context, op, prompt string, tier llm.ModelTier, temp float32, schema string, dst any, failMsg string) error {
	start := time.Now()
	raw, err := g.client.GenerateJSON(ctx, prompt, tier, llm.WithTemperature(temp))
	if err != nil {
		g.log.Error("generation failed", logging.String("op", op), logging.Err(err))
		return &ProviderError{Message: failMsg, Cause: err}
	}
	g.log.Debug("generation finished",
		logging.String("op", op),
		logging.Duration("elapsed", time.Since(start)),
		logging.String("raw", raw),
	)

	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schema, cleaned); err != nil {
		var fields []string
		var ve *schemas.ValidationError
		if errors.As(err, &ve) {
			fields = ve.Fields()
		}
		g.log.Warn("generated JSON failed schema validation",
			logging.String("op", op),
			logging.Strings("fields", fields),
			logging.Err(err),
		)
		return &ParseError{Message: failMsg, Cause: err}
	}
	if err := json.Unmarshal([]byte(cleaned), dst); err != nil {
		g.log.Warn("generated JSON could not be decoded", logging.String("op", op), logging.Err(err))
		return &ParseError{Message: failMsg, Cause: err}
	}
	return nil
}

// cached loads key into dst. Cache failures are logged and treated as misses.
func (g *Gateway) cached(ctx context.Context, key string, dst any) bool {
	hit, err := g.cache.Get(ctx, key, dst)
	if err != nil {
		g.log.Warn("cache read failed", logging.String("key", key), logging.Err(err))
		return false
	}
	return hit
}

func (g *Gateway) store(ctx context.Context, key string, v any) {
	if err := g.cache.Set(ctx, key, v, g.cacheTTL); err != nil {
		g.log.Warn("cache write failed", logging.String("key", key), logging.Err(err))
	}
}
