package fetch

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultProbeTimeout bounds each liveness check.
const DefaultProbeTimeout = 5 * time.Second

// ProbeResult is the outcome of one liveness check.
type ProbeResult struct {
	URL        string `json:"url"`
	Alive      bool   `json:"alive"`
	StatusCode int    `json:"statusCode,omitempty"`
	Method     string `json:"method,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Prober checks whether URLs answer. Redirects are not followed so that a
// 301 or 302 counts as reachable on its own.
type Prober struct {
	Client    *http.Client
	Timeout   time.Duration
	UserAgent string
}

// NewProber returns a prober with the given per-URL timeout.
func NewProber(timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = DefaultProbeTimeout
	}
	return &Prober{
		Client: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		Timeout:   timeout,
		UserAgent: DefaultUserAgent,
	}
}

// IsAlive reports whether a status code means the URL is reachable.
func IsAlive(status int) bool {
	return status >= 200 && status < 400
}

// Probe sends HEAD, retrying with GET when the server answers 405.
// Failures are reported in the result, never as an error.
func (p *Prober) Probe(ctx context.Context, rawURL string) ProbeResult {
	res := ProbeResult{URL: rawURL}
	if err := ValidateURL(rawURL); err != nil {
		res.Error = "invalid URL"
		return res
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	status, err := p.do(ctx, http.MethodHead, rawURL)
	res.Method = http.MethodHead
	if err == nil && status == http.StatusMethodNotAllowed {
		status, err = p.do(ctx, http.MethodGet, rawURL)
		res.Method = http.MethodGet
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			res.Error = "timeout"
		} else {
			res.Error = err.Error()
		}
		return res
	}

	res.StatusCode = status
	res.Alive = IsAlive(status)
	return res
}

func (p *Prober) do(ctx context.Context, method, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", p.UserAgent)

	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

// ProbeAll checks every URL in parallel and returns results in input order
// once all have settled.
func (p *Prober) ProbeAll(ctx context.Context, urls []string) []ProbeResult {
	results := make([]ProbeResult, len(urls))

	var g errgroup.Group
	for i, u := range urls {
		g.Go(func() error {
			results[i] = p.Probe(ctx, u)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
