package gateway

import (
	"context"
	"sync"

	"github.com/jonathan/jobhunt-tracker/internal/fetch"
	"github.com/jonathan/jobhunt-tracker/internal/llm"
)

// call records one request made to mockClient.
type call struct {
	Method   string
	Prompt   string
	Tier     llm.ModelTier
	Settings llm.Settings
	History  []llm.Message
}

// mockClient is a test double for llm.Client.
type mockClient struct {
	mu       sync.Mutex
	calls    []call
	response string
	err      error
}

func (m *mockClient) record(c call) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, c)
	return m.response, m.err
}

func (m *mockClient) GenerateContent(_ context.Context, prompt string, tier llm.ModelTier, opts ...llm.Option) (string, error) {
	return m.record(call{Method: "GenerateContent", Prompt: prompt, Tier: tier, Settings: llm.Resolve(opts...)})
}

func (m *mockClient) GenerateJSON(_ context.Context, prompt string, tier llm.ModelTier, opts ...llm.Option) (string, error) {
	return m.record(call{Method: "GenerateJSON", Prompt: prompt, Tier: tier, Settings: llm.Resolve(opts...)})
}

func (m *mockClient) Chat(_ context.Context, history []llm.Message, message string, tier llm.ModelTier, opts ...llm.Option) (string, error) {
	return m.record(call{Method: "Chat", Prompt: message, Tier: tier, Settings: llm.Resolve(opts...), History: history})
}

func (m *mockClient) GetModel(tier llm.ModelTier) string { return string(tier) }

func (m *mockClient) Close() error { return nil }

func (m *mockClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockClient) lastCall() call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[len(m.calls)-1]
}

// fakeFetcher serves pages from a map; URLs missing from it fail.
type fakeFetcher struct {
	pages map[string]fetch.Page
	asked []string
}

func (f *fakeFetcher) FetchAll(_ context.Context, urls []string) ([]fetch.Page, []fetch.Failure) {
	f.asked = urls
	var (
		pages  []fetch.Page
		failed []fetch.Failure
	)
	for _, u := range urls {
		if p, ok := f.pages[u]; ok {
			pages = append(pages, p)
			continue
		}
		failed = append(failed, fetch.Failure{URL: u, Error: "HTTP 404"})
	}
	return pages, failed
}

// fakeProber reports the URLs in alive as reachable.
type fakeProber struct {
	alive map[string]bool
	calls int
}

func (p *fakeProber) ProbeAll(_ context.Context, urls []string) []fetch.ProbeResult {
	p.calls++
	out := make([]fetch.ProbeResult, len(urls))
	for i, u := range urls {
		out[i] = fetch.ProbeResult{URL: u, Alive: p.alive[u]}
	}
	return out
}
