package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/jobhunt-tracker/internal/config"
	"github.com/jonathan/jobhunt-tracker/internal/db"
	"github.com/jonathan/jobhunt-tracker/internal/server/ratelimit"
	"github.com/jonathan/jobhunt-tracker/internal/types"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// mockStore is an in-memory Store.
type mockStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]*db.User
	companies map[uuid.UUID]map[string]types.Company
	analysis  map[uuid.UUID]*types.SelfAnalysisData
	pingErr   error
	listErr   error
}

func newMockStore() *mockStore {
	return &mockStore{
		users:     make(map[uuid.UUID]*db.User),
		companies: make(map[uuid.UUID]map[string]types.Company),
		analysis:  make(map[uuid.UUID]*types.SelfAnalysisData),
	}
}

func (m *mockStore) Ping(context.Context) error { return m.pingErr }

func (m *mockStore) CreateUser(_ context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			return uuid.Nil, db.ErrEmailTaken
		}
	}
	now := time.Now()
	u := &db.User{ID: uuid.New(), Name: name, Email: email, PasswordHash: passwordHash, PasswordSet: passwordHash != "", CreatedAt: now, UpdatedAt: now}
	m.users[u.ID] = u
	return u.ID, nil
}

func (m *mockStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (m *mockStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *mockStore) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, err := m.GetUserByEmail(ctx, email)
	return u != nil, err
}

func (m *mockStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return db.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	return nil
}

func (m *mockStore) ListCompanies(_ context.Context, userID uuid.UUID) ([]types.Company, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Company, 0, len(m.companies[userID]))
	for _, c := range m.companies[userID] {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockStore) GetCompany(_ context.Context, userID uuid.UUID, id string) (*types.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[userID][id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return &c, nil
}

func (m *mockStore) SaveCompany(_ context.Context, userID uuid.UUID, c *types.Company) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.companies[userID] == nil {
		m.companies[userID] = make(map[string]types.Company)
	}
	m.companies[userID][c.ID] = *c
	return nil
}

func (m *mockStore) UpdateCompany(_ context.Context, userID uuid.UUID, id string, fn func(*types.Company) error) (*types.Company, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.companies[userID][id]
	if !ok {
		return nil, db.ErrNotFound
	}
	if err := fn(&c); err != nil {
		return nil, err
	}
	m.companies[userID][id] = c
	return &c, nil
}

func (m *mockStore) DeleteCompany(_ context.Context, userID uuid.UUID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.companies[userID][id]; !ok {
		return db.ErrNotFound
	}
	delete(m.companies[userID], id)
	return nil
}

func (m *mockStore) GetSelfAnalysis(_ context.Context, userID uuid.UUID) (*types.SelfAnalysisData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.analysis[userID]; ok {
		cp := *d
		return &cp, nil
	}
	return types.EmptySelfAnalysis(), nil
}

func (m *mockStore) SaveSelfAnalysis(_ context.Context, userID uuid.UUID, data *types.SelfAnalysisData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *data
	m.analysis[userID] = &cp
	return nil
}

// stubGateway answers /v1/ai with canned functions.
type stubGateway struct {
	draft    func(types.ESDraftRequest, *types.Company, *types.SelfAnalysisData) (*types.ESDraftResponse, error)
	lookup   func(string) (*types.CompanyInfo, error)
	research func(types.ResearchRequest) (*types.ResearchResponse, error)
	urls     func(string) (*types.URLSuggestions, error)
	coach    func(types.CoachRequest, *types.SelfAnalysisData) (*types.CoachResponse, error)
}

var errNotStubbed = errors.New("not stubbed")

func (g *stubGateway) DraftES(_ context.Context, req types.ESDraftRequest, c *types.Company, sa *types.SelfAnalysisData) (*types.ESDraftResponse, error) {
	if g.draft == nil {
		return nil, errNotStubbed
	}
	return g.draft(req, c, sa)
}

func (g *stubGateway) LookupCompany(_ context.Context, name string) (*types.CompanyInfo, error) {
	if g.lookup == nil {
		return nil, errNotStubbed
	}
	return g.lookup(name)
}

func (g *stubGateway) Research(_ context.Context, req types.ResearchRequest) (*types.ResearchResponse, error) {
	if g.research == nil {
		return nil, errNotStubbed
	}
	return g.research(req)
}

func (g *stubGateway) SuggestURLs(_ context.Context, name string) (*types.URLSuggestions, error) {
	if g.urls == nil {
		return nil, errNotStubbed
	}
	return g.urls(name)
}

func (g *stubGateway) Coach(_ context.Context, req types.CoachRequest, stored *types.SelfAnalysisData) (*types.CoachResponse, error) {
	if g.coach == nil {
		return nil, errNotStubbed
	}
	return g.coach(req, stored)
}

// testNow is a Wednesday.
var testNow = time.Date(2026, 4, 8, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	server  *Server
	store   *mockStore
	gateway *stubGateway
	handler http.Handler
}

func testAuthConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWT:      &config.JWTConfig{Secret: testJWTSecret, ExpirationHours: 24, Issuer: "jobhunt-test"},
		Password: &config.PasswordConfig{BcryptCost: bcrypt.MinCost},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := newMockStore()
	gw := &stubGateway{}
	s, err := New(Config{
		Store:     store,
		Gateway:   gw,
		Auth:      testAuthConfig(),
		RateLimit: &ratelimit.Config{Enabled: false},
		Now:       func() time.Time { return testNow },
	})
	require.NoError(t, err)
	t.Cleanup(s.rateLimiter.Stop)
	return &testEnv{server: s, store: store, gateway: gw, handler: s.Handler()}
}

// do sends a request through the full middleware chain.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

// login registers a user and returns its id and token.
func (e *testEnv) login(t *testing.T) (uuid.UUID, string) {
	t.Helper()
	w := e.do(t, http.MethodPost, "/v1/auth/register", "", types.RegisterRequest{
		Name: "山田太郎", Email: uuid.NewString()[:8] + "@example.com", Password: "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.User.ID, resp.Token
}

// seedCompany stores a company for userID and returns it.
func (e *testEnv) seedCompany(t *testing.T, userID uuid.UUID, name string, updated time.Time, steps ...types.SelectionStep) types.Company {
	t.Helper()
	if steps == nil {
		steps = []types.SelectionStep{}
	}
	c := types.Company{
		ID:             uuid.NewString(),
		Name:           name,
		CurrentStatus:  types.StatusInterested,
		Priority:       types.PriorityMedium,
		SelectionSteps: steps,
		CreatedAt:      updated,
		UpdatedAt:      updated,
	}
	require.NoError(t, e.store.SaveCompany(context.Background(), userID, &c))
	return c
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func at(t time.Time) *time.Time { return &t }
