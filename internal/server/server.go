package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/jobhunt-tracker/internal/config"
	"github.com/jonathan/jobhunt-tracker/internal/logging"
	"github.com/jonathan/jobhunt-tracker/internal/server/middleware"
	"github.com/jonathan/jobhunt-tracker/internal/server/ratelimit"
	"github.com/jonathan/jobhunt-tracker/internal/types"
)

// maxBodyBytes caps request bodies. Company documents with interview logs are the largest.
const maxBodyBytes = 1 << 20

// Store is the record store the API reads and writes.
type Store interface {
	DBClient
	Ping(ctx context.Context) error
	ListCompanies(ctx context.Context, userID uuid.UUID) ([]types.Company, error)
	GetCompany(ctx context.Context, userID uuid.UUID, id string) (*types.Company, error)
	SaveCompany(ctx context.Context, userID uuid.UUID, c *types.Company) error
	UpdateCompany(ctx context.Context, userID uuid.UUID, id string, fn func(*types.Company) error) (*types.Company, error)
	DeleteCompany(ctx context.Context, userID uuid.UUID, id string) error
	GetSelfAnalysis(ctx context.Context, userID uuid.UUID) (*types.SelfAnalysisData, error)
	SaveSelfAnalysis(ctx context.Context, userID uuid.UUID, data *types.SelfAnalysisData) error
}

// Gateway is the generative drafting surface behind /v1/ai.
type Gateway interface {
	DraftES(ctx context.Context, req types.ESDraftRequest, company *types.Company, selfAnalysis *types.SelfAnalysisData) (*types.ESDraftResponse, error)
	LookupCompany(ctx context.Context, name string) (*types.CompanyInfo, error)
	Research(ctx context.Context, req types.ResearchRequest) (*types.ResearchResponse, error)
	SuggestURLs(ctx context.Context, name string) (*types.URLSuggestions, error)
	Coach(ctx context.Context, req types.CoachRequest, stored *types.SelfAnalysisData) (*types.CoachResponse, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	store       Store
	gateway     Gateway
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	log         logging.Logger
	now         func() time.Time
}

// Config holds server configuration
type Config struct {
	Port      int
	Store     Store
	Gateway   Gateway // nil answers /v1/ai with 503
	Auth      *config.AuthConfig
	RateLimit *ratelimit.Config // nil reads the environment
	Logger    logging.Logger
	Now       func() time.Time
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}
	if cfg.Auth == nil || cfg.Auth.JWT == nil || cfg.Auth.Password == nil {
		return nil, fmt.Errorf("auth config is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.RateLimit == nil {
		cfg.RateLimit = ratelimit.LoadConfig()
	}

	s := &Server{
		store:       cfg.Store,
		gateway:     cfg.Gateway,
		rateLimiter: ratelimit.NewLimiter(cfg.RateLimit),
		jwtService:  NewJWTService(cfg.Auth.JWT),
		userService: NewUserService(cfg.Store, cfg.Auth.Password),
		log:         cfg.Logger,
		now:         cfg.Now,
	}
	s.authHandler = NewAuthHandler(s.userService, s.jwtService, s.log)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("POST /v1/auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /v1/auth/login", s.authHandler.Login)
	mux.Handle("PUT /v1/auth/password", s.protected(s.authHandler.UpdatePassword))
	mux.Handle("GET /v1/auth/me", s.protected(s.authHandler.Me))

	mux.Handle("GET /v1/companies", s.protected(s.handleListCompanies))
	mux.Handle("POST /v1/companies", s.protected(s.handleCreateCompany))
	mux.Handle("GET /v1/companies/{id}", s.protected(s.handleGetCompany))
	mux.Handle("PUT /v1/companies/{id}", s.protected(s.handleReplaceCompany))
	mux.Handle("DELETE /v1/companies/{id}", s.protected(s.handleDeleteCompany))
	mux.Handle("PATCH /v1/companies/{id}/status", s.protected(s.handleUpdateStatus))

	mux.Handle("GET /v1/step-presets", s.protected(s.handleStepPresets))
	mux.Handle("POST /v1/companies/{id}/steps", s.protected(s.handleAddStep))
	mux.Handle("PATCH /v1/companies/{id}/steps/{step_id}", s.protected(s.handlePatchStep))
	mux.Handle("PUT /v1/companies/{id}/steps/{step_id}/status", s.protected(s.handleSetStepStatus))
	mux.Handle("POST /v1/companies/{id}/steps/{step_id}/toggle", s.protected(s.handleToggleStep))
	mux.Handle("DELETE /v1/companies/{id}/steps/{step_id}", s.protected(s.handleDeleteStep))

	mux.Handle("GET /v1/stats", s.protected(s.handleStats))
	mux.Handle("GET /v1/events", s.protected(s.handleEvents))
	mux.Handle("GET /v1/schedule", s.protected(s.handleSchedule))
	mux.Handle("GET /v1/export.xlsx", s.protected(s.handleExport))

	mux.Handle("GET /v1/self-analysis", s.protected(s.handleGetSelfAnalysis))
	mux.Handle("PUT /v1/self-analysis", s.protected(s.handlePutSelfAnalysis))

	mux.Handle("POST /v1/ai/es-generator", s.protected(s.handleDraftES))
	mux.Handle("POST /v1/ai/company-info", s.protected(s.handleCompanyInfo))
	mux.Handle("POST /v1/ai/company-research", s.protected(s.handleCompanyResearch))
	mux.Handle("POST /v1/ai/company-urls", s.protected(s.handleCompanyURLs))
	mux.Handle("POST /v1/ai/coach", s.protected(s.handleCoach))

	s.handler = s.withRateLimit(s.withLogging(s.withCORS(mux)))
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // research fetches pages before generating
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// Handler returns the fully wrapped router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start serves until SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server starting", logging.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.log.Info("server stopped")
	return nil
}

// protected wraps h with bearer-token authentication.
func (s *Server) protected(h http.HandlerFunc) http.Handler {
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(h)
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset, Retry-After")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code for request logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}
		fields := []logging.Field{
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", status),
			logging.Int("bytes", rec.bytes),
			logging.Duration("elapsed", time.Since(start)),
		}
		if status >= http.StatusInternalServerError {
			s.log.Warn("request failed", fields...)
			return
		}
		s.log.Info("request", fields...)
	})
}

// handleHealth reports liveness and whether the store answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		s.log.Warn("health check: store unreachable", logging.Err(err))
		s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("error encoding JSON response", logging.Err(err))
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, ErrorResponse{Error: message})
}

// writeError maps err onto a status and body. 5xx causes are logged, never returned.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request error",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", status),
			logging.Err(err),
		)
	}
	s.jsonResponse(w, status, errorBody(err))
}

// decodeBody reads a JSON body into dst and runs its validation tags.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return &ErrValidation{Field: "body", Message: "リクエスト本文が空です"}
		}
		return &ErrValidation{Field: "body", Message: msgInvalidBody}
	}
	if err := types.Validate(dst); err != nil {
		return validationError(err)
	}
	return nil
}

// validationError converts validator errors into ErrValidation for the first failing field.
func validationError(err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		first := ve[0]
		return &ErrValidation{Field: first.Field(), Message: fmt.Sprintf("%s の値が不正です (%s)", first.Field(), first.Tag())}
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return err
	}
	return &ErrValidation{Field: "body", Message: msgInvalidBody}
}

// userID returns the authenticated user or writes a 401.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "認証が必要です")
		return uuid.Nil, false
	}
	return id, true
}

// extractClientID extracts the client identifier from the request.
// X-Forwarded-For is not trusted; deployments behind a proxy should terminate it there.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "リクエストが多すぎます。しばらくしてから再度お試しください。",
		"details":   "rate_limit_exceeded",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		secs := int(info.RetryAfter.Seconds() + 0.999)
		response["retry_after"] = secs
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	s.log.Warn("rate limit exceeded",
		logging.String("client", s.extractClientID(r)),
		logging.String("path", r.URL.Path),
		logging.Int("limit", info.Limit),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
