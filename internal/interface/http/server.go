// Package http implements the REST API for the Scholarship Review Hub.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/onemoreday/scholarship-hub/internal/application/command"
	"github.com/onemoreday/scholarship-hub/internal/application/query"
	"github.com/onemoreday/scholarship-hub/internal/domain/shared"
	"github.com/onemoreday/scholarship-hub/internal/infrastructure/persistence/redis"
	"github.com/onemoreday/scholarship-hub/pkg/logger"

	"github.com/onemoreday/scholarship-hub/config"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Host is the server host (default: "0.0.0.0").
	Host string

	// Port is the server port (default: 8080).
	Port int

	// ReadTimeout is the maximum duration for reading requests.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum duration for writing responses.
	// Kept generous: the overview export holds the connection open while
	// the assistant summarizes each applicant.
	WriteTimeout time.Duration

	// IdleTimeout is the maximum duration for idle keep-alive connections.
	IdleTimeout time.Duration

	// MaxUploadBytes caps the CSV import request body.
	MaxUploadBytes int64

	// AllowedOrigins for CORS.
	AllowedOrigins []string

	// RateLimitPerMinute is the per-IP request limit (0 disables).
	RateLimitPerMinute int

	// SecureCookies marks session cookies as Secure (HTTPS only).
	SecureCookies bool
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:               "0.0.0.0",
		Port:               8080,
		ReadTimeout:        15 * time.Second,
		WriteTimeout:       60 * time.Second,
		IdleTimeout:        120 * time.Second,
		MaxUploadBytes:     10 << 20,
		AllowedOrigins:     []string{"*"},
		RateLimitPerMinute: 120,
	}
}

// ConfigFrom maps the application HTTP settings onto a server Config.
func ConfigFrom(c config.HTTPConfig) Config {
	cfg := DefaultConfig()
	cfg.Host = c.Host
	cfg.Port = c.Port
	if c.ReadTimeout > 0 {
		cfg.ReadTimeout = c.ReadTimeout
	}
	if c.WriteTimeout > 0 {
		cfg.WriteTimeout = c.WriteTimeout
	}
	if c.IdleTimeout > 0 {
		cfg.IdleTimeout = c.IdleTimeout
	}
	if c.MaxUploadBytes > 0 {
		cfg.MaxUploadBytes = c.MaxUploadBytes
	}
	if len(c.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = c.AllowedOrigins
	}
	return cfg
}

// Address returns the full server address.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// DEPENDENCIES
// ══════════════════════════════════════════════════════════════════════════════

// SessionStore abstracts the session backend (Redis in production).
type SessionStore interface {
	Create(ctx context.Context, sess *redis.Session) (string, error)
	Get(ctx context.Context, token string) (*redis.Session, error)
	Update(ctx context.Context, token string, sess *redis.Session) error
	Delete(ctx context.Context, token string) error
}

// HealthChecker reports backend component health.
type HealthChecker interface {
	Check(ctx context.Context) HealthStatus
}

// HealthStatus is the aggregated health report.
type HealthStatus struct {
	Healthy    bool              `json:"healthy"`
	Components map[string]string `json:"components,omitempty"`
	Message    string            `json:"message,omitempty"`
}

// Dependencies contains the application handlers the server dispatches to.
// A nil handler disables its endpoints with 501 Not Implemented.
type Dependencies struct {
	// Auth
	SignIn         *command.SignInHandler
	ChangePassword *command.ChangePasswordHandler

	// Review
	GetReviewBoard *query.GetReviewBoardHandler
	CastVote       *command.CastVoteHandler
	AddNote        *command.AddNoteHandler
	DeleteNote     *command.DeleteNoteHandler

	// Applicants
	AddApplicant     *command.AddApplicantHandler
	ImportApplicants *command.ImportApplicantsHandler
	RemoveApplicant  *command.RemoveApplicantHandler

	// Board administration
	GetBoardMembers     *query.GetBoardMembersHandler
	InviteMember        *command.InviteMemberHandler
	RemoveMember        *command.RemoveMemberHandler
	SetMemberAdmin      *command.SetMemberAdminHandler
	ResetMemberPassword *command.ResetMemberPasswordHandler

	// Exports and communications
	ExportResults  *query.ExportResultsHandler
	ExportOverview *query.ExportOverviewHandler
	SendEmail      *command.SendEmailHandler

	// Assistant
	SearchApplicants  *query.SearchApplicantsHandler
	ChatWithApplicant *query.ChatWithApplicantHandler

	Sessions SessionStore
	Features *config.FeatureFlags
	Health   HealthChecker
	Logger   *logger.Logger
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server is the HTTP API server.
type Server struct {
	config      Config
	deps        Dependencies
	logger      *logger.Logger
	mux         *http.ServeMux
	httpServer  *http.Server
	rateLimiter *rateLimiter

	mu        sync.RWMutex
	running   bool
	startedAt time.Time
}

// NewServer creates a new HTTP server.
func NewServer(cfg Config, deps Dependencies) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.Default()
	}

	s := &Server{
		config: cfg,
		deps:   deps,
		logger: log.With(logger.Component("http_server")),
		mux:    http.NewServeMux(),
	}

	if cfg.RateLimitPerMinute > 0 {
		s.rateLimiter = newRateLimiter(cfg.RateLimitPerMinute, time.Minute)
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Address(),
		Handler:      s.buildMiddlewareChain(s.mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// setupRoutes registers all API routes.
func (s *Server) setupRoutes() {
	// Health and status
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /{$}", s.handleRoot)

	// Authentication
	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/auth/logout", s.withSession(s.handleLogout))
	s.mux.HandleFunc("POST /api/auth/change-password", s.handleChangePassword)
	s.mux.HandleFunc("GET /api/auth/me", s.withSession(s.handleMe))

	// Review board
	s.mux.HandleFunc("GET /api/review/board", s.withSession(s.handleGetReviewBoard))
	s.mux.HandleFunc("PUT /api/review/votes", s.withSession(s.handleCastVote))
	s.mux.HandleFunc("POST /api/review/applicants/{id}/notes", s.withSession(s.handleAddNote))
	s.mux.HandleFunc("DELETE /api/review/notes/{id}", s.withSession(s.handleDeleteNote))

	// Applicants
	s.mux.HandleFunc("POST /api/applicants", s.handleAddApplicant)
	s.mux.HandleFunc("POST /api/applicants/import", s.withAdmin(s.handleImportApplicants))
	s.mux.HandleFunc("DELETE /api/applicants/{id}", s.withAdmin(s.handleRemoveApplicant))

	// Board administration
	s.mux.HandleFunc("GET /api/admin/members", s.withAdmin(s.handleGetMembers))
	s.mux.HandleFunc("POST /api/admin/members", s.withAdmin(s.handleInviteMember))
	s.mux.HandleFunc("DELETE /api/admin/members/{email}", s.withAdmin(s.handleRemoveMember))
	s.mux.HandleFunc("PUT /api/admin/members/{email}/admin", s.withAdmin(s.handleSetMemberAdmin))
	s.mux.HandleFunc("POST /api/admin/members/{email}/reset-password", s.withAdmin(s.handleResetMemberPassword))
	s.mux.HandleFunc("PUT /api/admin/testing", s.withAdmin(s.handleTestingToggle))

	// Exports and communications
	s.mux.HandleFunc("GET /api/admin/export/results.csv", s.withAdmin(s.handleExportResults))
	s.mux.HandleFunc("GET /api/admin/export/overview.html", s.withAdmin(s.handleExportOverview))
	s.mux.HandleFunc("POST /api/admin/email", s.withAdmin(s.handleSendEmail))

	// Assistant
	s.mux.HandleFunc("POST /api/assistant/search", s.withSession(s.handleAssistantSearch))
	s.mux.HandleFunc("POST /api/assistant/chat", s.withSession(s.handleAssistantChat))
}

// buildMiddlewareChain wraps the handler with all middleware.
func (s *Server) buildMiddlewareChain(handler http.Handler) http.Handler {
	// Applied in reverse order (innermost first)
	middlewares := []func(http.Handler) http.Handler{
		s.requestIDMiddleware,
		s.loggingMiddleware,
		s.recoveryMiddleware,
		s.corsMiddleware,
	}
	if s.rateLimiter != nil {
		middlewares = append(middlewares, s.rateLimitMiddleware)
	}

	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return handler
}

// Handler exposes the fully wrapped handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER LIFECYCLE
// ══════════════════════════════════════════════════════════════════════════════

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.running = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("starting HTTP server", logger.String("address", s.config.Address()))

	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// StartAsync starts the server in a goroutine.
func (s *Server) StartAsync() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.Start(); err != nil {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Uptime returns the server uptime.
func (s *Server) Uptime() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.running {
		return 0
	}
	return time.Since(s.startedAt)
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH & ROOT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"name":    "Scholarship Review Hub API",
		"version": "v1",
		"endpoints": map[string]string{
			"health":    "/healthz",
			"login":     "/api/auth/login",
			"board":     "/api/review/board",
			"assistant": "/api/assistant/search",
		},
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Health != nil {
		status := s.deps.Health.Check(r.Context())
		if !status.Healthy {
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
		writeJSON(w, http.StatusOK, status)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"uptime": s.Uptime().String(),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// JSONResponse is the standard response envelope.
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError carries a machine-readable code and a human-readable message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(JSONResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
	})
}

func writeJSONError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(JSONResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: message},
	})
}

// writeDomainError maps domain error kinds onto HTTP statuses.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"

	switch {
	case errors.Is(err, shared.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, shared.ErrAlreadyVoted):
		status, code = http.StatusConflict, "already_voted"
	case errors.Is(err, shared.ErrAlreadyExists):
		status, code = http.StatusConflict, "already_exists"
	case errors.Is(err, shared.ErrInvalidState):
		status, code = http.StatusConflict, "invalid_state"
	case errors.Is(err, shared.ErrUnauthorized):
		status, code = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, shared.ErrForbidden):
		status, code = http.StatusForbidden, "forbidden"
	case errors.Is(err, shared.ErrValidation),
		errors.Is(err, shared.ErrInvalidInput),
		errors.Is(err, shared.ErrInvalidID),
		errors.Is(err, shared.ErrEmptyValue),
		errors.Is(err, shared.ErrValueOutOfRange),
		errors.Is(err, shared.ErrInvalidFormat):
		status, code = http.StatusBadRequest, "validation_failed"
	case errors.Is(err, shared.ErrExternalService):
		status, code = http.StatusBadGateway, "external_service_failed"
	case errors.Is(err, shared.ErrServiceUnavailable), errors.Is(err, shared.ErrTimeout):
		status, code = http.StatusServiceUnavailable, "service_unavailable"
	}

	if status >= 500 {
		s.logger.Error("request failed",
			logger.Err(err),
			logger.String("path", r.URL.Path),
			logger.String("request_id", getRequestID(r.Context())),
		)
		writeJSONError(w, status, code, "An unexpected error occurred")
		return
	}

	writeJSONError(w, status, code, err.Error())
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// notImplemented reports a missing dependency for an endpoint.
func notImplemented(w http.ResponseWriter, what string) {
	writeJSONError(w, http.StatusNotImplemented, "not_implemented", what+" is not configured")
}

// featureDisabled reports a feature-flagged endpoint that is switched off.
func featureDisabled(w http.ResponseWriter) {
	writeJSONError(w, http.StatusForbidden, "feature_disabled", "This feature is currently disabled")
}

// featureEnabled consults the flag registry; a missing registry means on.
func (s *Server) featureEnabled(name string, sess *redis.Session) bool {
	if s.deps.Features == nil {
		return true
	}
	var fctx *config.FeatureContext
	if sess != nil {
		fctx = &config.FeatureContext{MemberEmail: string(sess.Email), IsAdmin: sess.IsAdmin}
	}
	return s.deps.Features.IsEnabled(name, fctx)
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPER TYPES AND FUNCTIONS
// ══════════════════════════════════════════════════════════════════════════════

type contextKey string

const (
	contextKeyRequestID    contextKey = "request_id"
	contextKeySession      contextKey = "session"
	contextKeySessionToken contextKey = "session_token"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

// getRequestID extracts the request ID from context.
func getRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// generateRequestID generates a unique request ID.
func generateRequestID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), time.Now().Nanosecond()%1000)
}

// sessionFrom extracts the authenticated session from context.
func sessionFrom(ctx context.Context) *redis.Session {
	if sess, ok := ctx.Value(contextKeySession).(*redis.Session); ok {
		return sess
	}
	return nil
}

// sessionTokenFrom extracts the raw session token from context.
func sessionTokenFrom(ctx context.Context) string {
	if token, ok := ctx.Value(contextKeySessionToken).(string); ok {
		return token
	}
	return ""
}

// ══════════════════════════════════════════════════════════════════════════════
// RATE LIMITER
// ══════════════════════════════════════════════════════════════════════════════

type rateLimiter struct {
	mu       sync.RWMutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
	}

	go rl.cleanup()

	return rl
}

func (rl *rateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	windowStart := now.Add(-rl.window)

	var valid []time.Time
	for _, t := range rl.requests[key] {
		if t.After(windowStart) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[key] = valid
		return false
	}

	rl.requests[key] = append(valid, now)
	return true
}

func (rl *rateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		windowStart := time.Now().Add(-rl.window)

		for key, requests := range rl.requests {
			var valid []time.Time
			for _, t := range requests {
				if t.After(windowStart) {
					valid = append(valid, t)
				}
			}
			if len(valid) == 0 {
				delete(rl.requests, key)
			} else {
				rl.requests[key] = valid
			}
		}
		rl.mu.Unlock()
	}
}
