package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/resume-builder/internal/assistant"
	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/ingestion"
	"github.com/jonathan/resume-builder/internal/llm"
	"github.com/jonathan/resume-builder/internal/locale"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
)

// evictionInterval is how often idle sessions are evicted.
const evictionInterval = 10 * time.Minute

// PostingFetcher imports the text of a job posting from a URL.
type PostingFetcher func(ctx context.Context, url string) (string, error)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	handler     http.Handler
	cfg         config.Config
	db          *db.DB
	sessions    *Sessions
	assistant   *assistant.Service
	llmFactory  llm.Factory
	renderer    rendering.PDFRenderer
	postings    PostingFetcher
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	logger      *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithDatabase enables session persistence.
func WithDatabase(database *db.DB) Option {
	return func(s *Server) { s.db = database }
}

// WithLLMFactory replaces the Gemini client factory.
func WithLLMFactory(f llm.Factory) Option {
	return func(s *Server) { s.llmFactory = f }
}

// WithPDFRenderer replaces the headless Chrome renderer.
func WithPDFRenderer(r rendering.PDFRenderer) Option {
	return func(s *Server) { s.renderer = r }
}

// WithPostingFetcher replaces the job posting importer.
func WithPostingFetcher(f PostingFetcher) Option {
	return func(s *Server) { s.postings = f }
}

// WithRateLimiter replaces the limiter configured from the environment.
func WithRateLimiter(l *ratelimit.Limiter) Option {
	return func(s *Server) { s.rateLimiter = l }
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a new server instance
func New(cfg config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	jwtConfig, err := config.NewJWTConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	if jwtConfig.Ephemeral {
		s.logger.Warn("JWT_SECRET not set; session tokens will not survive a restart")
	}
	s.jwtService = NewJWTService(jwtConfig)

	if s.llmFactory == nil {
		s.llmFactory = llm.NewFactory(llm.DefaultConfig(), s.logger)
	}
	s.assistant = assistant.New(s.llmFactory, cfg.GeminiAPIKey, assistant.WithLogger(s.logger))

	if s.renderer == nil {
		s.renderer = rendering.NewChromeRenderer(cfg.ChromePath)
	}
	if s.postings == nil {
		s.postings = s.importPosting
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())
	}

	var persist SessionStore
	if s.db != nil {
		persist = s.db
	}
	s.sessions = NewSessions(persist, jwtConfig.TTL(), cfg.DefaultTemplate, s.logger)

	s.handler = s.routes()
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second, // Long timeout for AI requests and PDF export
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /sessions", s.handleCreateSession)

	authed := func(h http.HandlerFunc) http.Handler {
		return middleware.AuthMiddleware(s.jwtService.AsTokenValidator())(middleware.RequireSession("id")(h))
	}

	mux.Handle("GET /sessions/{id}", authed(s.handleGetSession))
	mux.Handle("DELETE /sessions/{id}", authed(s.handleDeleteSession))
	mux.Handle("PUT /sessions/{id}/personal-info", authed(s.handleUpdatePersonalInfo))
	mux.Handle("PUT /sessions/{id}/template", authed(s.handleSetTemplate))
	mux.Handle("PUT /sessions/{id}/step", authed(s.handleSetStep))
	mux.Handle("POST /sessions/{id}/preview/toggle", authed(s.handleTogglePreview))
	mux.Handle("POST /sessions/{id}/load", authed(s.handleLoad))

	// AI and rendering
	mux.Handle("POST /sessions/{id}/optimize", authed(s.handleOptimize))
	mux.Handle("POST /sessions/{id}/upload", authed(s.handleUpload))
	mux.Handle("GET /sessions/{id}/preview", authed(s.handlePreview))
	mux.Handle("GET /sessions/{id}/export", authed(s.handleExport))

	// Collection entries
	mux.Handle("POST /sessions/{id}/{collection}", authed(s.handleAddEntry))
	mux.Handle("PUT /sessions/{id}/{collection}/{entry_id}", authed(s.handleUpdateEntry))
	mux.Handle("DELETE /sessions/{id}/{collection}/{entry_id}", authed(s.handleDeleteEntry))

	return middleware.RequestID(middleware.Logging(s.logger)(s.withRateLimit(middleware.CORS(mux))))
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Sessions returns the session registry.
func (s *Server) Sessions() *Sessions {
	return s.sessions
}

// Start begins listening for requests and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return s.Run(ctx)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	evictCtx, cancelEvict := context.WithCancel(ctx)
	defer cancelEvict()
	go s.sessions.Run(evictCtx, evictionInterval)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr, "persistence", s.db != nil)
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
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.Close()
	s.logger.Info("server stopped")
	return nil
}

// Close releases background resources. The database is owned by the caller.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
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

// extractClientID extracts the client identifier from the request.
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
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.WarnContext(r.Context(), "rate limit exceeded",
		"client", s.extractClientID(r), "path", r.URL.Path, "limit", info.Limit)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "persistence": "disabled"}
	if s.db != nil {
		status["persistence"] = "ok"
		if err := s.db.Ping(r.Context()); err != nil {
			status["status"] = "degraded"
			status["persistence"] = "unreachable"
			s.jsonResponse(w, http.StatusServiceUnavailable, status)
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, status)
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse maps err to a status and writes the JSON error body.
func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	status, body := newErrorBody(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "error", err, "status", status)
	} else {
		s.logger.DebugContext(r.Context(), "request rejected", "error", err, "status", status)
	}
	s.jsonResponse(w, status, body)
}

// session resolves the {id} path parameter to a live session.
func (s *Server) session(r *http.Request) (*Session, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return s.sessions.Get(r.Context(), id)
}

// requestLocale picks the explicit locale, then Accept-Language, then the
// configured default.
func (s *Server) requestLocale(r *http.Request, explicit string) locale.Locale {
	if explicit != "" {
		return locale.Parse(explicit)
	}
	if q := r.URL.Query().Get("locale"); q != "" {
		return locale.Parse(q)
	}
	if al := r.Header.Get("Accept-Language"); al != "" {
		return locale.Negotiate(al)
	}
	return locale.Parse(s.cfg.DefaultLocale)
}

func (s *Server) importPosting(ctx context.Context, url string) (string, error) {
	text, meta, err := ingestion.IngestJobPosting(ctx, url, ingestion.JobPostingOptions{
		UseBrowser: true,
		ChromePath: s.cfg.ChromePath,
	})
	if err != nil {
		return "", err
	}
	s.logger.InfoContext(ctx, "imported job posting", meta.LogAttrs()...)
	return text, nil
}
