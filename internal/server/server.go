package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/jonathan/resume-screener/docs" // registers the Swagger document
	"github.com/jonathan/resume-screener/internal/config"
	"github.com/jonathan/resume-screener/internal/db"
	"github.com/jonathan/resume-screener/internal/logger"
	"github.com/jonathan/resume-screener/internal/pipeline"
	"github.com/jonathan/resume-screener/internal/ranking"
	"github.com/jonathan/resume-screener/internal/rewriting"
	"github.com/jonathan/resume-screener/internal/server/middleware"
	"github.com/jonathan/resume-screener/internal/server/ratelimit"
)

const shutdownTimeout = 30 * time.Second

// PDFRenderer prints rendered HTML to PDF.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// Dependencies are the collaborators the server routes to. Store, Embedder and
// PDF are optional; the endpoints that need them answer 503 when they are nil.
type Dependencies struct {
	Config      *config.Config
	Screener    *pipeline.Screener
	Store       db.Store
	Rewriter    *rewriting.Rewriter
	Embedder    ranking.Embedder
	PDF         PDFRenderer
	RateLimiter *ratelimit.Limiter
	Logger      *zap.Logger
}

// Server represents the HTTP server
type Server struct {
	cfg         *config.Config
	screener    *pipeline.Screener
	store       db.Store
	rewriter    *rewriting.Rewriter
	embedder    ranking.Embedder
	pdf         PDFRenderer
	logger      *zap.Logger
	rateLimiter *ratelimit.Limiter
	guests      *GuestQuota
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler
	oauth       *GoogleOAuthHandler
	router      chi.Router
	httpServer  *http.Server
}

// New creates a new server instance
func New(deps Dependencies) (*Server, error) {
	if deps.Config == nil {
		return nil, errors.New("config is required")
	}
	if deps.Screener == nil {
		return nil, errors.New("screener is required")
	}
	cfg := deps.Config

	s := &Server{
		cfg:         cfg,
		screener:    deps.Screener,
		store:       deps.Store,
		rewriter:    deps.Rewriter,
		embedder:    deps.Embedder,
		pdf:         deps.PDF,
		logger:      logger.OrNop(deps.Logger),
		rateLimiter: deps.RateLimiter,
		guests:      NewGuestQuota(cfg.Server.FreeGuestAnalyses, cfg.Server.GuestQuotaTTL),
	}
	if s.rewriter == nil {
		s.rewriter = rewriting.NewRewriter(nil, "", s.logger)
	}
	if s.rateLimiter == nil {
		s.rateLimiter = ratelimit.NewLimiter(ratelimit.NewConfig(cfg.RateLimit))
	}

	// Accounts need both a store and a signing secret.
	if s.store != nil {
		jwtConfig, err := cfg.JWT()
		if err != nil {
			return nil, fmt.Errorf("failed to create JWT config: %w", err)
		}
		passwordConfig, err := cfg.Password()
		if err != nil {
			return nil, fmt.Errorf("failed to create password config: %w", err)
		}
		s.jwtService = NewJWTService(jwtConfig)
		s.userService = NewUserService(s.store, passwordConfig)
		s.authHandler = NewAuthHandler(s.userService, s.jwtService)
		if cfg.GoogleLoginEnabled() {
			s.oauth = NewGoogleOAuthHandler(cfg.OAuth, s.userService, s.jwtService, s.logger)
		}
	}

	s.router = s.routes()
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.withLogging)
	r.Use(chimw.Recoverer)
	r.Use(s.withCORS)
	r.Use(s.withRateLimit)

	var validator middleware.TokenValidator
	if s.jwtService != nil {
		validator = s.jwtService.AsTokenValidator()
	}
	requireAuth := middleware.AuthMiddleware(validator)

	r.Get("/health", s.handleHealth)
	r.Get("/domains", s.handleDomains)
	r.Get("/vocabulary/schema", s.handleVocabularySchema)

	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalAuth(validator))
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/analyze/text", s.handleAnalyzeText)
	})
	r.Post("/export", s.handleExport)
	r.Post("/rank", s.handleRank)
	r.Post("/rewrite", s.handleRewrite)
	r.Post("/render", s.handleRender)

	r.Route("/auth", func(r chi.Router) {
		r.Use(s.requireAccounts)
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.With(requireAuth).Put("/password", s.handleUpdatePassword)
		r.Get("/google/login", s.handleGoogleLogin)
		r.Get("/google/callback", s.handleGoogleCallback)
	})
	r.Group(func(r chi.Router) {
		r.Use(s.requireAccounts, requireAuth)
		r.Get("/users/me", s.handleMe)
		r.Get("/history", s.handleHistory)
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	return r
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until ctx is cancelled or SIGINT/SIGTERM arrives, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			s.Close()
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	defer s.Close()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close stops background work owned by the server. The store belongs to the caller.
func (s *Server) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "X-RateLimit-Limit, X-RateLimit-Remaining, X-RateLimit-Reset, Retry-After, X-Request-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit applies per-client token buckets.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging logs one line per request.
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String(logger.FieldRequestID, chimw.GetReqID(r.Context())),
			zap.String("remote", r.RemoteAddr),
		}
		if status >= http.StatusInternalServerError {
			s.logger.Error("request completed", fields...)
			return
		}
		s.logger.Info("request completed", fields...)
	})
}

// requireAccounts answers 503 when no user store is configured.
func (s *Server) requireAccounts(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.userService == nil {
			writeServiceError(w, &ErrUnavailable{Feature: "user accounts"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth returns server health status
//
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Register(w, r)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Login(w, r)
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	s.authHandler.UpdatePassword(w, r)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	s.authHandler.Me(w, r)
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauth == nil {
		writeServiceError(w, &ErrUnavailable{Feature: "Google sign-in"})
		return
	}
	s.oauth.Login(w, r)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauth == nil {
		writeServiceError(w, &ErrUnavailable{Feature: "Google sign-in"})
		return
	}
	s.oauth.Callback(w, r)
}

// extractClientID returns the client IP. RealIP has already applied X-Forwarded-For / X-Real-IP.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}
	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Round(time.Second).Seconds())
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.Warn("rate limit exceeded",
		zap.String("client", extractClientID(r)),
		zap.String("path", r.URL.Path),
		zap.Int("limit", info.Limit),
	)
	writeJSON(w, http.StatusTooManyRequests, response)
}
