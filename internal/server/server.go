// Package server provides the HTTP server setup and wiring.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pendergraft/verifactor/internal/config"
	"github.com/pendergraft/verifactor/internal/explorer"
	"github.com/pendergraft/verifactor/internal/middleware/logging"
	"github.com/pendergraft/verifactor/internal/middleware/ratelimit"
	"github.com/pendergraft/verifactor/internal/middleware/realip"
	"github.com/pendergraft/verifactor/internal/middleware/security"
	"github.com/pendergraft/verifactor/internal/observability/metrics"
	"github.com/pendergraft/verifactor/internal/storage"
	submissionsDomain "github.com/pendergraft/verifactor/internal/submissions/domain"
	submissionsTransport "github.com/pendergraft/verifactor/internal/submissions/transport"
	"github.com/pendergraft/verifactor/internal/verify"
)

// Server is the HTTP server
type Server struct {
	cfg    *config.Config
	store  storage.Store
	logger *slog.Logger
	router *chi.Mux

	submissionsSvc submissionsTransport.Service
}

// New creates a new server
func New(cfg *config.Config, store storage.Store, logger *slog.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		store:  store,
		logger: logger,
		router: chi.NewRouter(),
	}

	// Explorer client shared by all relayed submissions
	baseURL := cfg.Explorer.BaseURL
	if baseURL == "" {
		baseURL = explorer.DefaultBaseURL
	}
	exp := explorer.New(baseURL, cfg.Explorer.APIKey,
		explorer.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Explorer.TimeoutSeconds) * time.Second}),
		explorer.WithRateLimit(cfg.Explorer.RequestsPerSec, cfg.Explorer.Burst),
	)

	verifier := verify.NewService(exp, logger)
	s.submissionsSvc = submissionsDomain.NewService(store, verifier, logger)

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// MetricsHandler returns the metrics HTTP handler for separate metrics server
func (s *Server) MetricsHandler() http.Handler {
	return metrics.Handler()
}

func (s *Server) setupMiddleware() {
	// Order matters! Request guards run first.

	// 1. Real IP extraction (must be first to set client IP for other middleware)
	s.router.Use(realip.Middleware(realip.Config{
		TrustProxy:     s.cfg.Proxy.TrustProxy,
		TrustedProxies: s.cfg.Proxy.TrustedProxies,
	}))

	// 2. Body size limit (flattened sources are the largest payloads)
	s.router.Use(security.MaxBodySizeMiddleware(s.cfg.Security.MaxBodySizeMB))

	// 3. Rate limiting (bypasses health checks)
	s.router.Use(ratelimit.Middleware(ratelimit.Config{
		Enabled:        s.cfg.RateLimit.Enabled,
		RequestsPerMin: s.cfg.RateLimit.RequestsPerMin,
		BurstSize:      s.cfg.RateLimit.BurstSize,
		CleanupMinutes: s.cfg.RateLimit.CleanupMinutes,
	}))

	// 4. Standard middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(logging.Middleware(s.logger))
	s.router.Use(metrics.Middleware)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	// 5. CORS
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})
}

func (s *Server) setupRoutes() {
	// Health checks
	s.router.Get("/health", s.handleHealth)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/readyz", s.handleHealth)

	submissionsHandler := submissionsTransport.NewHandler(s.submissionsSvc)

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/verifications", submissionsHandler.RegisterRoutes)
	})
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
