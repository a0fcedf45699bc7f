package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sethvargo/go-limiter"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/goran-ethernal/TicketIndexor/pkg/api/docs"
	"github.com/goran-ethernal/TicketIndexor/pkg/config"
)

// Ensure docs are initialized
var _ = docs.SwaggerInfo

const shutdownCtxTimeout = 10 * time.Second

// Server represents the API HTTP server.
type Server struct {
	config     *config.APIConfig
	projection Projection
	handler    *Handler
	limiter    limiter.Store
	server     *http.Server
	log        *logger.Logger
}

// NewServer creates a new API server.
func NewServer(cfg *config.APIConfig, projection Projection, log *logger.Logger) (*Server, error) {
	handler := NewHandler(cfg, projection, log)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /api/v1/stats", handler.GetStats)

	mux.HandleFunc("GET /api/v1/accounts", handler.GetAccounts)
	mux.HandleFunc("GET /api/v1/accounts/{address}", handler.GetAccount)

	mux.HandleFunc("GET /api/v1/events", handler.GetEvents)
	mux.HandleFunc("GET /api/v1/events/{id}", handler.GetEvent)
	mux.HandleFunc("GET /api/v1/events/{id}/offers", handler.GetEventOffers)

	mux.HandleFunc("GET /api/v1/offers", handler.GetOffers)
	mux.HandleFunc("GET /api/v1/offers/{id}", handler.GetOffer)

	mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
	))

	s := &Server{
		config:     cfg,
		projection: projection,
		handler:    handler,
		log:        log,
	}

	// Apply middleware, outermost last
	var h http.Handler = mux
	if cfg.RateLimit.Enabled {
		limit, store, err := RateLimitMiddleware(cfg.RateLimit.MaxRequests, cfg.RateLimit.Interval.Duration)
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limiter: %w", err)
		}
		h = limit(h)
		s.limiter = store
	}

	h = RecoveryMiddleware(log)(h)
	h = LoggingMiddleware(log)(h)
	h = RequestIDMiddleware()(h)

	if cfg.CORS.Enabled {
		h = CORSMiddleware(cfg.CORS.AllowedOrigins)(h)
	}

	s.server = &http.Server{
		Addr:         cfg.ListenAddress,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout.Duration,
		WriteTimeout: cfg.WriteTimeout.Duration,
		IdleTimeout:  cfg.IdleTimeout.Duration,
	}

	return s, nil
}

// Handler returns the HTTP handler with all routes and middleware applied.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start serves the API until ctx is cancelled, then shuts the server down gracefully.
func (s *Server) Start(ctx context.Context) error {
	if !s.config.Enabled {
		s.log.Info("API server is disabled")
		return nil
	}

	s.log.Infof("Starting API server on %s", s.config.ListenAddress)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		s.closeLimiter()
		return fmt.Errorf("API server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownCtxTimeout)
	defer cancel()

	s.log.Info("Shutting down API server...")
	defer s.closeLimiter()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("API server shutdown error: %w", err)
	}

	s.log.Info("API server stopped")
	return nil
}

func (s *Server) closeLimiter() {
	if s.limiter == nil {
		return
	}
	if err := s.limiter.Close(context.Background()); err != nil {
		s.log.Warnf("failed to close rate limiter: %v", err)
	}
}
