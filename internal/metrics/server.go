package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/goran-ethernal/TicketIndexor/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	systemMetricsInterval = 15 * time.Second
	serverTimeout         = 10 * time.Second
)

// Server exposes the Prometheus registry over HTTP.
type Server struct {
	config *config.MetricsConfig
	log    *logger.Logger

	server *http.Server
	cancel context.CancelFunc
}

// NewServer creates a new metrics server.
func NewServer(cfg *config.MetricsConfig, log *logger.Logger) *Server {
	return &Server{config: cfg, log: log}
}

// Handler serves the metrics registry at the configured path and a liveness probe at /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET "+s.config.Path, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorLog:          zapErrorLog{s.log},
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return mux
}

// Start binds the listen address and serves in the background until Stop or ctx is done.
// Binding errors are returned directly.
func (s *Server) Start(ctx context.Context) error {
	if s.config == nil || !s.config.Enabled {
		return nil
	}

	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: serverTimeout / 2,
		ReadTimeout:       serverTimeout,
		WriteTimeout:      serverTimeout,
	}

	go s.collectSystemMetrics(ctx)

	go func() {
		s.log.Infof("Metrics server listening on %s%s", ln.Addr(), s.config.Path)
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Errorf("metrics server error: %v", err)
			ErrorsInc("metrics", "error")
		}
	}()

	return nil
}

// Stop shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	s.cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown metrics server: %w", err)
	}

	return nil
}

func (s *Server) collectSystemMetrics(ctx context.Context) {
	UpdateSystemMetrics()

	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			UpdateSystemMetrics()
		case <-ctx.Done():
			return
		}
	}
}

// zapErrorLog routes promhttp errors to the component logger.
type zapErrorLog struct {
	log *logger.Logger
}

func (l zapErrorLog) Println(v ...any) {
	l.log.Error(v...)
}
