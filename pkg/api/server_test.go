package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goran-ethernal/TicketIndexor/internal/common"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/goran-ethernal/TicketIndexor/internal/store"
	"github.com/goran-ethernal/TicketIndexor/pkg/api/mocks"
	"github.com/goran-ethernal/TicketIndexor/pkg/config"
	"github.com/goran-ethernal/TicketIndexor/pkg/indexer"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testAPIConfig() *config.APIConfig {
	cfg := &config.APIConfig{
		Enabled:       true,
		ListenAddress: "localhost:0",
		ReadTimeout:   common.Duration{Duration: 5 * time.Second},
		WriteTimeout:  common.Duration{Duration: 5 * time.Second},
		IdleTimeout:   common.Duration{Duration: 60 * time.Second},
	}
	cfg.ApplyDefaults()

	return cfg
}

func TestNewServer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(cfg *config.APIConfig)
		validate func(t *testing.T, server *Server)
	}{
		{
			name: "create server with basic config",
			mutate: func(cfg *config.APIConfig) {
				cfg.ListenAddress = "localhost:8080"
				cfg.WriteTimeout = common.NewDuration(10 * time.Second)
			},
			validate: func(t *testing.T, server *Server) {
				t.Helper()

				require.NotNil(t, server.projection)
				require.NotNil(t, server.handler)
				require.NotNil(t, server.log)
				require.Nil(t, server.limiter)
				require.Equal(t, "localhost:8080", server.server.Addr)
				require.Equal(t, 5*time.Second, server.server.ReadTimeout)
				require.Equal(t, 10*time.Second, server.server.WriteTimeout)
				require.Equal(t, 60*time.Second, server.server.IdleTimeout)
			},
		},
		{
			name: "create server with CORS enabled",
			mutate: func(cfg *config.APIConfig) {
				cfg.CORS = config.CORSConfig{
					Enabled:        true,
					AllowedOrigins: []string{"http://localhost:3000", "https://example.com"},
				}
			},
			validate: func(t *testing.T, server *Server) {
				t.Helper()

				require.True(t, server.config.CORS.Enabled)
				require.Len(t, server.config.CORS.AllowedOrigins, 2)
			},
		},
		{
			name: "create server with rate limit",
			mutate: func(cfg *config.APIConfig) {
				cfg.RateLimit = config.RateLimitConfig{
					Enabled:     true,
					MaxRequests: 5,
					Interval:    common.NewDuration(time.Second),
				}
			},
			validate: func(t *testing.T, server *Server) {
				t.Helper()

				require.NotNil(t, server.limiter)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testAPIConfig()
			tt.mutate(cfg)

			server, err := NewServer(cfg, mocks.NewProjection(t), logger.NewNopLogger())
			require.NoError(t, err)
			t.Cleanup(server.closeLimiter)

			tt.validate(t, server)
		})
	}
}

func TestServer_Start_Disabled(t *testing.T) {
	t.Parallel()

	cfg := testAPIConfig()
	cfg.Enabled = false

	server, err := NewServer(cfg, mocks.NewProjection(t), logger.NewNopLogger())
	require.NoError(t, err)

	// Start returns without waiting for ctx
	done := make(chan error, 1)
	go func() {
		done <- server.Start(context.Background())
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Start() did not return when server is disabled")
	}
}

func TestServer_Start_GracefulShutdown(t *testing.T) {
	t.Parallel()

	cfg := testAPIConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, MaxRequests: 1, Interval: common.NewDuration(time.Second)}

	server, err := NewServer(cfg, mocks.NewProjection(t), logger.NewNopLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- server.Start(ctx)
	}()

	// Give server time to start
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(shutdownCtxTimeout + 5*time.Second):
		t.Fatal("Server did not shutdown gracefully within timeout")
	}
}

func TestServer_Start_ListenError(t *testing.T) {
	t.Parallel()

	cfg := testAPIConfig()
	cfg.ListenAddress = "localhost:-1"

	server, err := NewServer(cfg, mocks.NewProjection(t), logger.NewNopLogger())
	require.NoError(t, err)

	select {
	case err := <-startAsync(server):
		require.ErrorContains(t, err, "API server error")
	case <-time.After(5 * time.Second):
		t.Fatal("Start() did not report the listen error")
	}
}

func startAsync(server *Server) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- server.Start(context.Background())
	}()
	return done
}

func TestServer_Routes(t *testing.T) {
	t.Parallel()

	projection := mocks.NewProjection(t)
	projection.EXPECT().GetEvent(mock.Anything, int64(7)).Return(&store.Event{ID: 7}, nil).Once()
	projection.EXPECT().GetOffer(mock.Anything, int64(42)).Return(&store.Offer{ID: 42}, nil).Once()
	projection.EXPECT().GetAccount(mock.Anything, alice).Return(&store.Account{Address: alice}, nil).Once()
	projection.EXPECT().QueryEvents(mock.Anything, mock.Anything).Return([]*store.Event{}, int64(0), nil).Once()
	projection.EXPECT().QueryOffers(mock.Anything, mock.Anything).Return([]*store.Offer{}, int64(0), nil).Twice()
	projection.EXPECT().QueryAccounts(mock.Anything, mock.Anything).Return([]*store.Account{}, int64(0), nil).Once()
	projection.EXPECT().GetStats(mock.Anything).Return(&indexer.StatsResponse{}, nil).Twice()

	server, err := NewServer(testAPIConfig(), projection, logger.NewNopLogger())
	require.NoError(t, err)
	handler := server.Handler()

	routes := []struct {
		path   string
		status int
	}{
		{path: "/health", status: http.StatusOK},
		{path: "/api/v1/stats", status: http.StatusOK},
		{path: "/api/v1/accounts", status: http.StatusOK},
		{path: "/api/v1/accounts/" + alice, status: http.StatusOK},
		{path: "/api/v1/events", status: http.StatusOK},
		{path: "/api/v1/events/7", status: http.StatusOK},
		{path: "/api/v1/events/7/offers", status: http.StatusOK},
		{path: "/api/v1/offers", status: http.StatusOK},
		{path: "/api/v1/offers/42", status: http.StatusOK},
		{path: "/api/v1/tickets", status: http.StatusNotFound},
	}

	for _, rt := range routes {
		req := httptest.NewRequest(http.MethodGet, rt.path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, rt.status, w.Code, rt.path)
		require.NotEmpty(t, w.Header().Get(RequestIDHeader), rt.path)
	}

	// read-only API
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestServer_RateLimit(t *testing.T) {
	t.Parallel()

	projection := mocks.NewProjection(t)
	projection.EXPECT().GetStats(mock.Anything).Return(&indexer.StatsResponse{}, nil).Times(2)

	cfg := testAPIConfig()
	cfg.RateLimit = config.RateLimitConfig{
		Enabled:     true,
		MaxRequests: 2,
		Interval:    common.NewDuration(time.Minute),
	}

	server, err := NewServer(cfg, projection, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(server.closeLimiter)

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
		req.Header.Set("X-Forwarded-For", ip)
		w := httptest.NewRecorder()
		server.Handler().ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, call("10.0.0.1"))
	require.Equal(t, http.StatusOK, call("10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))

	// other clients have their own budget
	projection.EXPECT().GetStats(mock.Anything).Return(&indexer.StatsResponse{}, nil).Once()
	require.Equal(t, http.StatusOK, call("10.0.0.2"))
}

func TestServer_CORSPreflight(t *testing.T) {
	t.Parallel()

	cfg := testAPIConfig()
	cfg.CORS = config.CORSConfig{Enabled: true, AllowedOrigins: []string{"https://tickets.example"}}

	server, err := NewServer(cfg, mocks.NewProjection(t), logger.NewNopLogger())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/events", nil)
	req.Header.Set("Origin", "https://tickets.example")
	w := httptest.NewRecorder()
	server.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "https://tickets.example", w.Header().Get("Access-Control-Allow-Origin"))
}
