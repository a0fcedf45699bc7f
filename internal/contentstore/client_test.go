package contentstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goran-ethernal/TicketIndexor/internal/common"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/goran-ethernal/TicketIndexor/pkg/config"
	"github.com/stretchr/testify/require"
)

type eventMetadata struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func newTestClient(t *testing.T, gatewayURL, uploadURL string) *Client {
	t.Helper()

	cfg := config.ContentStoreConfig{
		GatewayURL: gatewayURL,
		UploadURL:  uploadURL,
		APIToken:   "secret",
		Retry: &config.RetryConfig{
			MaxAttempts:    3,
			InitialBackoff: common.NewDuration(time.Millisecond),
			MaxBackoff:     common.NewDuration(5 * time.Millisecond),
		},
	}
	cfg.ApplyDefaults()

	c, err := NewClient(cfg, logger.NewNopLogger())
	require.NoError(t, err)

	return c
}

func TestClient_Get(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		require.Equal(t, "/ipfs/cid123", r.URL.Path)
		_, _ = w.Write([]byte(`{"name":"Expo","category":"EDUCATION"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "")

	var meta eventMetadata
	require.NoError(t, c.Get(context.Background(), "cid123", &meta))
	require.Equal(t, eventMetadata{Name: "Expo", Category: "EDUCATION"}, meta)

	// the same content id through another reference form is served from the cache
	var again eventMetadata
	require.NoError(t, c.Get(context.Background(), "ipfs://cid123", &again))
	require.Equal(t, meta, again)
	require.Equal(t, int32(1), hits.Load())
}

func TestClient_GetRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"name":"Expo"}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "")

	var meta eventMetadata
	require.NoError(t, c.Get(context.Background(), "cid123", &meta))
	require.Equal(t, "Expo", meta.Name)
	require.Equal(t, int32(3), hits.Load())
}

func TestClient_GetFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		body     string
		ref      string
		wantHits int32
	}{
		{name: "not found is not retried", status: http.StatusNotFound, ref: "cid404", wantHits: 1},
		{name: "server errors exhaust retries", status: http.StatusBadGateway, ref: "cid502", wantHits: 3},
		{name: "malformed json", status: http.StatusOK, body: "{not json", ref: "cidbad", wantHits: 1},
		{name: "invalid reference", status: http.StatusOK, ref: "https://example.com/meta.json", wantHits: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var hits atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := newTestClient(t, srv.URL, "")

			var meta eventMetadata
			err := c.Get(context.Background(), tt.ref, &meta)
			require.ErrorIs(t, err, common.ErrMetadataFetch)
			require.Equal(t, tt.wantHits, hits.Load())
		})
	}
}

func TestClient_GetContextCancelled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL, "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var meta eventMetadata
	err := c.Get(ctx, "cid123", &meta)
	require.ErrorIs(t, err, common.ErrMetadataFetch)
	require.ErrorIs(t, err, context.Canceled)
}

func TestClient_Put(t *testing.T) {
	t.Parallel()

	var gatewayHits atomic.Int32
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gatewayHits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer gateway.Close()

	upload := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var meta eventMetadata
		require.NoError(t, json.NewDecoder(r.Body).Decode(&meta))
		require.Equal(t, "Expo", meta.Name)

		_, _ = w.Write([]byte(`{"IpfsHash":"QmUploaded","PinSize":42}`))
	}))
	defer upload.Close()

	c := newTestClient(t, gateway.URL, upload.URL)

	cid, err := c.Put(context.Background(), eventMetadata{Name: "Expo", Category: "MUSIC"})
	require.NoError(t, err)
	require.Equal(t, "QmUploaded", cid)

	var meta eventMetadata
	require.NoError(t, c.Get(context.Background(), cid, &meta))
	require.Equal(t, "MUSIC", meta.Category)
	require.Zero(t, gatewayHits.Load())
}

func TestClient_PutWithoutUploadURL(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, "http://localhost:1", "")

	_, err := c.Put(context.Background(), map[string]string{"a": "b"})
	require.ErrorContains(t, err, "upload url is not configured")
}
