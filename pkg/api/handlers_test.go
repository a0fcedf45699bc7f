package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	internalindexer "github.com/goran-ethernal/TicketIndexor/internal/indexer"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/goran-ethernal/TicketIndexor/internal/store"
	"github.com/goran-ethernal/TicketIndexor/pkg/api/mocks"
	"github.com/goran-ethernal/TicketIndexor/pkg/indexer"
	"github.com/goran-ethernal/TicketIndexor/tests/helpers"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	alice            = "0x00000000000000000000000000000000000a11ce"
	aliceChecksummed = "0x00000000000000000000000000000000000A11cE"
	bob              = "0x0000000000000000000000000000000000000b0b"
	carol            = "0x00000000000000000000000000000000000ca401"
)

var errDatabaseLocked = errors.New("database is locked")

func ptr[T any](v T) *T { return &v }

// newSeededStore returns a projection with three accounts, three events and three offers.
func newSeededStore(t *testing.T) *store.Store {
	t.Helper()

	ctx := context.Background()
	st, err := store.New(helpers.NewTestDB(t), nil, logger.NewNopLogger())
	require.NoError(t, err)

	for _, a := range []*store.Account{
		{Address: alice, Admin: true},
		{Address: bob},
		{Address: carol, KYCVerified: true},
	} {
		require.NoError(t, st.Accounts().InsertOne(ctx, a))
	}

	for _, e := range []*store.Event{
		{ID: 1, Creator: alice, Time: 100, Category: store.CategoryMusic, Name: "Opening night", Status: store.EventUpcoming},
		{ID: 2, Creator: alice, Time: 200, Category: store.CategorySports, Name: "Derby", Status: store.EventCancelled},
		{ID: 3, Creator: bob, Time: 300, Category: store.CategoryMusic, Name: "Encore", Status: store.EventUpcoming},
	} {
		require.NoError(t, st.Events().InsertOne(ctx, e))
	}

	for _, o := range []*store.Offer{
		{ID: 10, Type: store.OfferToSell, EventID: 1, Seller: ptr(alice), Amount: 100, Status: store.OfferActive},
		{ID: 11, Type: store.OfferToSell, EventID: 1, Seller: ptr(bob), Buyer: ptr(carol), Amount: 300, Status: store.OfferAccepted},
		{ID: 12, Type: store.OfferToBuy, EventID: 3, Buyer: ptr(carol), Amount: 200, Status: store.OfferActive},
	} {
		require.NoError(t, st.Offers().InsertOne(ctx, o))
	}

	require.NoError(t, st.Checkpoints().Save(ctx, internalindexer.CheckpointName, 1234, ethcommon.HexToHash("0xabc")))

	return st
}

func newTestHandler(t *testing.T, projection Projection) http.Handler {
	t.Helper()

	server, err := NewServer(testAPIConfig(), projection, logger.NewNopLogger())
	require.NoError(t, err)

	return server.Handler()
}

func get(t *testing.T, h http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, "application/json", w.Header().Get("Content-Type"), w.Body.String())
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}

	return w
}

func TestHandler_GetAccount(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, NewStoreProjection(newSeededStore(t)))

	t.Run("found by checksummed address", func(t *testing.T) {
		t.Parallel()

		var account store.Account
		w := get(t, h, "/api/v1/accounts/"+aliceChecksummed, &account)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, alice, account.Address)
		require.True(t, account.Admin)
	})

	t.Run("not found", func(t *testing.T) {
		t.Parallel()

		var resp ErrorResponse
		w := get(t, h, "/api/v1/accounts/0x0000000000000000000000000000000000000001", &resp)
		require.Equal(t, http.StatusNotFound, w.Code)
		require.Equal(t, http.StatusNotFound, resp.Code)
		require.Contains(t, resp.Message, "not found")
		require.Equal(t, w.Header().Get(RequestIDHeader), resp.RequestID)
	})

	t.Run("invalid address", func(t *testing.T) {
		t.Parallel()

		w := get(t, h, "/api/v1/accounts/alice", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_GetAccounts(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, NewStoreProjection(newSeededStore(t)))

	var all AccountListResponse
	require.Equal(t, http.StatusOK, get(t, h, "/api/v1/accounts?sort_order=asc", &all).Code)
	require.Len(t, all.Accounts, 3)
	require.Equal(t, alice, all.Accounts[0].Address)

	var admins AccountListResponse
	require.Equal(t, http.StatusOK, get(t, h, "/api/v1/accounts?admin=true", &admins).Code)
	require.Len(t, admins.Accounts, 1)
	require.Equal(t, int64(1), admins.Pagination.Total)

	require.Equal(t, http.StatusBadRequest, get(t, h, "/api/v1/accounts?admin=maybe", nil).Code)
}

func TestHandler_GetEvents(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, NewStoreProjection(newSeededStore(t)))

	tests := []struct {
		name     string
		query    string
		expected []int64
		total    int64
		hasMore  bool
	}{
		{name: "all newest first", query: "", expected: []int64{3, 2, 1}, total: 3},
		{name: "ascending", query: "?sort_order=asc", expected: []int64{1, 2, 3}, total: 3},
		{name: "by status", query: "?status=upcoming", expected: []int64{3, 1}, total: 2},
		{name: "by category", query: "?category=SPORTS", expected: []int64{2}, total: 1},
		{name: "by creator", query: "?creator=" + aliceChecksummed + "&sort_order=asc", expected: []int64{1, 2}, total: 2},
		{name: "paged", query: "?limit=1&offset=1&sort_by=time", expected: []int64{2}, total: 3, hasMore: true},
		{name: "no match", query: "?status=COMPLETED", expected: []int64{}, total: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var resp EventListResponse
			w := get(t, h, "/api/v1/events"+tt.query, &resp)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			ids := make([]int64, 0, len(resp.Events))
			for _, e := range resp.Events {
				ids = append(ids, e.ID)
			}
			require.Equal(t, tt.expected, ids)
			require.Equal(t, tt.total, resp.Pagination.Total)
			require.Equal(t, tt.hasMore, resp.Pagination.HasMore)
		})
	}
}

func TestHandler_InvalidQueryParams(t *testing.T) {
	t.Parallel()

	// rejected before the projection is queried
	h := newTestHandler(t, mocks.NewProjection(t))

	tests := []struct {
		name  string
		path  string
		error string
	}{
		{name: "limit zero", path: "/api/v1/events?limit=0", error: "limit must be between 1 and 500"},
		{name: "limit above max", path: "/api/v1/events?limit=501", error: "limit must be between 1 and 500"},
		{name: "limit not a number", path: "/api/v1/offers?limit=ten", error: "limit"},
		{name: "negative offset", path: "/api/v1/offers?offset=-1", error: "offset must be non-negative"},
		{name: "sort order", path: "/api/v1/events?sort_order=up", error: "sort_order"},
		{name: "unknown status", path: "/api/v1/events?status=SOLD_OUT", error: "unknown status"},
		{name: "offer status on events", path: "/api/v1/events?status=ACTIVE", error: "unknown status 'ACTIVE'"},
		{name: "event status on offers", path: "/api/v1/offers?status=upcoming", error: "unknown status 'upcoming'"},
		{name: "event status on event offers", path: "/api/v1/events/1/offers?status=ONGOING", error: "unknown status"},
		{name: "status on accounts", path: "/api/v1/accounts?status=ACTIVE", error: "status is not supported"},
		{name: "unknown category", path: "/api/v1/events?category=THEATRE", error: "unknown category"},
		{name: "unknown type", path: "/api/v1/offers?type=SWAP", error: "unknown offer type"},
		{name: "bad event id", path: "/api/v1/offers?event_id=x", error: "invalid event_id"},
		{name: "bad seller", path: "/api/v1/offers?seller=0x12", error: "invalid seller address"},
		{name: "bad path id", path: "/api/v1/events/abc", error: "invalid id"},
		{name: "negative path id", path: "/api/v1/offers/-5", error: "invalid id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var resp ErrorResponse
			w := get(t, h, tt.path, &resp)
			require.Equal(t, http.StatusBadRequest, w.Code)
			require.Equal(t, "Bad Request", resp.Error)
			require.Contains(t, resp.Message, tt.error)
		})
	}
}

func TestHandler_GetEvent(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, NewStoreProjection(newSeededStore(t)))

	var event store.Event
	require.Equal(t, http.StatusOK, get(t, h, "/api/v1/events/2", &event).Code)
	require.Equal(t, int64(2), event.ID)
	require.Equal(t, store.EventCancelled, event.Status)
	require.Equal(t, alice, event.Creator)

	require.Equal(t, http.StatusNotFound, get(t, h, "/api/v1/events/99", nil).Code)
}

func TestHandler_GetOffers(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, NewStoreProjection(newSeededStore(t)))

	tests := []struct {
		name     string
		path     string
		expected []int64
	}{
		{name: "all", path: "/api/v1/offers?sort_order=asc", expected: []int64{10, 11, 12}},
		{name: "by seller", path: "/api/v1/offers?seller=" + bob, expected: []int64{11}},
		{name: "by seller without prefix", path: "/api/v1/offers?seller=" + strings.ToUpper(bob[2:]), expected: []int64{11}},
		{name: "by buyer", path: "/api/v1/offers?buyer=" + carol + "&sort_order=asc", expected: []int64{11, 12}},
		{name: "by type", path: "/api/v1/offers?type=offer_to_buy", expected: []int64{12}},
		{name: "by status", path: "/api/v1/offers?status=ACCEPTED", expected: []int64{11}},
		{name: "by amount", path: "/api/v1/offers?sort_by=amount", expected: []int64{11, 12, 10}},
		{name: "by event", path: "/api/v1/offers?event_id=1&sort_order=asc", expected: []int64{10, 11}},
		{name: "of event", path: "/api/v1/events/1/offers?status=ACTIVE", expected: []int64{10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var resp OfferListResponse
			w := get(t, h, tt.path, &resp)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			ids := make([]int64, 0, len(resp.Offers))
			for _, o := range resp.Offers {
				ids = append(ids, o.ID)
			}
			require.Equal(t, tt.expected, ids)
		})
	}

	t.Run("unsortable field", func(t *testing.T) {
		t.Parallel()

		var resp ErrorResponse
		w := get(t, h, "/api/v1/offers?sort_by=seller", &resp)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Contains(t, resp.Message, "cannot sort offer by seller")
	})
}

func TestHandler_GetOffer(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, NewStoreProjection(newSeededStore(t)))

	var offer store.Offer
	require.Equal(t, http.StatusOK, get(t, h, "/api/v1/offers/12", &offer).Code)
	require.Equal(t, store.OfferToBuy, offer.Type)
	require.Nil(t, offer.Seller)
	require.Equal(t, carol, *offer.Buyer)

	require.Equal(t, http.StatusNotFound, get(t, h, "/api/v1/offers/13", nil).Code)
}

func TestHandler_GetStats(t *testing.T) {
	t.Parallel()

	h := newTestHandler(t, NewStoreProjection(newSeededStore(t)))

	var stats indexer.StatsResponse
	require.Equal(t, http.StatusOK, get(t, h, "/api/v1/stats", &stats).Code)

	require.Equal(t, int64(3), stats.Accounts)
	require.Equal(t, int64(1), stats.Admins)
	require.Equal(t, int64(3), stats.Events)
	require.Equal(t, int64(2), stats.EventsByStatus["UPCOMING"])
	require.Equal(t, int64(1), stats.EventsByStatus["CANCELLED"])
	require.Equal(t, int64(3), stats.Offers)
	require.Equal(t, int64(2), stats.OffersByStatus["ACTIVE"])
	require.Equal(t, int64(0), stats.OffersByStatus["SETTLED"])
	require.Equal(t, uint64(1234), stats.CheckpointBlock)
	require.Equal(t, ethcommon.HexToHash("0xabc").Hex(), stats.CheckpointHash)
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()

	t.Run("healthy", func(t *testing.T) {
		t.Parallel()

		h := newTestHandler(t, NewStoreProjection(newSeededStore(t)))

		var resp HealthResponse
		require.Equal(t, http.StatusOK, get(t, h, "/health", &resp).Code)
		require.True(t, resp.Healthy)
		require.Equal(t, "ok", resp.Status)
		require.Equal(t, uint64(1234), resp.CheckpointBlock)
	})

	t.Run("store unavailable", func(t *testing.T) {
		t.Parallel()

		projection := mocks.NewProjection(t)
		projection.EXPECT().GetStats(mock.Anything).Return(nil, errDatabaseLocked).Once()

		var resp HealthResponse
		w := get(t, newTestHandler(t, projection), "/health", &resp)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		require.False(t, resp.Healthy)
		require.Equal(t, "degraded", resp.Status)
	})
}

func TestHandler_InternalErrors(t *testing.T) {
	t.Parallel()

	projection := mocks.NewProjection(t)
	projection.EXPECT().GetAccount(mock.Anything, mock.Anything).Return(nil, errDatabaseLocked).Once()
	projection.EXPECT().GetEvent(mock.Anything, mock.Anything).Return(nil, errDatabaseLocked).Once()
	projection.EXPECT().GetOffer(mock.Anything, mock.Anything).Return(nil, errDatabaseLocked).Once()
	projection.EXPECT().QueryAccounts(mock.Anything, mock.Anything).Return(nil, int64(0), errDatabaseLocked).Once()
	projection.EXPECT().QueryEvents(mock.Anything, mock.Anything).Return(nil, int64(0), errDatabaseLocked).Once()
	projection.EXPECT().QueryOffers(mock.Anything, mock.Anything).Return(nil, int64(0), errDatabaseLocked).Once()
	projection.EXPECT().GetStats(mock.Anything).Return(nil, errDatabaseLocked).Once()

	h := newTestHandler(t, projection)

	for _, path := range []string{
		"/api/v1/accounts/" + alice,
		"/api/v1/events/1",
		"/api/v1/offers/1",
		"/api/v1/accounts",
		"/api/v1/events",
		"/api/v1/offers",
		"/api/v1/stats",
	} {
		var resp ErrorResponse
		w := get(t, h, path, &resp)
		require.Equal(t, http.StatusInternalServerError, w.Code, path)
		require.NotContains(t, resp.Message, errDatabaseLocked.Error(), path)
	}
}

func TestHandler_QueryParamsForwarded(t *testing.T) {
	t.Parallel()

	projection := mocks.NewProjection(t)
	projection.EXPECT().QueryOffers(mock.Anything, mock.Anything).
		Run(func(_ context.Context, params indexer.QueryParams) {
			require.Equal(t, 50, params.Limit)
			require.Equal(t, indexer.SortDesc, params.SortOrder)
			require.Equal(t, "OFFER_TO_SELL", params.Type)
			require.Equal(t, "DISPUTED", params.Status)
			require.NotNil(t, params.EventID)
			require.Equal(t, int64(5), *params.EventID)
			require.Equal(t, aliceChecksummed, params.Seller)
		}).
		Return([]*store.Offer{}, int64(0), nil).
		Once()

	h := newTestHandler(t, projection)

	var resp OfferListResponse
	w := get(t, h, "/api/v1/events/5/offers?type=offer_to_sell&status=disputed&seller="+aliceChecksummed, &resp)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, resp.Offers)
	require.False(t, resp.Pagination.HasMore)
}
