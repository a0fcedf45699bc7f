package indexer

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"testing"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/TicketIndexor/internal/chain/chaintest"
	"github.com/goran-ethernal/TicketIndexor/internal/common"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/goran-ethernal/TicketIndexor/internal/store"
	"github.com/goran-ethernal/TicketIndexor/pkg/config"
	"github.com/stretchr/testify/require"
)

// recorder is a Handlers stub that records the order of applied events.
type recorder struct {
	mu      sync.Mutex
	applied []string
	hook    func(ctx context.Context, e Event) error
}

func (r *recorder) handle(ctx context.Context, e Event) (Outcome, error) {
	if r.hook != nil {
		if err := r.hook(ctx, e); err != nil {
			return OutcomeNoop, err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied = append(r.applied, e.Name()+"@"+e.ShardKey())

	return OutcomeApplied, nil
}

func (r *recorder) events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.applied...)
}

func (r *recorder) AdminAdded(ctx context.Context, e *AdminAdded) (Outcome, error) {
	return r.handle(ctx, e)
}

func (r *recorder) AdminRemoved(ctx context.Context, e *AdminRemoved) (Outcome, error) {
	return r.handle(ctx, e)
}

func (r *recorder) EventCreated(ctx context.Context, e *EventCreated) (Outcome, error) {
	return r.handle(ctx, e)
}

func (r *recorder) EventCancelled(ctx context.Context, e *EventCancelled) (Outcome, error) {
	return r.handle(ctx, e)
}

func (r *recorder) OfferToSellCreated(ctx context.Context, e *OfferToSellCreated) (Outcome, error) {
	return r.handle(ctx, e)
}

func (r *recorder) OfferToBuyCreated(ctx context.Context, e *OfferToBuyCreated) (Outcome, error) {
	return r.handle(ctx, e)
}

func (r *recorder) OfferAccepted(ctx context.Context, e *OfferAccepted) (Outcome, error) {
	return r.handle(ctx, e)
}

func (r *recorder) OfferCancelled(ctx context.Context, e *OfferCancelled) (Outcome, error) {
	return r.handle(ctx, e)
}

func (r *recorder) OfferDisputed(ctx context.Context, e *OfferDisputed) (Outcome, error) {
	return r.handle(ctx, e)
}

func (r *recorder) OfferSettled(ctx context.Context, e *OfferSettled) (Outcome, error) {
	return r.handle(ctx, e)
}

func newTestRouter(t *testing.T, c testContracts, h Handlers, w *Watermark, workers int) *Router {
	t.Helper()

	r, err := NewRouter(NewDecoder(c.all()...), h, w, config.ProcessingConfig{
		Workers:        workers,
		QueueSize:      64,
		DedupCacheSize: 128,
		HandlerTimeout: common.NewDuration(time.Second),
	}, logger.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(r.Close)

	return r
}

func TestRouter_OrdersEventsPerEntity(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := bindTestContracts(t, nil)

	// the first event of every offer is slow, later ones must still wait for it
	rec := &recorder{hook: func(_ context.Context, e Event) error {
		if e.Name() == "OfferToSellCreated" {
			time.Sleep(20 * time.Millisecond)
		}
		return nil
	}}
	r := newTestRouter(t, c, rec, nil, 4)

	for id := int64(1); id <= 5; id++ {
		r.Dispatch(ctx, SourceLive, chaintest.At(c.offerToSell(id, 7, alice, 1, 1, "ipfs://cidOffer"), 100, uint(id)))
		r.Dispatch(ctx, SourceLive, chaintest.At(c.offerAccepted(id, bob), 101, uint(id)))
		r.Dispatch(ctx, SourceLive, chaintest.At(c.offerCancelled(id), 102, uint(id)))
	}
	r.Wait()

	applied := rec.events()
	require.Len(t, applied, 15)

	for id := range 5 {
		key := offerKey(int64(id + 1))
		var order []string
		for _, a := range applied {
			if name, shard, _ := strings.Cut(a, "@"); shard == key {
				order = append(order, name)
			}
		}
		require.Equal(t, []string{"OfferToSellCreated", "OfferAccepted", "OfferCancelled"}, order, key)
	}
}

func TestRouter_SkipsDuplicatesAndRemovedLogs(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := bindTestContracts(t, nil)
	rec := &recorder{}
	r := newTestRouter(t, c, rec, nil, 2)

	l := chaintest.At(c.adminAdded(alice), 100, 0)
	r.Dispatch(ctx, SourceLive, l)
	r.Dispatch(ctx, SourceBackfill, l)

	removed := chaintest.At(c.adminAdded(bob), 100, 1)
	removed.Removed = true
	r.Dispatch(ctx, SourceLive, removed)

	r.Wait()
	require.Equal(t, []string{"AdminAdded@" + accountKey(alice)}, rec.events())
}

func TestRouter_FailedEventCanBeRedelivered(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := bindTestContracts(t, nil)

	var calls int
	rec := &recorder{hook: func(context.Context, Event) error {
		calls++
		if calls == 1 {
			return common.ErrMetadataFetch
		}
		return nil
	}}
	r := newTestRouter(t, c, rec, nil, 1)

	l := chaintest.At(c.eventCreated(7, alice, 1, "ipfs://cidEvent"), 100, 0)
	r.Dispatch(ctx, SourceLive, l)
	r.Wait()
	require.Empty(t, rec.events())

	r.Dispatch(ctx, SourceBackfill, l)
	r.Wait()
	require.Equal(t, []string{"EventCreated@" + eventKey(7)}, rec.events())
}

func TestRouter_EarlyUpdateAppliedOnRedelivery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := bindTestContracts(t, nil)
	h, st, _ := newTestHandlers(t, defaultDocs())
	r := newTestRouter(t, c, h, nil, 2)

	created := chaintest.At(c.offerToSell(42, 7, alice, 100, 10, "ipfs://cidOffer"), 100, 0)
	accepted := chaintest.At(c.offerAccepted(42, bob), 100, 1)

	// accept overtakes the creation of its offer
	r.Dispatch(ctx, SourceLive, accepted)
	r.Dispatch(ctx, SourceLive, created)
	r.Wait()

	offer, err := st.Offers().FindOne(ctx, store.Filter{"id": int64(42)})
	require.NoError(t, err)
	require.Equal(t, store.OfferActive, offer.Status)
	require.Nil(t, offer.Buyer)

	r.Dispatch(ctx, SourceLive, accepted)
	r.Wait()

	offer, err = st.Offers().FindOne(ctx, store.Filter{"id": int64(42)})
	require.NoError(t, err)
	require.Equal(t, store.OfferAccepted, offer.Status)
	require.NotNil(t, offer.Buyer)
	require.Equal(t, bob, *offer.Buyer)

	// once applied the log is a duplicate again
	r.Dispatch(ctx, SourceLive, accepted)
	r.Wait()

	offer, err = st.Offers().FindOne(ctx, store.Filter{"id": int64(42)})
	require.NoError(t, err)
	require.Equal(t, store.OfferAccepted, offer.Status)
}

func TestRouter_RecoversHandlerPanic(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := bindTestContracts(t, nil)

	rec := &recorder{hook: func(_ context.Context, e Event) error {
		if e.ShardKey() == offerKey(1) {
			panic("nil pointer")
		}
		return nil
	}}
	r := newTestRouter(t, c, rec, nil, 1)

	r.Dispatch(ctx, SourceLive, chaintest.At(c.offerCancelled(1), 100, 0))
	r.Dispatch(ctx, SourceLive, chaintest.At(c.offerCancelled(2), 100, 1))
	r.Wait()

	require.Equal(t, []string{"OfferCancelled@" + offerKey(2)}, rec.events())

	select {
	case err := <-r.Fatal():
		t.Fatalf("unexpected fatal error: %v", err)
	default:
	}
}

func TestRouter_DecodeFailureIsFatal(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := bindTestContracts(t, nil)
	rec := &recorder{}
	r := newTestRouter(t, c, rec, nil, 1)

	bad := chaintest.At(c.eventCancelled(1), 100, 0)
	bad.Topics[0] = ethcommon.HexToHash("0x02")
	r.Dispatch(ctx, SourceLive, bad)
	r.Dispatch(ctx, SourceLive, bad)

	select {
	case err := <-r.Fatal():
		require.ErrorIs(t, err, common.ErrDecode)
	case <-time.After(time.Second):
		t.Fatal("decode failure not reported")
	}

	// out of range values only drop the event
	r.Dispatch(ctx, SourceLive, outOfRangeLog(t, c))
	r.Dispatch(ctx, SourceLive, chaintest.At(c.eventCancelled(2), 100, 2))
	r.Wait()

	require.Equal(t, []string{"EventCancelled@" + eventKey(2)}, rec.events())
	select {
	case err := <-r.Fatal():
		t.Fatalf("unexpected fatal error: %v", err)
	default:
	}
}

func outOfRangeLog(t *testing.T, c testContracts) types.Log {
	t.Helper()

	l := chaintest.At(c.eventCancelled(1), 100, 1)
	l.Topics[1] = ethcommon.BigToHash(new(big.Int).Lsh(big.NewInt(1), 255))

	return l
}

func TestRouter_HandlersOutliveCancellation(t *testing.T) {
	t.Parallel()

	c := bindTestContracts(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	rec := &recorder{hook: func(hctx context.Context, _ Event) error {
		close(started)
		time.Sleep(20 * time.Millisecond)
		return hctx.Err()
	}}
	r := newTestRouter(t, c, rec, nil, 1)

	r.Dispatch(ctx, SourceLive, chaintest.At(c.adminAdded(alice), 100, 0))
	<-started
	cancel()
	r.Wait()

	require.Len(t, rec.events(), 1)
}

func TestRouter_TracksWatermark(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := bindTestContracts(t, nil)

	release := make(chan struct{})
	rec := &recorder{hook: func(_ context.Context, e Event) error {
		if e.Meta().BlockNumber == 101 {
			<-release
		}
		return nil
	}}

	w := NewWatermark(99, 0)
	r := newTestRouter(t, c, rec, w, 2)

	r.Dispatch(ctx, SourceLive, chaintest.At(c.adminAdded(alice), 100, 0))
	r.Dispatch(ctx, SourceLive, chaintest.At(c.adminAdded(bob), 101, 0))
	r.Dispatch(ctx, SourceLive, chaintest.At(c.adminAdded(carol), 102, 0))

	require.Eventually(t, func() bool {
		block, _ := w.Safe()
		return block == 100
	}, time.Second, 5*time.Millisecond)

	close(release)
	r.Wait()

	block, hash := w.Safe()
	require.Equal(t, uint64(101), block)
	require.Equal(t, chaintest.At(types.Log{}, 101, 0).BlockHash, hash)
}

func TestRouter_UnscheduledAfterClose(t *testing.T) {
	t.Parallel()

	c := bindTestContracts(t, nil)
	rec := &recorder{}
	w := NewWatermark(0, 0)
	r := newTestRouter(t, c, rec, w, 1)
	r.Close()

	l := chaintest.At(c.adminAdded(alice), 100, 0)
	r.Dispatch(context.Background(), SourceLive, l)
	r.Wait()
	require.Empty(t, rec.events())

	// nothing stays in flight
	block, _ := w.Safe()
	require.Equal(t, uint64(99), block)
}
