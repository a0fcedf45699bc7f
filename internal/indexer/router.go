package indexer

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"runtime/debug"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/TicketIndexor/internal/common"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/goran-ethernal/TicketIndexor/internal/metrics"
	"github.com/goran-ethernal/TicketIndexor/pkg/config"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Log sources used in logs and metrics.
const (
	SourceLive     = "live"
	SourceBackfill = "backfill"
)

// Router decodes logs and hands them to the handlers.
//
// Each event is assigned to one of a fixed number of single-worker lanes by the
// record it touches, so events for the same account, event or offer are applied
// in delivery order while unrelated records proceed concurrently. Handler
// failures are logged and the event is dropped. An update that arrives before the
// record it targets is not remembered as seen, so a redelivery applies it. Decode
// failures indicate an ABI mismatch and are reported on Fatal.
type Router struct {
	decoder   *Decoder
	handlers  Handlers
	watermark *Watermark
	lanes     []pond.Pool
	dedup     *lru.Cache[string, struct{}]
	timeout   time.Duration
	log       *logger.Logger

	pending   sync.WaitGroup
	fatal     chan error
	fatalOnce sync.Once
	closeOnce sync.Once
}

// NewRouter creates a router with cfg.Workers lanes.
func NewRouter(decoder *Decoder, handlers Handlers, watermark *Watermark, cfg config.ProcessingConfig,
	log *logger.Logger) (*Router, error) {
	cfg.ApplyDefaults()

	r := &Router{
		decoder:   decoder,
		handlers:  handlers,
		watermark: watermark,
		lanes:     make([]pond.Pool, cfg.Workers),
		timeout:   cfg.HandlerTimeout.Duration,
		log:       log,
		fatal:     make(chan error, 1),
	}

	if cfg.DedupCacheSize > 0 {
		cache, err := lru.New[string, struct{}](cfg.DedupCacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create dedup cache: %w", err)
		}
		r.dedup = cache
	}

	for i := range r.lanes {
		r.lanes[i] = pond.NewPool(1, pond.WithQueueSize(cfg.QueueSize))
	}

	return r, nil
}

// Dispatch routes one log. It blocks while the target lane is full.
func (r *Router) Dispatch(ctx context.Context, source string, log types.Log) {
	if log.Removed {
		metrics.LogSkippedInc("removed")
		r.log.Debugw("skipping log removed by reorg",
			"block", log.BlockNumber, "tx", log.TxHash.Hex(), "log_index", log.Index)
		return
	}

	ev, err := r.decoder.Decode(log)
	if err != nil {
		if ev != nil && errors.Is(err, ErrOutOfRange) {
			metrics.EventHandledInc(ev.Name(), metrics.OutcomeFailed)
			r.log.Errorw("dropping event", append(ev.Fields(), "error", err)...)
			return
		}
		r.fail(fmt.Errorf("block %d tx %s log %d: %w", log.BlockNumber, log.TxHash.Hex(), log.Index, err))
		return
	}

	metrics.LogReceivedInc(ev.Name(), source)

	id := ev.Meta().ID()
	if r.dedup != nil {
		if seen, _ := r.dedup.ContainsOrAdd(id, struct{}{}); seen {
			metrics.LogSkippedInc("duplicate")
			r.log.Debugw("skipping duplicate log", ev.Fields()...)
			return
		}
	}

	block := ev.Meta().BlockNumber
	if r.watermark != nil {
		r.watermark.Begin(block, ev.Meta().BlockHash)
	}

	lane := r.lanes[r.laneOf(ev.ShardKey())]
	metrics.PendingJobsSet(lane.WaitingTasks())

	r.pending.Add(1)
	done := func() {
		if r.watermark != nil {
			r.watermark.Done(block)
		}
		r.pending.Done()
	}

	if err := lane.Go(func() {
		defer done()
		r.process(ctx, ev)
	}); err != nil {
		done()
		r.forget(ev)
		r.log.Warnw("event not scheduled", append(ev.Fields(), "error", err)...)
	}
}

// process applies ev within the handler timeout. Panics are contained to the event.
func (r *Router) process(ctx context.Context, ev Event) {
	start := time.Now()
	name := ev.Name()

	r.log.Infow("event received", ev.Fields()...)

	defer func() {
		metrics.HandlerDurationLog(name, time.Since(start))

		if rec := recover(); rec != nil {
			r.forget(ev)
			metrics.EventHandledInc(name, metrics.OutcomePanic)
			metrics.ErrorsInc(common.ComponentEventHandlers, "panic")
			r.log.Errorw("handler panicked",
				append(ev.Fields(), "panic", rec, "stack", string(debug.Stack()))...)
		}
	}()

	// in-flight events finish within the timeout even when the indexer is stopping
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()

	outcome, err := ev.dispatch(hctx, r.handlers)
	if err != nil {
		r.forget(ev)
		metrics.EventHandledInc(name, metrics.OutcomeFailed)
		metrics.ErrorsInc(common.ComponentEventHandlers, "error")
		r.log.Errorw("event dropped", append(ev.Fields(), "error", err, "duration", time.Since(start))...)
		return
	}

	if outcome == OutcomeMissing {
		r.forget(ev)
	}

	metrics.EventHandledInc(name, outcome.String())
	r.log.Infow("event handled", append(ev.Fields(), "outcome", outcome.String(), "duration", time.Since(start))...)
}

// forget lets a redelivery of a failed or premature log be processed again.
func (r *Router) forget(ev Event) {
	if r.dedup != nil {
		r.dedup.Remove(ev.Meta().ID())
	}
}

func (r *Router) laneOf(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(r.lanes))) //nolint:gosec
}

func (r *Router) fail(err error) {
	metrics.ErrorsInc(common.ComponentEventRouter, "fatal")
	r.log.Errorw("undecodable log", "error", err)
	r.fatalOnce.Do(func() { r.fatal <- err })
}

// Fatal delivers the first decode failure.
func (r *Router) Fatal() <-chan error {
	return r.fatal
}

// Wait blocks until every dispatched event has been processed.
func (r *Router) Wait() {
	r.pending.Wait()
}

// Close drains the lanes and stops their workers.
func (r *Router) Close() {
	r.closeOnce.Do(func() {
		for _, lane := range r.lanes {
			lane.StopAndWait()
		}
	})
}
