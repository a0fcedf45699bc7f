package indexer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/TicketIndexor/internal/chain"
	"github.com/goran-ethernal/TicketIndexor/internal/common"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/goran-ethernal/TicketIndexor/internal/metrics"
	"github.com/goran-ethernal/TicketIndexor/internal/store"
	internaltypes "github.com/goran-ethernal/TicketIndexor/internal/types"
	"github.com/goran-ethernal/TicketIndexor/pkg/config"
	"github.com/goran-ethernal/TicketIndexor/pkg/contentstore"
	pkgindexer "github.com/goran-ethernal/TicketIndexor/pkg/indexer"
	"github.com/goran-ethernal/TicketIndexor/pkg/rpc"
	"golang.org/x/sync/errgroup"
)

// CheckpointName is the sync_state row holding the indexer's progress.
const CheckpointName = "indexer"

const finalCheckpointTimeout = 10 * time.Second

var _ pkgindexer.Indexer = (*Service)(nil)

// Service owns the contract bindings, the router and the handler set,
// and runs the subscriptions, the catch-up scan and the checkpoint loop.
type Service struct {
	cfg       *config.Config
	client    rpc.ChainClient
	store     *store.Store
	finality  internaltypes.BlockFinality
	contracts []*chain.ContractHandle
	watermark *Watermark
	router    *Router
	backfill  *Backfill
	log       *logger.Logger

	running atomic.Bool
	saved   atomic.Uint64

	mu         sync.Mutex
	catchingUp bool
	pending    []types.Log
}

// New binds the three marketplace contracts and builds the processing pipeline.
// Missing or malformed network or contract settings are reported as ErrConfiguration.
func New(cfg *config.Config, client rpc.ChainClient, st *store.Store, content contentstore.Store,
	log *logger.Logger) (*Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: configuration is nil", common.ErrConfiguration)
	}
	if cfg.Chain.Network == "" {
		return nil, fmt.Errorf("%w: chain.network is required", common.ErrConfiguration)
	}
	if err := cfg.Chain.Contracts.Validate(); err != nil {
		return nil, err
	}
	if client == nil || st == nil || content == nil {
		return nil, fmt.Errorf("%w: chain client, projection store and content store are required",
			common.ErrConfiguration)
	}

	finality, err := internaltypes.ParseBlockFinality(cfg.Chain.Finality)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrConfiguration, err)
	}

	contracts, err := chain.BindMarketplace(client, cfg.Chain.Contracts)
	if err != nil {
		return nil, err
	}

	processing := config.ProcessingConfig{}
	if cfg.Processing != nil {
		processing = *cfg.Processing
	}
	processing.ApplyDefaults()

	watermark := NewWatermark(0, processing.CheckpointMargin)
	handlers := NewProjectionHandlers(st, content, cfg.ContentStore.GatewayURL,
		log.WithComponent(common.ComponentEventHandlers))

	router, err := NewRouter(NewDecoder(contracts...), handlers, watermark, processing,
		log.WithComponent(common.ComponentEventRouter))
	if err != nil {
		return nil, err
	}

	backfill, err := NewBackfill(client, contracts, cfg.Chain.ChunkSize, router.Dispatch, watermark,
		log.WithComponent(common.ComponentBackfill))
	if err != nil {
		router.Close()
		return nil, err
	}

	log.Infof("indexer configured: network=%s, admin_registry=%s, event_registry=%s, offer_registry=%s",
		cfg.Chain.Network, contracts[0].Address.Hex(), contracts[1].Address.Hex(), contracts[2].Address.Hex())

	return &Service{
		cfg:       cfg,
		client:    client,
		store:     st,
		finality:  finality,
		contracts: contracts,
		watermark: watermark,
		router:    router,
		backfill:  backfill,
		log:       log,
	}, nil
}

// Run subscribes to every indexed event, replays the blocks missed since the last
// checkpoint and keeps the projection in sync until ctx is done.
// It returns nil on cancellation and an error when a subscription fails or a log
// cannot be decoded.
func (s *Service) Run(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return errors.New("indexer is already running")
	}
	defer s.running.Store(false)

	from, err := s.resume(ctx)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	s.mu.Lock()
	s.catchingUp = !s.cfg.Chain.DisableBackfill
	s.mu.Unlock()

	subs, err := s.subscribe(gctx)
	if err != nil {
		return err
	}

	metrics.ActiveSubscriptionsSet(len(subs))
	metrics.ComponentHealthSet(common.ComponentIndexer, true)
	s.log.Infof("indexer started: subscriptions=%d, resume_block=%d", len(subs), from)

	for _, sub := range subs {
		g.Go(func() error {
			select {
			case err := <-sub.Err():
				return err
			case <-gctx.Done():
				return nil
			}
		})
	}

	g.Go(func() error {
		select {
		case err := <-s.router.Fatal():
			return err
		case <-gctx.Done():
			return nil
		}
	})

	if !s.cfg.Chain.DisableBackfill {
		g.Go(func() error {
			return s.catchUp(gctx, from)
		})
	}

	g.Go(func() error {
		return s.checkpointLoop(gctx)
	})

	err = g.Wait()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
	metrics.ActiveSubscriptionsSet(0)
	metrics.ComponentHealthSet(common.ComponentIndexer, false)

	s.router.Wait()

	saveCtx, cancel := context.WithTimeout(context.Background(), finalCheckpointTimeout)
	defer cancel()
	if cpErr := s.saveCheckpoint(saveCtx); cpErr != nil {
		s.log.Warnf("failed to save final checkpoint: %v", cpErr)
	}

	if err != nil && ctx.Err() == nil {
		s.log.Errorf("indexer stopped: %v", err)
		return err
	}

	s.log.Info("indexer stopped")

	return nil
}

// Close stops the worker lanes after draining them.
func (s *Service) Close() error {
	s.router.Close()
	return nil
}

// Dispatch feeds a single log through the pipeline, as if it was delivered by a subscription.
func (s *Service) Dispatch(ctx context.Context, log types.Log) {
	s.onLog(ctx, log)
}

// Router exposes the pipeline, mainly for waiting on in-flight events.
func (s *Service) Router() *Router {
	return s.router
}

// resume returns the first block to replay and primes the watermark.
func (s *Service) resume(ctx context.Context) (uint64, error) {
	cp, ok, err := s.store.Checkpoints().Get(ctx, CheckpointName)
	if err != nil {
		return 0, err
	}

	if ok {
		s.watermark.Advance(cp.BlockNumber)
		s.saved.Store(cp.BlockNumber)
		s.log.Infof("resuming from checkpoint: block=%d, block_hash=%s", cp.BlockNumber, cp.BlockHash.Hex())
		return cp.BlockNumber + 1, nil
	}

	start := s.cfg.Chain.StartBlock
	if start > 0 {
		s.watermark.Advance(start - 1)
	}
	s.log.Infof("no checkpoint found, starting at block %d", start)

	return start, nil
}

// subscribe opens one subscription per contract covering all of its indexed events,
// so the logs of a contract reach the router in emission order.
func (s *Service) subscribe(ctx context.Context) ([]*chain.Subscription, error) {
	subs := make([]*chain.Subscription, 0, len(s.contracts))

	for _, c := range s.contracts {
		events := pkgindexer.ContractEvents[c.Name]
		sub, err := c.SubscribeEvents(ctx, events, s.onLog)
		if err != nil {
			for _, opened := range subs {
				opened.Unsubscribe()
			}
			return nil, err
		}
		s.log.Debugf("subscribed to %s %v at %s", c.Name, events, c.Address.Hex())
		subs = append(subs, sub)
	}

	return subs, nil
}

// onLog receives live logs. While catching up they are held back so the projection
// sees the replayed history first.
func (s *Service) onLog(ctx context.Context, log types.Log) {
	s.mu.Lock()
	if s.catchingUp {
		s.pending = append(s.pending, log)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.router.Dispatch(ctx, SourceLive, log)
}

// catchUp replays [from, head] and then releases the live logs held back meanwhile.
// Logs present in both are filtered by the router's dedup cache or are idempotent.
func (s *Service) catchUp(ctx context.Context, from uint64) error {
	header, err := s.client.GetLatestBlockHeader(ctx)
	if err != nil {
		return fmt.Errorf("failed to get chain head: %w", err)
	}

	if err := s.backfill.Run(ctx, from, header.Number.Uint64()); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	s.mu.Lock()
	for len(s.pending) > 0 {
		batch := s.pending
		s.pending = nil
		s.mu.Unlock()

		SortLogs(batch)
		for _, l := range batch {
			s.router.Dispatch(ctx, SourceLive, l)
		}

		s.mu.Lock()
	}
	s.catchingUp = false
	s.mu.Unlock()

	s.log.Info("caught up with chain head, processing live logs")

	return nil
}

func (s *Service) checkpointLoop(ctx context.Context) error {
	interval := time.Duration(0)
	if s.cfg.Processing != nil {
		interval = s.cfg.Processing.CheckpointInterval.Duration
	}
	if interval <= 0 {
		interval = 10 * time.Second //nolint:mnd
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := s.saveCheckpoint(ctx); err != nil {
				s.log.Warnf("failed to save checkpoint: %v", err)
			}
		}
	}
}

// saveCheckpoint persists the watermark, capped at the configured finality head so
// blocks that may still be reorganized are replayed after a restart.
func (s *Service) saveCheckpoint(ctx context.Context) error {
	block, hash := s.watermark.Safe()
	if block <= s.saved.Load() {
		return nil
	}

	head, err := s.finality.Head(ctx, s.client, s.cfg.Chain.FinalizedLag)
	if err != nil {
		return err
	}
	if block > head {
		block, hash = head, ethcommon.Hash{}
		if block <= s.saved.Load() {
			return nil
		}
	}

	if err := s.store.Checkpoints().Save(ctx, CheckpointName, block, hash); err != nil {
		return err
	}

	s.saved.Store(block)
	metrics.LastProcessedBlockSet(block)

	return nil
}
