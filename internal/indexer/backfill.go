package indexer

import (
	"cmp"
	"context"
	"fmt"
	"math/big"
	"slices"
	"time"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/TicketIndexor/internal/chain"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/goran-ethernal/TicketIndexor/internal/metrics"
	irpc "github.com/goran-ethernal/TicketIndexor/internal/rpc"
	"github.com/goran-ethernal/TicketIndexor/pkg/rpc"
)

// DispatchFunc hands a log to the router.
type DispatchFunc func(ctx context.Context, source string, log types.Log)

// Backfill replays the logs of a block range through the router, oldest first.
type Backfill struct {
	client    rpc.LogSource
	query     ethereum.FilterQuery
	chunkSize uint64
	dispatch  DispatchFunc
	watermark *Watermark
	log       *logger.Logger
}

// NewBackfill creates a backfill over every indexed event of contracts.
func NewBackfill(client rpc.LogSource, contracts []*chain.ContractHandle, chunkSize uint64,
	dispatch DispatchFunc, watermark *Watermark, log *logger.Logger) (*Backfill, error) {
	query, err := CombinedQuery(contracts)
	if err != nil {
		return nil, err
	}

	if chunkSize == 0 {
		chunkSize = 1
	}

	return &Backfill{
		client:    client,
		query:     query,
		chunkSize: chunkSize,
		dispatch:  dispatch,
		watermark: watermark,
		log:       log,
	}, nil
}

// CombinedQuery matches every event declared by the given contracts.
func CombinedQuery(contracts []*chain.ContractHandle) (ethereum.FilterQuery, error) {
	var (
		addresses []ethcommon.Address
		ids       []ethcommon.Hash
	)

	for _, c := range contracts {
		q, err := c.FilterQuery()
		if err != nil {
			return ethereum.FilterQuery{}, err
		}
		addresses = append(addresses, q.Addresses...)
		ids = append(ids, q.Topics[0]...)
	}

	return ethereum.FilterQuery{
		Addresses: addresses,
		Topics:    [][]ethcommon.Hash{ids},
	}, nil
}

// Run dispatches every log in [from, to] in chunks of the configured size.
func (b *Backfill) Run(ctx context.Context, from, to uint64) error {
	if from > to {
		b.log.Infof("nothing to backfill: from=%d, to=%d", from, to)
		return nil
	}

	b.log.Infof("backfill started: from=%d, to=%d, chunk_size=%d", from, to, b.chunkSize)
	start := time.Now()

	var dispatched int
	for next := from; next <= to; {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(next+b.chunkSize-1, to)
		logs, fetchedTo, err := b.fetch(ctx, next, end)
		if err != nil {
			return fmt.Errorf("backfill of blocks %d to %d failed: %w", next, end, err)
		}

		SortLogs(logs)
		for _, l := range logs {
			b.dispatch(ctx, SourceBackfill, l)
		}
		dispatched += len(logs)

		if b.watermark != nil {
			b.watermark.Advance(fetchedTo)
		}
		metrics.BackfillBlocksInc(fetchedTo - next + 1)

		b.log.Debugf("backfilled blocks %d to %d: %d logs", next, fetchedTo, len(logs))
		next = fetchedTo + 1
	}

	b.log.Infof("backfill finished: from=%d, to=%d, logs=%d, duration=%s", from, to, dispatched, time.Since(start))

	return nil
}

// fetch returns the logs of [from, to], narrowing the range when the node reports
// too many results. The returned block is the last one actually covered.
func (b *Backfill) fetch(ctx context.Context, from, to uint64) ([]types.Log, uint64, error) {
	query := b.query
	query.FromBlock = new(big.Int).SetUint64(from)
	query.ToBlock = new(big.Int).SetUint64(to)

	logs, err := b.client.GetLogs(ctx, query)
	if err == nil {
		return logs, to, nil
	}

	ok, errData := irpc.IsTooManyResultsError(err)
	if !ok {
		return nil, 0, err
	}

	if suggestedFrom, suggestedTo, ok := irpc.ParseSuggestedBlockRange(errData); ok &&
		suggestedFrom == from && suggestedTo >= from && suggestedTo < to {
		b.log.Infof("too many logs, retrying with suggested block range from %d to %d (original range %d to %d)",
			suggestedFrom, suggestedTo, from, to)
		return b.fetch(ctx, from, suggestedTo)
	}

	if from == to {
		return nil, 0, fmt.Errorf("cannot split range further, single block %d has too many logs", from)
	}

	mid := from + (to-from)/2 //nolint:mnd
	b.log.Infof("too many logs, retrying with smaller block range from %d to %d (original range %d to %d)",
		from, mid, from, to)

	return b.fetch(ctx, from, mid)
}

// SortLogs orders logs by block and position within the block.
func SortLogs(logs []types.Log) {
	slices.SortStableFunc(logs, func(a, b types.Log) int {
		return cmp.Or(cmp.Compare(a.BlockNumber, b.BlockNumber), cmp.Compare(a.Index, b.Index))
	})
}
