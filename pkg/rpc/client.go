package rpc

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

// LogSource delivers contract logs, either as a historical range or as a live stream.
type LogSource interface {
	GetLogs(ctx context.Context, query ethereum.FilterQuery) ([]types.Log, error)
	SubscribeLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- types.Log) (ethereum.Subscription, error)
}

// HeadReader reports the chain heads used for backfill bounds and checkpoint finality.
type HeadReader interface {
	GetLatestBlockHeader(ctx context.Context) (*types.Header, error)
	GetFinalizedBlockHeader(ctx context.Context) (*types.Header, error)
	GetSafeBlockHeader(ctx context.Context) (*types.Header, error)
}

// ChainClient is the node connection shared by the indexer, constructed once and passed
// down explicitly.
type ChainClient interface {
	LogSource
	HeadReader

	ChainID(ctx context.Context) (*big.Int, error)

	// CallContract executes a read-only call at blockNumber, nil meaning latest.
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)

	Close()
}
