package types

import (
	"context"
	"fmt"

	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/TicketIndexor/pkg/rpc"
)

// BlockFinality represents the finality mode for block confirmation.
type BlockFinality string

const (
	// FinalityFinalized uses the finalized block tag (highest level of finality)
	FinalityFinalized BlockFinality = "finalized"

	// FinalitySafe uses the safe block tag (medium level of finality)
	FinalitySafe BlockFinality = "safe"

	// FinalityLatest uses the latest block tag (no finality guarantees)
	FinalityLatest BlockFinality = "latest"
)

// String returns the string representation of BlockFinality.
func (f BlockFinality) String() string {
	return string(f)
}

// IsValid checks if the BlockFinality value is valid.
func (f BlockFinality) IsValid() bool {
	switch f {
	case FinalityFinalized, FinalitySafe, FinalityLatest:
		return true
	default:
		return false
	}
}

// ParseBlockFinality parses a string into a BlockFinality type.
func ParseBlockFinality(s string) (BlockFinality, error) {
	f := BlockFinality(s)
	if !f.IsValid() {
		return "", fmt.Errorf("invalid block finality: %s (must be one of: finalized, safe, latest)", s)
	}
	return f, nil
}

// Head returns the number of the newest block that satisfies the finality mode.
// For FinalityLatest the result is moved back by lag blocks.
func (f BlockFinality) Head(ctx context.Context, client rpc.HeadReader, lag uint64) (uint64, error) {
	var (
		header *ethtypes.Header
		err    error
	)

	switch f {
	case FinalityFinalized:
		header, err = client.GetFinalizedBlockHeader(ctx)
	case FinalitySafe:
		header, err = client.GetSafeBlockHeader(ctx)
	case FinalityLatest:
		header, err = client.GetLatestBlockHeader(ctx)
	default:
		return 0, fmt.Errorf("invalid block finality: %s", f)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get %s block header: %w", f, err)
	}

	head := header.Number.Uint64()
	if f == FinalityLatest {
		if head < lag {
			return 0, nil
		}
		head -= lag
	}

	return head, nil
}
