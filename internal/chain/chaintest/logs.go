// Package chaintest builds contract logs for tests.
package chaintest

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/TicketIndexor/internal/chain"
)

// Log encodes eventName of h with args given in ABI input order.
// Indexed uint256 inputs take *big.Int or int64, indexed address inputs take common.Address.
func Log(h *chain.ContractHandle, eventName string, args ...any) (types.Log, error) {
	ev, ok := h.ABI.Events[eventName]
	if !ok {
		return types.Log{}, fmt.Errorf("%s has no event %s", h.Name, eventName)
	}
	if len(args) != len(ev.Inputs) {
		return types.Log{}, fmt.Errorf("%s.%s takes %d arguments, got %d", h.Name, eventName, len(ev.Inputs), len(args))
	}

	topics := []common.Hash{ev.ID}
	var data []any

	for i, input := range ev.Inputs {
		arg := args[i]
		if v, ok := arg.(int64); ok {
			arg = big.NewInt(v)
		}

		if !input.Indexed {
			data = append(data, arg)
			continue
		}

		switch v := arg.(type) {
		case common.Address:
			topics = append(topics, common.BytesToHash(v.Bytes()))
		case *big.Int:
			topics = append(topics, common.BigToHash(v))
		case common.Hash:
			topics = append(topics, v)
		default:
			return types.Log{}, fmt.Errorf("unsupported indexed argument %s of type %T", input.Name, arg)
		}
	}

	packed, err := ev.Inputs.NonIndexed().Pack(data...)
	if err != nil {
		return types.Log{}, fmt.Errorf("failed to pack %s.%s: %w", h.Name, eventName, err)
	}

	return types.Log{
		Address: h.Address,
		Topics:  topics,
		Data:    packed,
	}, nil
}

// MustLog is Log that panics on error.
func MustLog(h *chain.ContractHandle, eventName string, args ...any) types.Log {
	l, err := Log(h, eventName, args...)
	if err != nil {
		panic(err)
	}
	return l
}

// At positions l in the chain.
func At(l types.Log, block uint64, index uint) types.Log {
	l.BlockNumber = block
	l.Index = index
	l.BlockHash = common.BigToHash(new(big.Int).SetUint64(block))
	l.TxHash = common.BigToHash(new(big.Int).SetUint64(block<<16 | uint64(index)))
	return l
}
