package chain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	internalcommon "github.com/goran-ethernal/TicketIndexor/internal/common"
	"github.com/goran-ethernal/TicketIndexor/pkg/rpc"
)

// ContractHandle binds a parsed ABI to a deployed contract address.
type ContractHandle struct {
	Name    string
	Address common.Address
	ABI     abi.ABI

	client rpc.ChainClient
}

// BindContract parses abiJSON and binds it to address.
// Empty or malformed inputs are reported as ErrConfiguration.
func BindContract(client rpc.ChainClient, name, address string, abiJSON []byte) (*ContractHandle, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, fmt.Errorf("%w: %s: address is empty", internalcommon.ErrConfiguration, name)
	}
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %s: malformed address %q", internalcommon.ErrConfiguration, name, address)
	}

	if len(bytes.TrimSpace(abiJSON)) == 0 {
		return nil, fmt.Errorf("%w: %s: abi is empty", internalcommon.ErrConfiguration, name)
	}

	parsed, err := abi.JSON(bytes.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: malformed abi: %w", internalcommon.ErrConfiguration, name, err)
	}

	if len(parsed.Events) == 0 {
		return nil, fmt.Errorf("%w: %s: abi declares no events", internalcommon.ErrConfiguration, name)
	}

	return &ContractHandle{
		Name:    name,
		Address: common.HexToAddress(address),
		ABI:     parsed,
		client:  client,
	}, nil
}

// EventID returns topic[0] of the named event.
func (h *ContractHandle) EventID(eventName string) (common.Hash, error) {
	ev, ok := h.ABI.Events[eventName]
	if !ok {
		return common.Hash{}, fmt.Errorf("%w: %s has no event %s", internalcommon.ErrConfiguration, h.Name, eventName)
	}
	return ev.ID, nil
}

// FilterQuery returns a query matching the named events of this contract.
// With no names, all events of the ABI are matched.
func (h *ContractHandle) FilterQuery(eventNames ...string) (ethereum.FilterQuery, error) {
	if len(eventNames) == 0 {
		for name := range h.ABI.Events {
			eventNames = append(eventNames, name)
		}
	}

	ids := make([]common.Hash, 0, len(eventNames))
	for _, name := range eventNames {
		id, err := h.EventID(name)
		if err != nil {
			return ethereum.FilterQuery{}, err
		}
		ids = append(ids, id)
	}

	return ethereum.FilterQuery{
		Addresses: []common.Address{h.Address},
		Topics:    [][]common.Hash{ids},
	}, nil
}

// EventByLog resolves the ABI event a log was emitted for.
func (h *ContractHandle) EventByLog(log types.Log) (*abi.Event, error) {
	if log.Address != h.Address {
		return nil, fmt.Errorf("%w: log from %s does not belong to %s", internalcommon.ErrDecode, log.Address.Hex(), h.Name)
	}
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("%w: %s log has no topics", internalcommon.ErrDecode, h.Name)
	}

	ev, err := h.ABI.EventByID(log.Topics[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", internalcommon.ErrDecode, h.Name, err)
	}

	return ev, nil
}

// UnpackLog decodes log into out, which must be a pointer to a struct whose fields
// follow the abi naming of eventName's inputs.
// Non-indexed inputs come from the log data, indexed inputs from topics[1:].
func (h *ContractHandle) UnpackLog(out any, eventName string, log types.Log) error {
	ev, err := h.EventByLog(log)
	if err != nil {
		return err
	}
	if ev.Name != eventName {
		return fmt.Errorf("%w: %s log is %s, not %s", internalcommon.ErrDecode, h.Name, ev.Name, eventName)
	}

	if len(log.Data) > 0 {
		if err := h.ABI.UnpackIntoInterface(out, eventName, log.Data); err != nil {
			return fmt.Errorf("%w: %s.%s data: %w", internalcommon.ErrDecode, h.Name, eventName, err)
		}
	}

	var indexed abi.Arguments
	for _, arg := range ev.Inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}

	if err := abi.ParseTopics(out, indexed, log.Topics[1:]); err != nil {
		return fmt.Errorf("%w: %s.%s topics: %w", internalcommon.ErrDecode, h.Name, eventName, err)
	}

	return nil
}

// Call executes a read-only contract method at the latest block and returns its outputs.
func (h *ContractHandle) Call(ctx context.Context, method string, args ...any) ([]any, error) {
	if h.client == nil {
		return nil, errors.New("contract is not bound to a client")
	}

	input, err := h.ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s.%s: %w", h.Name, method, err)
	}

	to := h.Address
	output, err := h.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: input}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s.%s: %w", h.Name, method, err)
	}

	values, err := h.ABI.Unpack(method, output)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack %s.%s: %w", h.Name, method, err)
	}

	return values, nil
}

// LogMeta identifies the chain position of a delivered log.
type LogMeta struct {
	Contract    string
	BlockNumber uint64
	BlockHash   common.Hash
	TxHash      common.Hash
	LogIndex    uint
	Removed     bool
}

// NewLogMeta extracts the position of log.
func NewLogMeta(contract string, log types.Log) LogMeta {
	return LogMeta{
		Contract:    contract,
		BlockNumber: log.BlockNumber,
		BlockHash:   log.BlockHash,
		TxHash:      log.TxHash,
		LogIndex:    log.Index,
		Removed:     log.Removed,
	}
}

// ID uniquely identifies the log within the canonical chain.
func (m LogMeta) ID() string {
	return fmt.Sprintf("%s:%d", m.BlockHash.Hex(), m.LogIndex)
}

// Less orders logs by block and position in block.
func (m LogMeta) Less(o LogMeta) bool {
	if m.BlockNumber != o.BlockNumber {
		return m.BlockNumber < o.BlockNumber
	}
	return m.LogIndex < o.LogIndex
}
