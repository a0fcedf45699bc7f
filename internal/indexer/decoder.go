package indexer

import (
	"errors"
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/TicketIndexor/internal/chain"
	"github.com/goran-ethernal/TicketIndexor/internal/common"
	pkgindexer "github.com/goran-ethernal/TicketIndexor/pkg/indexer"
)

// ErrOutOfRange is returned when an on-chain integer does not fit the projection's int64 columns.
// Unlike ErrDecode it only affects the event that carries the value.
var ErrOutOfRange = errors.New("value out of range")

// Raw ABI layouts. Field names follow abi.ToCamelCase of the event inputs.
type (
	rawAdmin struct {
		Admin ethcommon.Address
	}

	rawEventCreated struct {
		Id          *big.Int //nolint:revive
		Creator     ethcommon.Address
		Time        *big.Int
		MetadataUri string //nolint:revive
	}

	rawID struct {
		Id *big.Int //nolint:revive
	}

	rawOfferToSellCreated struct {
		Id          *big.Int //nolint:revive
		EventId     *big.Int //nolint:revive
		Seller      ethcommon.Address
		Ask         *big.Int
		Collateral  *big.Int
		MetadataUri string //nolint:revive
	}

	rawOfferToBuyCreated struct {
		Id          *big.Int //nolint:revive
		EventId     *big.Int //nolint:revive
		Buyer       ethcommon.Address
		Bid         *big.Int
		Collateral  *big.Int
		MetadataUri string //nolint:revive
	}

	rawOfferAccepted struct {
		Id    *big.Int //nolint:revive
		Buyer ethcommon.Address
	}

	rawOfferDisputed struct {
		Id *big.Int //nolint:revive
		By ethcommon.Address
	}

	rawOfferSettled struct {
		Id     *big.Int //nolint:revive
		Seller ethcommon.Address
		Buyer  ethcommon.Address
	}
)

// Decoder turns raw logs of the bound contracts into typed events.
type Decoder struct {
	contracts map[ethcommon.Address]*chain.ContractHandle
}

// NewDecoder creates a decoder over the given contract bindings.
func NewDecoder(contracts ...*chain.ContractHandle) *Decoder {
	d := &Decoder{contracts: make(map[ethcommon.Address]*chain.ContractHandle, len(contracts))}
	for _, c := range contracts {
		d.contracts[c.Address] = c
	}
	return d
}

// Decode maps log to its typed event. Addresses are lower-cased and integers narrowed to int64.
// A log that does not match any known signature yields ErrDecode.
func (d *Decoder) Decode(log types.Log) (Event, error) {
	h, ok := d.contracts[log.Address]
	if !ok {
		return nil, fmt.Errorf("%w: log from unknown contract %s", common.ErrDecode, log.Address.Hex())
	}

	abiEvent, err := h.EventByLog(log)
	if err != nil {
		return nil, err
	}

	base := Base{Log: chain.NewLogMeta(h.Name, log)}
	name := abiEvent.Name
	n := &narrower{event: name}

	switch name {
	case pkgindexer.EventAdminAdded, pkgindexer.EventAdminRemoved:
		var raw rawAdmin
		if err := h.UnpackLog(&raw, name, log); err != nil {
			return nil, err
		}
		admin := common.AddressKey(raw.Admin)
		if name == pkgindexer.EventAdminAdded {
			return &AdminAdded{Base: base, Admin: admin}, nil
		}
		return &AdminRemoved{Base: base, Admin: admin}, nil

	case pkgindexer.EventEventCreated:
		var raw rawEventCreated
		if err := h.UnpackLog(&raw, name, log); err != nil {
			return nil, err
		}
		e := &EventCreated{
			Base:        base,
			ID:          n.int64("id", raw.Id),
			Creator:     common.AddressKey(raw.Creator),
			Time:        n.int64("time", raw.Time),
			MetadataURI: raw.MetadataUri,
		}
		return e, n.err

	case pkgindexer.EventEventCancelled:
		var raw rawID
		if err := h.UnpackLog(&raw, name, log); err != nil {
			return nil, err
		}
		e := &EventCancelled{Base: base, ID: n.int64("id", raw.Id)}
		return e, n.err

	case pkgindexer.EventOfferToSellCreated:
		var raw rawOfferToSellCreated
		if err := h.UnpackLog(&raw, name, log); err != nil {
			return nil, err
		}
		e := &OfferToSellCreated{
			Base:        base,
			ID:          n.int64("id", raw.Id),
			EventID:     n.int64("eventId", raw.EventId),
			Seller:      common.AddressKey(raw.Seller),
			Ask:         n.int64("ask", raw.Ask),
			Collateral:  n.int64("collateral", raw.Collateral),
			MetadataURI: raw.MetadataUri,
		}
		return e, n.err

	case pkgindexer.EventOfferToBuyCreated:
		var raw rawOfferToBuyCreated
		if err := h.UnpackLog(&raw, name, log); err != nil {
			return nil, err
		}
		e := &OfferToBuyCreated{
			Base:        base,
			ID:          n.int64("id", raw.Id),
			EventID:     n.int64("eventId", raw.EventId),
			Buyer:       common.AddressKey(raw.Buyer),
			Bid:         n.int64("bid", raw.Bid),
			Collateral:  n.int64("collateral", raw.Collateral),
			MetadataURI: raw.MetadataUri,
		}
		return e, n.err

	case pkgindexer.EventOfferAccepted:
		var raw rawOfferAccepted
		if err := h.UnpackLog(&raw, name, log); err != nil {
			return nil, err
		}
		e := &OfferAccepted{Base: base, ID: n.int64("id", raw.Id), Buyer: common.AddressKey(raw.Buyer)}
		return e, n.err

	case pkgindexer.EventOfferCancelled:
		var raw rawID
		if err := h.UnpackLog(&raw, name, log); err != nil {
			return nil, err
		}
		e := &OfferCancelled{Base: base, ID: n.int64("id", raw.Id)}
		return e, n.err

	case pkgindexer.EventOfferDisputed:
		var raw rawOfferDisputed
		if err := h.UnpackLog(&raw, name, log); err != nil {
			return nil, err
		}
		e := &OfferDisputed{Base: base, ID: n.int64("id", raw.Id), By: common.AddressKey(raw.By)}
		return e, n.err

	case pkgindexer.EventOfferSettled:
		var raw rawOfferSettled
		if err := h.UnpackLog(&raw, name, log); err != nil {
			return nil, err
		}
		e := &OfferSettled{
			Base:   base,
			ID:     n.int64("id", raw.Id),
			Seller: common.AddressKey(raw.Seller),
			Buyer:  common.AddressKey(raw.Buyer),
		}
		return e, n.err
	}

	return nil, fmt.Errorf("%w: %s.%s is not an indexed event", common.ErrDecode, h.Name, name)
}

// narrower converts uint256 values to int64, keeping the first failure.
type narrower struct {
	event string
	err   error
}

func (n *narrower) int64(field string, v *big.Int) int64 {
	if n.err != nil {
		return 0
	}
	if v == nil {
		n.err = fmt.Errorf("%w: %s.%s is missing", common.ErrDecode, n.event, field)
		return 0
	}
	if !v.IsInt64() {
		n.err = fmt.Errorf("%w: %s.%s = %s", ErrOutOfRange, n.event, field, v.String())
		return 0
	}
	return v.Int64()
}
