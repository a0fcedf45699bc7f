package indexer

import (
	"context"
	"strconv"

	"github.com/goran-ethernal/TicketIndexor/internal/chain"
	"github.com/goran-ethernal/TicketIndexor/internal/metrics"
	pkgindexer "github.com/goran-ethernal/TicketIndexor/pkg/indexer"
)

// Outcome reports what a handler did to the projection.
type Outcome int

const (
	// OutcomeApplied means the projection was written.
	OutcomeApplied Outcome = iota
	// OutcomeNoop means the projection already reflected the event.
	OutcomeNoop
	// OutcomeAnomaly means the event contradicts the projection and was logged instead of applied.
	OutcomeAnomaly
	// OutcomeMissing means the record the event updates is not in the projection yet.
	// Nothing was written and a redelivery of the log is processed again.
	OutcomeMissing
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return metrics.OutcomeSuccess
	case OutcomeNoop:
		return metrics.OutcomeNoop
	case OutcomeAnomaly:
		return metrics.OutcomeAnomaly
	case OutcomeMissing:
		return metrics.OutcomeMissing
	}
	return "unknown"
}

// Handlers applies each decoded event type to the projection.
// Adding an event type to the Event union requires a method here, so a missing
// handler is a compile error.
type Handlers interface {
	AdminAdded(ctx context.Context, e *AdminAdded) (Outcome, error)
	AdminRemoved(ctx context.Context, e *AdminRemoved) (Outcome, error)
	EventCreated(ctx context.Context, e *EventCreated) (Outcome, error)
	EventCancelled(ctx context.Context, e *EventCancelled) (Outcome, error)
	OfferToSellCreated(ctx context.Context, e *OfferToSellCreated) (Outcome, error)
	OfferToBuyCreated(ctx context.Context, e *OfferToBuyCreated) (Outcome, error)
	OfferAccepted(ctx context.Context, e *OfferAccepted) (Outcome, error)
	OfferCancelled(ctx context.Context, e *OfferCancelled) (Outcome, error)
	OfferDisputed(ctx context.Context, e *OfferDisputed) (Outcome, error)
	OfferSettled(ctx context.Context, e *OfferSettled) (Outcome, error)
}

// Event is a decoded contract log. The set of implementations is closed.
type Event interface {
	// Name is the ABI event name.
	Name() string
	// Meta is the chain position of the log.
	Meta() chain.LogMeta
	// ShardKey names the projection record the event touches.
	// Events with the same key are applied in delivery order.
	ShardKey() string
	// Fields returns structured log context.
	Fields() []any

	dispatch(ctx context.Context, h Handlers) (Outcome, error)
}

// Base carries the log position shared by every event.
type Base struct {
	Log chain.LogMeta
}

func (b Base) Meta() chain.LogMeta { return b.Log }

func (b Base) fields(kv ...any) []any {
	return append([]any{
		"contract", b.Log.Contract,
		"block", b.Log.BlockNumber,
		"block_hash", b.Log.BlockHash.Hex(),
		"tx", b.Log.TxHash.Hex(),
		"log_index", b.Log.LogIndex,
	}, kv...)
}

func accountKey(addr string) string { return "account:" + addr }
func eventKey(id int64) string      { return "event:" + strconv.FormatInt(id, 10) }
func offerKey(id int64) string      { return "offer:" + strconv.FormatInt(id, 10) }

// AdminAdded grants the admin flag to an account.
type AdminAdded struct {
	Base
	Admin string
}

func (e *AdminAdded) Name() string     { return pkgindexer.EventAdminAdded }
func (e *AdminAdded) ShardKey() string { return accountKey(e.Admin) }
func (e *AdminAdded) Fields() []any    { return e.fields("admin", e.Admin) }
func (e *AdminAdded) dispatch(ctx context.Context, h Handlers) (Outcome, error) {
	return h.AdminAdded(ctx, e)
}

// AdminRemoved revokes the admin flag of an account.
type AdminRemoved struct {
	Base
	Admin string
}

func (e *AdminRemoved) Name() string     { return pkgindexer.EventAdminRemoved }
func (e *AdminRemoved) ShardKey() string { return accountKey(e.Admin) }
func (e *AdminRemoved) Fields() []any    { return e.fields("admin", e.Admin) }
func (e *AdminRemoved) dispatch(ctx context.Context, h Handlers) (Outcome, error) {
	return h.AdminRemoved(ctx, e)
}

// EventCreated registers a ticketed event. Its descriptive fields live in the metadata document.
type EventCreated struct {
	Base
	ID          int64
	Creator     string
	Time        int64
	MetadataURI string
}

func (e *EventCreated) Name() string     { return pkgindexer.EventEventCreated }
func (e *EventCreated) ShardKey() string { return eventKey(e.ID) }
func (e *EventCreated) Fields() []any {
	return e.fields("event_id", e.ID, "creator", e.Creator, "metadata_uri", e.MetadataURI)
}
func (e *EventCreated) dispatch(ctx context.Context, h Handlers) (Outcome, error) {
	return h.EventCreated(ctx, e)
}

// EventCancelled cancels a ticketed event.
type EventCancelled struct {
	Base
	ID int64
}

func (e *EventCancelled) Name() string     { return pkgindexer.EventEventCancelled }
func (e *EventCancelled) ShardKey() string { return eventKey(e.ID) }
func (e *EventCancelled) Fields() []any    { return e.fields("event_id", e.ID) }
func (e *EventCancelled) dispatch(ctx context.Context, h Handlers) (Outcome, error) {
	return h.EventCancelled(ctx, e)
}

// OfferToSellCreated lists tickets for sale.
type OfferToSellCreated struct {
	Base
	ID          int64
	EventID     int64
	Seller      string
	Ask         int64
	Collateral  int64
	MetadataURI string
}

func (e *OfferToSellCreated) Name() string     { return pkgindexer.EventOfferToSellCreated }
func (e *OfferToSellCreated) ShardKey() string { return offerKey(e.ID) }
func (e *OfferToSellCreated) Fields() []any {
	return e.fields("offer_id", e.ID, "event_id", e.EventID, "seller", e.Seller, "metadata_uri", e.MetadataURI)
}
func (e *OfferToSellCreated) dispatch(ctx context.Context, h Handlers) (Outcome, error) {
	return h.OfferToSellCreated(ctx, e)
}

// OfferToBuyCreated requests tickets to buy.
type OfferToBuyCreated struct {
	Base
	ID          int64
	EventID     int64
	Buyer       string
	Bid         int64
	Collateral  int64
	MetadataURI string
}

func (e *OfferToBuyCreated) Name() string     { return pkgindexer.EventOfferToBuyCreated }
func (e *OfferToBuyCreated) ShardKey() string { return offerKey(e.ID) }
func (e *OfferToBuyCreated) Fields() []any {
	return e.fields("offer_id", e.ID, "event_id", e.EventID, "buyer", e.Buyer, "metadata_uri", e.MetadataURI)
}
func (e *OfferToBuyCreated) dispatch(ctx context.Context, h Handlers) (Outcome, error) {
	return h.OfferToBuyCreated(ctx, e)
}

// OfferAccepted matches an offer with a counterparty.
type OfferAccepted struct {
	Base
	ID    int64
	Buyer string
}

func (e *OfferAccepted) Name() string     { return pkgindexer.EventOfferAccepted }
func (e *OfferAccepted) ShardKey() string { return offerKey(e.ID) }
func (e *OfferAccepted) Fields() []any    { return e.fields("offer_id", e.ID, "buyer", e.Buyer) }
func (e *OfferAccepted) dispatch(ctx context.Context, h Handlers) (Outcome, error) {
	return h.OfferAccepted(ctx, e)
}

type OfferCancelled struct {
	Base
	ID int64
}

func (e *OfferCancelled) Name() string     { return pkgindexer.EventOfferCancelled }
func (e *OfferCancelled) ShardKey() string { return offerKey(e.ID) }
func (e *OfferCancelled) Fields() []any    { return e.fields("offer_id", e.ID) }
func (e *OfferCancelled) dispatch(ctx context.Context, h Handlers) (Outcome, error) {
	return h.OfferCancelled(ctx, e)
}

// OfferDisputed opens a dispute on an accepted offer. By is the disputing party.
type OfferDisputed struct {
	Base
	ID int64
	By string
}

func (e *OfferDisputed) Name() string     { return pkgindexer.EventOfferDisputed }
func (e *OfferDisputed) ShardKey() string { return offerKey(e.ID) }
func (e *OfferDisputed) Fields() []any    { return e.fields("offer_id", e.ID, "by", e.By) }
func (e *OfferDisputed) dispatch(ctx context.Context, h Handlers) (Outcome, error) {
	return h.OfferDisputed(ctx, e)
}

// OfferSettled releases escrow to the seller.
type OfferSettled struct {
	Base
	ID     int64
	Seller string
	Buyer  string
}

func (e *OfferSettled) Name() string     { return pkgindexer.EventOfferSettled }
func (e *OfferSettled) ShardKey() string { return offerKey(e.ID) }
func (e *OfferSettled) Fields() []any {
	return e.fields("offer_id", e.ID, "seller", e.Seller, "buyer", e.Buyer)
}
func (e *OfferSettled) dispatch(ctx context.Context, h Handlers) (Outcome, error) {
	return h.OfferSettled(ctx, e)
}
