package indexer

import "context"

// Indexer mirrors the marketplace contracts into the projection.
type Indexer interface {
	// Run subscribes to every indexed event, catches up from the last checkpoint and
	// processes logs until ctx is done or a fatal error occurs.
	Run(ctx context.Context) error

	// Close releases the worker lanes. It is safe to call more than once.
	Close() error
}

// Contract names.
const (
	AdminRegistry = "AdminRegistry"
	EventRegistry = "EventRegistry"
	OfferRegistry = "OfferRegistry"
)

// Indexed event names, as declared in the contract ABIs.
const (
	EventAdminAdded         = "AdminAdded"
	EventAdminRemoved       = "AdminRemoved"
	EventEventCreated       = "EventCreated"
	EventEventCancelled     = "EventCancelled"
	EventOfferToSellCreated = "OfferToSellCreated"
	EventOfferToBuyCreated  = "OfferToBuyCreated"
	EventOfferAccepted      = "OfferAccepted"
	EventOfferCancelled     = "OfferCancelled"
	EventOfferDisputed      = "OfferDisputed"
	EventOfferSettled       = "OfferSettled"
)

// ContractEvents lists, per contract, the events the indexer subscribes to.
var ContractEvents = map[string][]string{
	AdminRegistry: {EventAdminAdded, EventAdminRemoved},
	EventRegistry: {EventEventCreated, EventEventCancelled},
	OfferRegistry: {
		EventOfferToSellCreated,
		EventOfferToBuyCreated,
		EventOfferAccepted,
		EventOfferCancelled,
		EventOfferDisputed,
		EventOfferSettled,
	},
}

// Contracts returns the contract names in subscription order.
func Contracts() []string {
	return []string{AdminRegistry, EventRegistry, OfferRegistry}
}
