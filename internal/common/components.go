package common

const (
	ComponentIndexer         = "indexer"
	ComponentChainClient     = "chain-client"
	ComponentEventRouter     = "event-router"
	ComponentEventHandlers   = "event-handlers"
	ComponentContentStore    = "content-store"
	ComponentProjectionStore = "projection-store"
	ComponentCheckpoint      = "checkpoint"
	ComponentBackfill        = "backfill"
	ComponentMaintenance     = "maintenance"
	ComponentAPI             = "api"
)

var AllComponents = map[string]struct{}{
	ComponentIndexer:         {},
	ComponentChainClient:     {},
	ComponentEventRouter:     {},
	ComponentEventHandlers:   {},
	ComponentContentStore:    {},
	ComponentProjectionStore: {},
	ComponentCheckpoint:      {},
	ComponentBackfill:        {},
	ComponentMaintenance:     {},
	ComponentAPI:             {},
}
