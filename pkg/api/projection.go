package api

import (
	"context"
	"errors"
	"fmt"
	"slices"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/goran-ethernal/TicketIndexor/internal/common"
	internalindexer "github.com/goran-ethernal/TicketIndexor/internal/indexer"
	"github.com/goran-ethernal/TicketIndexor/internal/store"
	"github.com/goran-ethernal/TicketIndexor/pkg/indexer"
)

// ErrNotFound is returned by a Projection when the requested record does not exist.
var ErrNotFound = errors.New("not found")

// Projection is the read side of the marketplace projection.
type Projection interface {
	GetAccount(ctx context.Context, address string) (*store.Account, error)
	QueryAccounts(ctx context.Context, params indexer.QueryParams) ([]*store.Account, int64, error)

	GetEvent(ctx context.Context, id int64) (*store.Event, error)
	QueryEvents(ctx context.Context, params indexer.QueryParams) ([]*store.Event, int64, error)

	GetOffer(ctx context.Context, id int64) (*store.Offer, error)
	QueryOffers(ctx context.Context, params indexer.QueryParams) ([]*store.Offer, int64, error)

	GetStats(ctx context.Context) (*indexer.StatsResponse, error)
}

var (
	accountSortFields = []string{"address"}
	eventSortFields   = []string{"id", "time", "created_block"}
	offerSortFields   = []string{"id", "amount", "collateral", "created_block"}

	eventStatuses = []store.EventStatus{
		store.EventUpcoming, store.EventOngoing, store.EventCompleted, store.EventCancelled,
	}
	offerStatuses = []store.OfferStatus{
		store.OfferActive, store.OfferAccepted, store.OfferDisputed, store.OfferSettled, store.OfferCancelled,
	}
)

// StoreProjection serves queries from the projection store.
type StoreProjection struct {
	store *store.Store
}

var _ Projection = (*StoreProjection)(nil)

// NewStoreProjection creates a Projection backed by st.
func NewStoreProjection(st *store.Store) *StoreProjection {
	return &StoreProjection{store: st}
}

func (p *StoreProjection) GetAccount(ctx context.Context, address string) (*store.Account, error) {
	return findOne(ctx, p.store.Accounts(), store.Filter{"address": addressKey(address)})
}

func (p *StoreProjection) QueryAccounts(ctx context.Context, params indexer.QueryParams) ([]*store.Account, int64, error) {
	filter := store.Filter{}
	if params.Admin != nil {
		filter["admin"] = *params.Admin
	}

	return findMany(ctx, p.store.Accounts(), filter, params, accountSortFields)
}

func (p *StoreProjection) GetEvent(ctx context.Context, id int64) (*store.Event, error) {
	return findOne(ctx, p.store.Events(), store.Filter{"id": id})
}

func (p *StoreProjection) QueryEvents(ctx context.Context, params indexer.QueryParams) ([]*store.Event, int64, error) {
	filter := store.Filter{}
	if params.Status != "" {
		filter["status"] = params.Status
	}
	if params.Category != "" {
		filter["category"] = params.Category
	}
	if params.Creator != "" {
		filter["creator"] = addressKey(params.Creator)
	}

	return findMany(ctx, p.store.Events(), filter, params, eventSortFields)
}

func (p *StoreProjection) GetOffer(ctx context.Context, id int64) (*store.Offer, error) {
	return findOne(ctx, p.store.Offers(), store.Filter{"id": id})
}

func (p *StoreProjection) QueryOffers(ctx context.Context, params indexer.QueryParams) ([]*store.Offer, int64, error) {
	filter := store.Filter{}
	if params.Status != "" {
		filter["status"] = params.Status
	}
	if params.Type != "" {
		filter["type"] = params.Type
	}
	if params.EventID != nil {
		filter["event_id"] = *params.EventID
	}
	if params.Seller != "" {
		filter["seller"] = addressKey(params.Seller)
	}
	if params.Buyer != "" {
		filter["buyer"] = addressKey(params.Buyer)
	}

	return findMany(ctx, p.store.Offers(), filter, params, offerSortFields)
}

func (p *StoreProjection) GetStats(ctx context.Context) (*indexer.StatsResponse, error) {
	stats := &indexer.StatsResponse{
		EventsByStatus: make(map[string]int64, len(eventStatuses)),
		OffersByStatus: make(map[string]int64, len(offerStatuses)),
	}

	var err error
	if stats.Accounts, err = p.store.Accounts().Count(ctx, nil); err != nil {
		return nil, err
	}
	if stats.Admins, err = p.store.Accounts().Count(ctx, store.Filter{"admin": true}); err != nil {
		return nil, err
	}

	for _, status := range eventStatuses {
		n, err := p.store.Events().Count(ctx, store.Filter{"status": string(status)})
		if err != nil {
			return nil, err
		}
		stats.EventsByStatus[string(status)] = n
		stats.Events += n
	}

	for _, status := range offerStatuses {
		n, err := p.store.Offers().Count(ctx, store.Filter{"status": string(status)})
		if err != nil {
			return nil, err
		}
		stats.OffersByStatus[string(status)] = n
		stats.Offers += n
	}

	cp, ok, err := p.store.Checkpoints().Get(ctx, internalindexer.CheckpointName)
	if err != nil {
		return nil, err
	}
	if ok {
		stats.CheckpointBlock = cp.BlockNumber
		stats.CheckpointHash = cp.BlockHash.Hex()
		stats.UpdatedAt = cp.UpdatedAt
	}

	return stats, nil
}

// addressKey accepts any hex form, with or without the 0x prefix.
func addressKey(address string) string {
	return common.AddressKey(ethcommon.HexToAddress(address))
}

func findOne[T any](ctx context.Context, c *store.Collection[T], filter store.Filter) (*T, error) {
	doc, err := c.FindOne(ctx, filter)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNotFound
	}

	return doc, err
}

func findMany[T any](ctx context.Context, c *store.Collection[T], filter store.Filter,
	params indexer.QueryParams, sortFields []string) ([]*T, int64, error) {
	sortBy := sortFields[0]
	if params.SortBy != "" {
		if !slices.Contains(sortFields, params.SortBy) {
			return nil, 0, fmt.Errorf("%w: cannot sort %s by %s", errInvalidParams, c.Name(), params.SortBy)
		}
		sortBy = params.SortBy
	}

	total, err := c.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	docs, err := c.FindMany(ctx, filter, store.Page{
		Limit:   params.Limit,
		Offset:  params.Offset,
		OrderBy: sortBy,
		Desc:    params.SortOrder == indexer.SortDesc,
	})
	if err != nil {
		return nil, 0, err
	}
	if docs == nil {
		docs = []*T{}
	}

	return docs, total, nil
}
