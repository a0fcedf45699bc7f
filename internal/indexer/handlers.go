package indexer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goran-ethernal/TicketIndexor/internal/common"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/goran-ethernal/TicketIndexor/internal/metrics"
	"github.com/goran-ethernal/TicketIndexor/internal/store"
	"github.com/goran-ethernal/TicketIndexor/pkg/contentstore"
	pkgindexer "github.com/goran-ethernal/TicketIndexor/pkg/indexer"
)

var _ Handlers = (*ProjectionHandlers)(nil)

// ProjectionHandlers applies decoded events to the projection store.
// Every write is an upsert by business key or a status compare-and-set,
// so applying the same event twice leaves the projection unchanged.
type ProjectionHandlers struct {
	store   *store.Store
	content contentstore.Store
	gateway string
	log     *logger.Logger
}

// NewProjectionHandlers creates the handler set. Metadata URIs are stored in their
// canonical form on gateway.
func NewProjectionHandlers(st *store.Store, content contentstore.Store, gateway string,
	log *logger.Logger) *ProjectionHandlers {
	return &ProjectionHandlers{
		store:   st,
		content: content,
		gateway: gateway,
		log:     log,
	}
}

func (h *ProjectionHandlers) AdminAdded(ctx context.Context, e *AdminAdded) (Outcome, error) {
	return h.setAdmin(ctx, e, e.Admin, true)
}

func (h *ProjectionHandlers) AdminRemoved(ctx context.Context, e *AdminRemoved) (Outcome, error) {
	return h.setAdmin(ctx, e, e.Admin, false)
}

// setAdmin creates the account on grant. A revoke never creates an account.
func (h *ProjectionHandlers) setAdmin(ctx context.Context, e Event, address string, admin bool) (Outcome, error) {
	address = common.NormalizeAddress(address)
	res, err := h.store.Accounts().UpdateOne(ctx,
		store.Filter{"address": address},
		store.Update{Set: map[string]any{"admin": admin}},
		admin,
	)
	if err != nil {
		return OutcomeNoop, err
	}

	if res.Matched == 0 && !res.Upserted {
		h.log.Debugw("admin removed from unknown account", e.Fields()...)
		return OutcomeNoop, nil
	}

	return written(res), nil
}

func (h *ProjectionHandlers) EventCreated(ctx context.Context, e *EventCreated) (Outcome, error) {
	var meta pkgindexer.EventMetadata
	uri, err := h.fetch(ctx, e.MetadataURI, &meta)
	if err != nil {
		return OutcomeNoop, err
	}

	category := store.Category(strings.ToUpper(strings.TrimSpace(meta.Category)))
	if !category.Valid() {
		return OutcomeNoop, fmt.Errorf("%w: %s: unknown category %q", common.ErrMetadataFetch, e.MetadataURI, meta.Category)
	}

	res, err := h.store.Events().UpdateOne(ctx,
		store.Filter{"id": e.ID},
		store.Update{Set: map[string]any{
			"creator":       common.NormalizeAddress(e.Creator),
			"time":          e.Time,
			"category":      string(category),
			"name":          meta.Name,
			"description":   meta.Description,
			"venue":         meta.Venue,
			"image_url":     meta.ImageURL,
			"metadata_uri":  uri,
			"created_block": e.Log.BlockNumber,
			"created_tx":    e.Log.TxHash.Hex(),
		}},
		true,
	)
	if err != nil {
		return OutcomeNoop, err
	}

	return written(res), nil
}

func (h *ProjectionHandlers) EventCancelled(ctx context.Context, e *EventCancelled) (Outcome, error) {
	event, err := h.store.Events().FindOne(ctx, store.Filter{"id": e.ID})
	if errors.Is(err, store.ErrNotFound) {
		h.log.Warnw("cancelled event is not in the projection", e.Fields()...)
		return OutcomeMissing, nil
	}
	if err != nil {
		return OutcomeNoop, err
	}

	t := event.Status.CheckTransition(store.EventCancelled)
	if outcome, ok := h.checkTransition(e, store.EventTable, string(event.Status), string(store.EventCancelled), t); !ok {
		return outcome, nil
	}

	res, err := h.store.Events().UpdateOne(ctx,
		store.Filter{"id": e.ID, "status": string(event.Status)},
		store.Update{Set: map[string]any{"status": string(store.EventCancelled)}},
		false,
	)
	if err != nil {
		return OutcomeNoop, err
	}

	return h.casResult(e, res), nil
}

func (h *ProjectionHandlers) OfferToSellCreated(ctx context.Context, e *OfferToSellCreated) (Outcome, error) {
	return h.createOffer(ctx, e, e.ID, store.OfferToSell, e.EventID, e.Ask, e.Collateral, e.MetadataURI,
		map[string]string{"seller": e.Seller})
}

func (h *ProjectionHandlers) OfferToBuyCreated(ctx context.Context, e *OfferToBuyCreated) (Outcome, error) {
	return h.createOffer(ctx, e, e.ID, store.OfferToBuy, e.EventID, e.Bid, e.Collateral, e.MetadataURI,
		map[string]string{"buyer": e.Buyer})
}

func (h *ProjectionHandlers) createOffer(ctx context.Context, e Event, id int64, offerType store.OfferType,
	eventID, amount, collateral int64, metadataURI string, creator map[string]string) (Outcome, error) {
	var meta pkgindexer.OfferMetadata
	uri, err := h.fetch(ctx, metadataURI, &meta)
	if err != nil {
		return OutcomeNoop, err
	}

	if meta.Quantity < 0 {
		return OutcomeNoop, fmt.Errorf("%w: %s: negative quantity %d", common.ErrMetadataFetch, metadataURI, meta.Quantity)
	}

	seats := meta.SeatNumbers
	if seats == nil {
		seats = []string{}
	}

	set := map[string]any{
		"type":                     string(offerType),
		"event_id":                 eventID,
		"amount":                   amount,
		"collateral":               collateral,
		"quantity":                 meta.Quantity,
		"seat_numbers":             seats,
		"seat_type":                meta.SeatType,
		"physical_ticket_required": meta.PhysicalTicketRequired,
		"metadata_uri":             uri,
		"created_block":            e.Meta().BlockNumber,
		"created_tx":               e.Meta().TxHash.Hex(),
	}
	for column, address := range creator {
		set[column] = common.NormalizeAddress(address)
	}

	res, err := h.store.Offers().UpdateOne(ctx,
		store.Filter{"id": id},
		store.Update{
			Set:         set,
			SetOnInsert: map[string]any{"status": string(store.OfferActive)},
		},
		true,
	)
	if err != nil {
		return OutcomeNoop, err
	}

	return written(res), nil
}

// OfferAccepted records the counterparty: the buyer of a sell offer, or the seller of a buy offer.
func (h *ProjectionHandlers) OfferAccepted(ctx context.Context, e *OfferAccepted) (Outcome, error) {
	return h.moveOffer(ctx, e, e.ID, store.OfferAccepted, func(o *store.Offer) []party {
		if o.Type == store.OfferToBuy {
			return []party{{column: "seller", current: o.Seller, address: e.Buyer}}
		}
		return []party{{column: "buyer", current: o.Buyer, address: e.Buyer}}
	})
}

func (h *ProjectionHandlers) OfferCancelled(ctx context.Context, e *OfferCancelled) (Outcome, error) {
	return h.moveOffer(ctx, e, e.ID, store.OfferCancelled, nil)
}

func (h *ProjectionHandlers) OfferDisputed(ctx context.Context, e *OfferDisputed) (Outcome, error) {
	return h.moveOffer(ctx, e, e.ID, store.OfferDisputed, nil)
}

// OfferSettled fills whichever party the projection is still missing.
func (h *ProjectionHandlers) OfferSettled(ctx context.Context, e *OfferSettled) (Outcome, error) {
	return h.moveOffer(ctx, e, e.ID, store.OfferSettled, func(o *store.Offer) []party {
		return []party{
			{column: "seller", current: o.Seller, address: e.Seller},
			{column: "buyer", current: o.Buyer, address: e.Buyer},
		}
	})
}

// party is an offer address column an event may fill. A party is written once.
type party struct {
	column  string
	current *string
	address string
}

func (h *ProjectionHandlers) moveOffer(ctx context.Context, e Event, id int64, to store.OfferStatus,
	parties func(o *store.Offer) []party) (Outcome, error) {
	offer, err := h.store.Offers().FindOne(ctx, store.Filter{"id": id})
	if errors.Is(err, store.ErrNotFound) {
		h.log.Warnw("offer is not in the projection", append(e.Fields(), "status", to)...)
		return OutcomeMissing, nil
	}
	if err != nil {
		return OutcomeNoop, err
	}

	set := make(map[string]any)

	t := offer.Status.CheckTransition(to)
	if t != store.TransitionNoop {
		if outcome, ok := h.checkTransition(e, store.OfferTable, string(offer.Status), string(to), t); !ok {
			return outcome, nil
		}
		set["status"] = string(to)
	}

	if parties != nil {
		for _, p := range parties(offer) {
			p.address = common.NormalizeAddress(p.address)
			switch {
			case p.address == "" || p.address == zeroAddress:
			case p.current == nil:
				set[p.column] = p.address
			case *p.current != p.address:
				metrics.StatusAnomalyInc(store.OfferTable, p.column, "mismatch")
				h.log.Warnw("offer party differs from the projection",
					append(e.Fields(), "column", p.column, "projection", *p.current, "log", p.address)...)
			}
		}
	}

	if len(set) == 0 {
		return OutcomeNoop, nil
	}

	res, err := h.store.Offers().UpdateOne(ctx,
		store.Filter{"id": id, "status": string(offer.Status)},
		store.Update{Set: set},
		false,
	)
	if err != nil {
		return OutcomeNoop, err
	}

	return h.casResult(e, res), nil
}

const zeroAddress = "0x0000000000000000000000000000000000000000"

// checkTransition logs and counts status changes the projection does not expect.
// It returns false when the change must not be written.
func (h *ProjectionHandlers) checkTransition(e Event, entity, from, to string, t store.Transition) (Outcome, bool) {
	switch t {
	case store.TransitionApply:
		return OutcomeApplied, true
	case store.TransitionNoop:
		return OutcomeNoop, false
	case store.TransitionUnexpected:
		metrics.StatusAnomalyInc(entity, from, to)
		h.log.Warnw("applying status change outside the state machine",
			append(e.Fields(), "from", from, "to", to)...)
		return OutcomeApplied, true
	default:
		metrics.StatusAnomalyInc(entity, from, to)
		h.log.Warnw("ignoring status change",
			append(e.Fields(), "from", from, "to", to, "reason", t.String())...)
		return OutcomeAnomaly, false
	}
}

// casResult interprets an update guarded by the status read before it.
func (h *ProjectionHandlers) casResult(e Event, res store.UpdateResult) Outcome {
	if res.Matched == 0 {
		h.log.Warnw("status changed while the event was applied", e.Fields()...)
		return OutcomeAnomaly
	}
	return written(res)
}

// fetch resolves a metadata reference and returns its canonical gateway URI.
func (h *ProjectionHandlers) fetch(ctx context.Context, ref string, out any) (string, error) {
	cid, err := contentstore.ContentID(ref)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrMetadataFetch, err)
	}

	if err := h.content.Get(ctx, ref, out); err != nil {
		if !errors.Is(err, common.ErrMetadataFetch) {
			err = fmt.Errorf("%w: %s: %w", common.ErrMetadataFetch, ref, err)
		}
		return "", err
	}

	return contentstore.GatewayURI(h.gateway, cid), nil
}

func written(res store.UpdateResult) Outcome {
	if res.Upserted || res.Modified > 0 {
		return OutcomeApplied
	}
	return OutcomeNoop
}
