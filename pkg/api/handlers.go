package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goran-ethernal/TicketIndexor/internal/common"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/goran-ethernal/TicketIndexor/internal/store"
	"github.com/goran-ethernal/TicketIndexor/pkg/config"
	"github.com/goran-ethernal/TicketIndexor/pkg/indexer"
)

var errInvalidParams = errors.New("invalid query parameters")

// Handler handles HTTP requests for the API.
type Handler struct {
	projection      Projection
	log             *logger.Logger
	defaultPageSize int
	maxPageSize     int
}

// NewHandler creates a new API handler.
func NewHandler(cfg *config.APIConfig, projection Projection, log *logger.Logger) *Handler {
	return &Handler{
		projection:      projection,
		log:             log,
		defaultPageSize: cfg.DefaultPageSize,
		maxPageSize:     cfg.MaxPageSize,
	}
}

// GetAccount retrieves a single account.
// @Summary Get an account
// @Description Retrieve an account by wallet address. The address is matched case-insensitively.
// @Tags Accounts
// @Produce json
// @Param address path string true "Wallet address"
// @Success 200 {object} store.Account "Account"
// @Failure 400 {object} ErrorResponse "Invalid address"
// @Failure 404 {object} ErrorResponse "Account not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /accounts/{address} [get]
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	if !common.IsHexAddress(address) {
		respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid address '%s'", address))
		return
	}

	account, err := h.projection.GetAccount(r.Context(), address)
	if err != nil {
		h.respondLookupError(w, r, "account", address, err)
		return
	}

	respondJSON(w, http.StatusOK, account)
}

// GetAccounts lists accounts.
// @Summary List accounts
// @Description Retrieve accounts with optional admin filter and pagination
// @Tags Accounts
// @Produce json
// @Param admin query bool false "Only admins (true) or only non-admins (false)"
// @Param limit query int false "Maximum number of accounts to return" default(50)
// @Param offset query int false "Number of accounts to skip" default(0)
// @Param sort_order query string false "Sort order: asc or desc" Enums(asc, desc)
// @Success 200 {object} AccountListResponse "List of accounts with pagination info"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /accounts [get]
func (h *Handler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	params, err := h.parseQueryParams(r, nil)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	accounts, total, err := h.projection.QueryAccounts(r.Context(), *params)
	if err != nil {
		h.respondQueryError(w, r, "accounts", err)
		return
	}

	respondJSON(w, http.StatusOK, AccountListResponse{
		Accounts:   accounts,
		Pagination: newPagination(total, params.Limit, params.Offset, len(accounts)),
	})
}

// GetEvent retrieves a single ticketed event.
// @Summary Get an event
// @Description Retrieve a ticketed event by its on-chain id
// @Tags Events
// @Produce json
// @Param id path integer true "Event id"
// @Success 200 {object} store.Event "Event"
// @Failure 400 {object} ErrorResponse "Invalid id"
// @Failure 404 {object} ErrorResponse "Event not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /events/{id} [get]
func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	event, err := h.projection.GetEvent(r.Context(), id)
	if err != nil {
		h.respondLookupError(w, r, "event", strconv.FormatInt(id, 10), err)
		return
	}

	respondJSON(w, http.StatusOK, event)
}

// GetEvents lists ticketed events.
// @Summary List events
// @Description Retrieve ticketed events with optional filtering, pagination, and sorting
// @Tags Events
// @Produce json
// @Param status query string false "Event status" Enums(UPCOMING, ONGOING, COMPLETED, CANCELLED)
// @Param category query string false "Event category" Enums(SPORTS, COMEDY, MUSIC, EDUCATION)
// @Param creator query string false "Creator address"
// @Param limit query int false "Maximum number of events to return" default(50)
// @Param offset query int false "Number of events to skip" default(0)
// @Param sort_by query string false "Field to sort by" Enums(id, time, created_block)
// @Param sort_order query string false "Sort order: asc or desc" Enums(asc, desc)
// @Success 200 {object} EventListResponse "List of events with pagination info"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /events [get]
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
	params, err := h.parseQueryParams(r, eventStatus)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	events, total, err := h.projection.QueryEvents(r.Context(), *params)
	if err != nil {
		h.respondQueryError(w, r, "events", err)
		return
	}

	respondJSON(w, http.StatusOK, EventListResponse{
		Events:     events,
		Pagination: newPagination(total, params.Limit, params.Offset, len(events)),
	})
}

// GetEventOffers lists the offers placed against one event.
// @Summary List offers of an event
// @Description Retrieve the offers that reference a ticketed event
// @Tags Events
// @Produce json
// @Param id path integer true "Event id"
// @Param status query string false "Offer status" Enums(ACTIVE, ACCEPTED, DISPUTED, SETTLED, CANCELLED)
// @Param type query string false "Offer type" Enums(OFFER_TO_SELL, OFFER_TO_BUY)
// @Param limit query int false "Maximum number of offers to return" default(50)
// @Param offset query int false "Number of offers to skip" default(0)
// @Success 200 {object} OfferListResponse "List of offers with pagination info"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /events/{id}/offers [get]
func (h *Handler) GetEventOffers(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	params, err := h.parseQueryParams(r, offerStatus)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	params.EventID = &id

	h.listOffers(w, r, params)
}

// GetOffer retrieves a single offer.
// @Summary Get an offer
// @Description Retrieve an offer by its on-chain id
// @Tags Offers
// @Produce json
// @Param id path integer true "Offer id"
// @Success 200 {object} store.Offer "Offer"
// @Failure 400 {object} ErrorResponse "Invalid id"
// @Failure 404 {object} ErrorResponse "Offer not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /offers/{id} [get]
func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	offer, err := h.projection.GetOffer(r.Context(), id)
	if err != nil {
		h.respondLookupError(w, r, "offer", strconv.FormatInt(id, 10), err)
		return
	}

	respondJSON(w, http.StatusOK, offer)
}

// GetOffers lists offers.
// @Summary List offers
// @Description Retrieve offers with optional filtering, pagination, and sorting
// @Tags Offers
// @Produce json
// @Param status query string false "Offer status" Enums(ACTIVE, ACCEPTED, DISPUTED, SETTLED, CANCELLED)
// @Param type query string false "Offer type" Enums(OFFER_TO_SELL, OFFER_TO_BUY)
// @Param event_id query integer false "Event id"
// @Param seller query string false "Seller address"
// @Param buyer query string false "Buyer address"
// @Param limit query int false "Maximum number of offers to return" default(50)
// @Param offset query int false "Number of offers to skip" default(0)
// @Param sort_by query string false "Field to sort by" Enums(id, amount, collateral, created_block)
// @Param sort_order query string false "Sort order: asc or desc" Enums(asc, desc)
// @Success 200 {object} OfferListResponse "List of offers with pagination info"
// @Failure 400 {object} ErrorResponse "Invalid parameters"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /offers [get]
func (h *Handler) GetOffers(w http.ResponseWriter, r *http.Request) {
	params, err := h.parseQueryParams(r, offerStatus)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.listOffers(w, r, params)
}

func (h *Handler) listOffers(w http.ResponseWriter, r *http.Request, params *indexer.QueryParams) {
	offers, total, err := h.projection.QueryOffers(r.Context(), *params)
	if err != nil {
		h.respondQueryError(w, r, "offers", err)
		return
	}

	respondJSON(w, http.StatusOK, OfferListResponse{
		Offers:     offers,
		Pagination: newPagination(total, params.Limit, params.Offset, len(offers)),
	})
}

// GetStats retrieves projection statistics.
// @Summary Get projection statistics
// @Description Record counts by status and the last fully indexed block
// @Tags Stats
// @Produce json
// @Success 200 {object} indexer.StatsResponse "Projection statistics"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /stats [get]
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.projection.GetStats(r.Context())
	if err != nil {
		h.log.Errorf("Failed to get stats: %v", err)
		respondError(w, r, http.StatusInternalServerError, "failed to get stats")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// Health returns the health status of the API and the projection store.
// @Summary Health check
// @Description Check that the projection store is readable and report the indexer checkpoint
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Health status"
// @Failure 503 {object} HealthResponse "Projection store unavailable"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Healthy:   true,
	}

	stats, err := h.projection.GetStats(r.Context())
	if err != nil {
		h.log.Warnf("Health check failed: %v", err)
		response.Status = "degraded"
		response.Healthy = false
		respondJSON(w, http.StatusServiceUnavailable, response)
		return
	}
	response.CheckpointBlock = stats.CheckpointBlock

	respondJSON(w, http.StatusOK, response)
}

func (h *Handler) respondLookupError(w http.ResponseWriter, r *http.Request, kind, key string, err error) {
	if errors.Is(err, ErrNotFound) {
		respondError(w, r, http.StatusNotFound, fmt.Sprintf("%s '%s' not found", kind, key))
		return
	}

	h.log.Errorf("Failed to get %s %s: %v", kind, key, err)
	respondError(w, r, http.StatusInternalServerError, "failed to get "+kind)
}

func (h *Handler) respondQueryError(w http.ResponseWriter, r *http.Request, kind string, err error) {
	if errors.Is(err, errInvalidParams) {
		respondError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	h.log.Errorf("Failed to query %s: %v", kind, err)
	respondError(w, r, http.StatusInternalServerError, "failed to query "+kind)
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		respondError(w, r, http.StatusBadRequest, fmt.Sprintf("invalid id '%s'", raw))
		return 0, false
	}

	return id, true
}

// statusFilter reports whether a status is valid for the listed entity.
type statusFilter func(status string) bool

func eventStatus(status string) bool { return store.EventStatus(status).Valid() }

func offerStatus(status string) bool { return store.OfferStatus(status).Valid() }

// parseQueryParams parses HTTP query parameters into QueryParams.
// Listings without a status pass a nil validStatus and reject the status parameter.
func (h *Handler) parseQueryParams(r *http.Request, validStatus statusFilter) (*indexer.QueryParams, error) {
	params := indexer.NewDefaultQueryParams()
	if h.defaultPageSize > 0 {
		params.Limit = h.defaultPageSize
	}
	q := r.URL.Query()

	if limitStr := q.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > h.maxPageSize {
			return params, fmt.Errorf("%w: limit must be between 1 and %d", errInvalidParams, h.maxPageSize)
		}
		params.Limit = limit
	}

	if offsetStr := q.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return params, fmt.Errorf("%w: offset must be non-negative", errInvalidParams)
		}
		params.Offset = offset
	}

	if sortBy := q.Get("sort_by"); sortBy != "" {
		params.SortBy = strings.ToLower(sortBy)
	}

	if sortOrder := q.Get("sort_order"); sortOrder != "" {
		sortOrder = strings.ToLower(sortOrder)
		if sortOrder != indexer.SortAsc && sortOrder != indexer.SortDesc {
			return params, fmt.Errorf("%w: sort_order must be 'asc' or 'desc'", errInvalidParams)
		}
		params.SortOrder = sortOrder
	}

	if status := q.Get("status"); status != "" {
		if validStatus == nil {
			return params, fmt.Errorf("%w: status is not supported here", errInvalidParams)
		}
		params.Status = strings.ToUpper(status)
		if !validStatus(params.Status) {
			return params, fmt.Errorf("%w: unknown status '%s'", errInvalidParams, status)
		}
	}

	if category := q.Get("category"); category != "" {
		params.Category = strings.ToUpper(category)
		if !store.Category(params.Category).Valid() {
			return params, fmt.Errorf("%w: unknown category '%s'", errInvalidParams, category)
		}
	}

	if offerType := q.Get("type"); offerType != "" {
		params.Type = strings.ToUpper(offerType)
		if params.Type != string(store.OfferToSell) && params.Type != string(store.OfferToBuy) {
			return params, fmt.Errorf("%w: unknown offer type '%s'", errInvalidParams, offerType)
		}
	}

	if eventIDStr := q.Get("event_id"); eventIDStr != "" {
		eventID, err := strconv.ParseInt(eventIDStr, 10, 64)
		if err != nil || eventID < 0 {
			return params, fmt.Errorf("%w: invalid event_id", errInvalidParams)
		}
		params.EventID = &eventID
	}

	if adminStr := q.Get("admin"); adminStr != "" {
		admin, err := strconv.ParseBool(adminStr)
		if err != nil {
			return params, fmt.Errorf("%w: invalid admin flag", errInvalidParams)
		}
		params.Admin = &admin
	}

	for name, dst := range map[string]*string{
		"creator": &params.Creator,
		"seller":  &params.Seller,
		"buyer":   &params.Buyer,
	} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		if !common.IsHexAddress(v) {
			return params, fmt.Errorf("%w: invalid %s address", errInvalidParams, name)
		}
		*dst = v
	}

	return params, nil
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")

	// Encode JSON first to catch any errors before writing status
	encoded, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)

	// Headers already sent, nothing to report on a failed write
	_, _ = w.Write(encoded)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	response := ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      status,
		RequestID: RequestIDFromContext(r.Context()),
	}
	respondJSON(w, status, response)
}
