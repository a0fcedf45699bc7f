package api

import (
	"time"

	"github.com/goran-ethernal/TicketIndexor/internal/store"
)

// EventListResponse is a page of ticketed events.
type EventListResponse struct {
	Events     []*store.Event   `json:"events"`
	Pagination PaginationResult `json:"pagination"`
}

// OfferListResponse is a page of offers.
type OfferListResponse struct {
	Offers     []*store.Offer   `json:"offers"`
	Pagination PaginationResult `json:"pagination"`
}

// AccountListResponse is a page of accounts.
type AccountListResponse struct {
	Accounts   []*store.Account `json:"accounts"`
	Pagination PaginationResult `json:"pagination"`
}

// PaginationResult contains pagination metadata.
type PaginationResult struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

func newPagination(total int64, limit, offset, n int) PaginationResult {
	return PaginationResult{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+n) < total,
	}
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Code      int    `json:"code"`
	RequestID string `json:"request_id,omitempty"`
}

// HealthResponse represents a health check response.
type HealthResponse struct {
	Status          string    `json:"status"`
	Timestamp       time.Time `json:"timestamp"`
	CheckpointBlock uint64    `json:"checkpoint_block"`
	Healthy         bool      `json:"healthy"`
}
