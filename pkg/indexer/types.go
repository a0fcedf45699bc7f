package indexer

const (
	defaultPageLimit = 50

	SortAsc  = "asc"
	SortDesc = "desc"
)

// QueryParams represents the filters and paging of a projection list query.
// Empty filters match every record.
type QueryParams struct {
	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string
	SortOrder string // "asc" or "desc"

	// Event and offer status, e.g. "UPCOMING" or "ACCEPTED"
	Status string

	// Event category
	Category string

	// Event creator address
	Creator string

	// Offer filters
	Type    string
	EventID *int64
	Seller  string
	Buyer   string

	// Account filter
	Admin *bool
}

func NewDefaultQueryParams() *QueryParams {
	return &QueryParams{
		Limit:     defaultPageLimit,
		Offset:    0,
		SortOrder: SortDesc,
	}
}

// StatsResponse represents projection statistics.
// @Description Record counts of the projection and the indexer checkpoint
type StatsResponse struct {
	Accounts        int64            `json:"accounts" example:"120" description:"Number of known accounts"`
	Admins          int64            `json:"admins" example:"2" description:"Number of accounts with the admin flag"`
	Events          int64            `json:"events" example:"35" description:"Number of indexed events"`
	EventsByStatus  map[string]int64 `json:"events_by_status" description:"Event count by status"`
	Offers          int64            `json:"offers" example:"410" description:"Number of indexed offers"`
	OffersByStatus  map[string]int64 `json:"offers_by_status" description:"Offer count by status"`
	CheckpointBlock uint64           `json:"checkpoint_block" example:"19500000" description:"Last fully applied block"`
	CheckpointHash  string           `json:"checkpoint_hash,omitempty" description:"Hash of the checkpoint block"`
	UpdatedAt       int64            `json:"updated_at,omitempty" example:"1718000000" description:"Unix time of the last checkpoint"` //nolint:lll
}
