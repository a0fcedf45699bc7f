package store

// Collection names of the projection.
const (
	AccountTable = "account"
	EventTable   = "event"
	OfferTable   = "offer"
)

// Account is a wallet address known to the marketplace.
type Account struct {
	RowID       int64  `meddler:"row_id,pk" json:"-"`
	Address     string `meddler:"address,address" json:"address"`
	Admin       bool   `meddler:"admin" json:"admin"`
	KYCVerified bool   `meddler:"kyc_verified" json:"kycVerified"`
	Nonce       string `meddler:"nonce" json:"nonce"`
	Name        string `meddler:"name" json:"name"`
}

// Category classifies a ticketed event.
type Category string

const (
	CategorySports    Category = "SPORTS"
	CategoryComedy    Category = "COMEDY"
	CategoryMusic     Category = "MUSIC"
	CategoryEducation Category = "EDUCATION"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategorySports, CategoryComedy, CategoryMusic, CategoryEducation:
		return true
	}
	return false
}

// EventStatus is the lifecycle status of a ticketed event.
type EventStatus string

const (
	EventUpcoming  EventStatus = "UPCOMING"
	EventOngoing   EventStatus = "ONGOING"
	EventCompleted EventStatus = "COMPLETED"
	EventCancelled EventStatus = "CANCELLED"
)

func (s EventStatus) rank() int {
	switch s {
	case EventUpcoming:
		return 0
	case EventOngoing:
		return 1
	case EventCompleted, EventCancelled:
		return 2
	}
	return -1
}

// Valid reports whether s is a known event status.
func (s EventStatus) Valid() bool { return s.rank() >= 0 }

// Terminal reports whether no further status change is accepted.
func (s EventStatus) Terminal() bool {
	return s == EventCompleted || s == EventCancelled
}

// CheckTransition classifies moving an event from s to next.
func (s EventStatus) CheckTransition(next EventStatus) Transition {
	return classify(s == next, s.Terminal(), s.rank(), next.rank(), true)
}

// Event is a real-world ticketed occasion created on-chain.
type Event struct {
	RowID        int64       `meddler:"row_id,pk" json:"-"`
	ID           int64       `meddler:"id" json:"id"`
	Creator      string      `meddler:"creator,address" json:"creator"`
	Time         int64       `meddler:"time" json:"time"`
	Category     Category    `meddler:"category" json:"category"`
	Name         string      `meddler:"name" json:"name"`
	Description  string      `meddler:"description" json:"description"`
	Venue        string      `meddler:"venue" json:"venue"`
	ImageURL     string      `meddler:"image_url" json:"imageUrl"`
	MetadataURI  string      `meddler:"metadata_uri" json:"metadataUri"`
	Status       EventStatus `meddler:"status" json:"status"`
	CreatedBlock uint64      `meddler:"created_block" json:"createdBlock"`
	CreatedTx    string      `meddler:"created_tx" json:"createdTx"`
}

// OfferType distinguishes sell listings from buy requests.
type OfferType string

const (
	OfferToSell OfferType = "OFFER_TO_SELL"
	OfferToBuy  OfferType = "OFFER_TO_BUY"
)

// OfferStatus is the settlement status of an offer.
type OfferStatus string

const (
	OfferActive    OfferStatus = "ACTIVE"
	OfferAccepted  OfferStatus = "ACCEPTED"
	OfferDisputed  OfferStatus = "DISPUTED"
	OfferSettled   OfferStatus = "SETTLED"
	OfferCancelled OfferStatus = "CANCELLED"
)

func (s OfferStatus) rank() int {
	switch s {
	case OfferActive:
		return 0
	case OfferAccepted:
		return 1
	case OfferDisputed:
		return 2
	case OfferSettled, OfferCancelled:
		return 3
	}
	return -1
}

// Valid reports whether s is a known offer status.
func (s OfferStatus) Valid() bool { return s.rank() >= 0 }

// Terminal reports whether no further status change is accepted.
func (s OfferStatus) Terminal() bool {
	return s == OfferSettled || s == OfferCancelled
}

// offerEdges is the contract's offer state machine.
var offerEdges = map[OfferStatus][]OfferStatus{
	OfferActive:   {OfferAccepted, OfferCancelled},
	OfferAccepted: {OfferSettled, OfferDisputed},
	OfferDisputed: {OfferSettled, OfferCancelled},
}

// CheckTransition classifies moving an offer from s to next.
func (s OfferStatus) CheckTransition(next OfferStatus) Transition {
	allowed := false
	for _, to := range offerEdges[s] {
		if to == next {
			allowed = true
			break
		}
	}

	return classify(s == next, s.Terminal(), s.rank(), next.rank(), allowed)
}

// Offer is a sell listing or buy request against an event.
type Offer struct {
	RowID                  int64       `meddler:"row_id,pk" json:"-"`
	ID                     int64       `meddler:"id" json:"id"`
	Type                   OfferType   `meddler:"type" json:"type"`
	EventID                int64       `meddler:"event_id" json:"eventId"`
	Seller                 *string     `meddler:"seller,address" json:"seller"`
	Buyer                  *string     `meddler:"buyer,address" json:"buyer"`
	Amount                 int64       `meddler:"amount" json:"amount"`
	Collateral             int64       `meddler:"collateral" json:"collateral"`
	Quantity               int64       `meddler:"quantity" json:"quantity"`
	SeatNumbers            []string    `meddler:"seat_numbers,json" json:"seatNumbers"`
	SeatType               string      `meddler:"seat_type" json:"seatType"`
	PhysicalTicketRequired bool        `meddler:"physical_ticket_required" json:"physicalTicketRequired"`
	MetadataURI            string      `meddler:"metadata_uri" json:"metadataUri"`
	Status                 OfferStatus `meddler:"status" json:"status"`
	CreatedBlock           uint64      `meddler:"created_block" json:"createdBlock"`
	CreatedTx              string      `meddler:"created_tx" json:"createdTx"`
}

// Transition is the outcome of checking a status change against the projection.
type Transition int

const (
	// TransitionApply is a valid forward move.
	TransitionApply Transition = iota
	// TransitionUnexpected is a forward move the state machine does not list. It is applied
	// because the chain is authoritative, but reported as an anomaly.
	TransitionUnexpected
	// TransitionNoop means the record already has the target status.
	TransitionNoop
	// TransitionTerminal means the record is settled or cancelled and must not change.
	TransitionTerminal
	// TransitionBackward would move the record to an earlier status.
	TransitionBackward
)

func (t Transition) String() string {
	switch t {
	case TransitionApply:
		return "apply"
	case TransitionUnexpected:
		return "unexpected"
	case TransitionNoop:
		return "noop"
	case TransitionTerminal:
		return "terminal"
	case TransitionBackward:
		return "backward"
	}
	return "unknown"
}

// Applies reports whether the projection should be written.
func (t Transition) Applies() bool {
	return t == TransitionApply || t == TransitionUnexpected
}

func classify(same, terminal bool, from, to int, allowed bool) Transition {
	switch {
	case same:
		return TransitionNoop
	case terminal:
		return TransitionTerminal
	case to < from:
		return TransitionBackward
	case allowed:
		return TransitionApply
	default:
		return TransitionUnexpected
	}
}
