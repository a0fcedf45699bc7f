package indexer

// EventMetadata is the content-store document referenced by EventCreated.
type EventMetadata struct {
	Name        string `json:"name" jsonschema:"required"`
	Description string `json:"description"`
	Venue       string `json:"venue"`
	Category    string `json:"category" jsonschema:"required,enum=SPORTS,enum=COMEDY,enum=MUSIC,enum=EDUCATION"`
	ImageURL    string `json:"imageUrl"`
}

// OfferMetadata is the content-store document referenced by OfferToSellCreated and OfferToBuyCreated.
type OfferMetadata struct {
	Quantity               int64    `json:"quantity" jsonschema:"required,minimum=0"`
	SeatNumbers            []string `json:"seatNumbers"`
	SeatType               string   `json:"seatType"`
	PhysicalTicketRequired bool     `json:"isPhysicalTicketNeededToAttend"`
}
