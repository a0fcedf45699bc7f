package store

import (
	"database/sql"

	"github.com/goran-ethernal/TicketIndexor/internal/db"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
)

// Store groups the projection collections and the indexer checkpoint.
type Store struct {
	db  *sql.DB
	log *logger.Logger

	accounts    *Collection[Account]
	events      *Collection[Event]
	offers      *Collection[Offer]
	checkpoints *Checkpoints
}

// New creates the projection store over an already migrated database.
func New(database *sql.DB, maint db.Maintenance, log *logger.Logger) (*Store, error) {
	accounts, err := NewCollection[Account](database, AccountTable, maint, log)
	if err != nil {
		return nil, err
	}

	events, err := NewCollection[Event](database, EventTable, maint, log)
	if err != nil {
		return nil, err
	}

	offers, err := NewCollection[Offer](database, OfferTable, maint, log)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:          database,
		log:         log,
		accounts:    accounts,
		events:      events,
		offers:      offers,
		checkpoints: NewCheckpoints(database, maint, log),
	}, nil
}

func (s *Store) Accounts() *Collection[Account] { return s.accounts }
func (s *Store) Events() *Collection[Event]     { return s.events }
func (s *Store) Offers() *Collection[Offer]     { return s.offers }
func (s *Store) Checkpoints() *Checkpoints      { return s.checkpoints }

// DB returns the underlying connection.
func (s *Store) DB() *sql.DB {
	return s.db
}
