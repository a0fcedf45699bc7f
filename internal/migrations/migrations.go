package migrations

import (
	"database/sql"
	_ "embed"

	"github.com/goran-ethernal/TicketIndexor/internal/db"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
)

//go:embed 001_projection.sql
var mig001 string

//go:embed 002_sync_state.sql
var mig002 string

// All returns the projection migrations in application order.
func All() []db.Migration {
	return []db.Migration{
		{
			ID:  "001_projection.sql",
			SQL: mig001,
		},
		{
			ID:  "002_sync_state.sql",
			SQL: mig002,
		},
	}
}

// RunMigrations brings the projection schema up to date.
func RunMigrations(log *logger.Logger, database *sql.DB) error {
	return db.RunMigrationsDB(log, database, All())
}
