package helpers

import (
	"database/sql"
	"path"
	"testing"

	"github.com/goran-ethernal/TicketIndexor/internal/db"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/goran-ethernal/TicketIndexor/internal/migrations"
	"github.com/goran-ethernal/TicketIndexor/pkg/config"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates a migrated temporary SQLite projection database.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dbConfig := config.DatabaseConfig{Path: path.Join(t.TempDir(), "projection.sqlite")}
	dbConfig.ApplyDefaults()

	database, err := db.NewSQLiteDBFromConfig(dbConfig)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, migrations.RunMigrations(logger.NewNopLogger(), database))

	return database
}
