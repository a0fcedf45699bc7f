package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	migrate "github.com/rubenv/sql-migrate"
)

const (
	upMarker          = "-- +migrate Up"
	downMarker        = "-- +migrate Down"
	NoLimitMigrations = 0 // indicate that there is no limit on the number of migrations to run
)

// Migration is a single embedded SQL migration file with Up and Down sections.
type Migration struct {
	ID  string
	SQL string
}

// RunMigrationsDB applies all pending migrations.
func RunMigrationsDB(log *logger.Logger, db *sql.DB, migrations []Migration) error {
	return RunMigrationsDBExtended(log, db, migrations, migrate.Up, NoLimitMigrations)
}

// RunMigrationsDBExtended applies at most maxMigrations migrations in the given direction.
// Pass NoLimitMigrations to apply all of them.
func RunMigrationsDBExtended(log *logger.Logger,
	db *sql.DB,
	migrations []Migration,
	dir migrate.MigrationDirection,
	maxMigrations int) error {
	source := &migrate.MemoryMigrationSource{}

	for _, m := range migrations {
		parsed, err := parseMigration(m)
		if err != nil {
			return err
		}
		source.Migrations = append(source.Migrations, parsed)
	}

	ids := make([]string, 0, len(source.Migrations))
	for _, m := range source.Migrations {
		ids = append(ids, m.Id)
	}

	log.Debugf("running migrations (max %d/%d): %s", maxMigrations, len(ids), strings.Join(ids, ", "))

	n, err := migrate.ExecMax(db, "sqlite3", source, dir, maxMigrations)
	if err != nil {
		return fmt.Errorf("failed to execute migrations %s: %w", strings.Join(ids, ", "), err)
	}

	log.Infof("successfully ran %d migrations", n)
	return nil
}

// parseMigration splits a migration file into its Down and Up sections.
// The Down section precedes the Up marker.
func parseMigration(m Migration) (*migrate.Migration, error) {
	parts := strings.SplitN(m.SQL, upMarker, 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("migration %s missing '%s' separator", m.ID, upMarker)
	}

	downSQL := parts[0]
	if idx := strings.Index(downSQL, downMarker); idx != -1 {
		downSQL = downSQL[idx+len(downMarker):]
	}

	return &migrate.Migration{
		Id:   m.ID,
		Up:   []string{strings.TrimSpace(parts[1])},
		Down: []string{strings.TrimSpace(downSQL)},
	}, nil
}
