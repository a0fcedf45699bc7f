package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	internalcommon "github.com/goran-ethernal/TicketIndexor/internal/common"
	"github.com/goran-ethernal/TicketIndexor/internal/db"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/russross/meddler"
)

// Checkpoint is the last block whose logs have all been applied to the projection.
type Checkpoint struct {
	Name        string      `meddler:"name"`
	BlockNumber uint64      `meddler:"block_number"`
	BlockHash   common.Hash `meddler:"block_hash,hash"`
	UpdatedAt   int64       `meddler:"updated_at"`
}

// Checkpoints persists indexer progress in the sync_state table.
type Checkpoints struct {
	db    *sql.DB
	maint db.Maintenance
	log   *logger.Logger
}

// NewCheckpoints creates the checkpoint repository.
func NewCheckpoints(database *sql.DB, maint db.Maintenance, log *logger.Logger) *Checkpoints {
	if maint == nil {
		maint = &db.NoOpMaintenance{}
	}

	return &Checkpoints{db: database, maint: maint, log: log}
}

// Get returns the checkpoint stored under name. The bool is false when none exists yet.
func (c *Checkpoints) Get(ctx context.Context, name string) (*Checkpoint, bool, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT * FROM sync_state WHERE name = ?`, name)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get checkpoint %s: %w", name, err)
	}

	var cp Checkpoint
	if err := meddler.ScanRow(rows, &cp); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to scan checkpoint %s: %w", name, err)
	}

	return &cp, true, nil
}

// Save stores the checkpoint. A checkpoint never moves backwards.
func (c *Checkpoints) Save(ctx context.Context, name string, blockNum uint64, blockHash common.Hash) error {
	unlock := c.maint.AcquireOperationLock()
	defer unlock()

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO sync_state (name, block_number, block_hash, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			block_number = excluded.block_number,
			block_hash   = excluded.block_hash,
			updated_at   = excluded.updated_at
		WHERE excluded.block_number > sync_state.block_number`,
		name, blockNum, blockHash.Hex(), time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to save checkpoint %s: %w", internalcommon.ErrStoreWrite, name, err)
	}

	c.log.Debugf("saved checkpoint: name=%s, block=%d, block_hash=%s", name, blockNum, blockHash.Hex())

	return nil
}

// Reset forces the checkpoint to blockNum, for reindexing from an earlier block.
func (c *Checkpoints) Reset(ctx context.Context, name string, blockNum uint64) error {
	unlock := c.maint.AcquireOperationLock()
	defer unlock()

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO sync_state (name, block_number, block_hash, updated_at) VALUES (?, ?, '', ?)
		ON CONFLICT (name) DO UPDATE SET
			block_number = excluded.block_number,
			block_hash   = '',
			updated_at   = excluded.updated_at`,
		name, blockNum, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to reset checkpoint %s: %w", internalcommon.ErrStoreWrite, name, err)
	}

	c.log.Warnf("checkpoint reset: name=%s, block=%d", name, blockNum)

	return nil
}
