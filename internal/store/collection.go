package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/goran-ethernal/TicketIndexor/internal/common"
	"github.com/goran-ethernal/TicketIndexor/internal/db"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/goran-ethernal/TicketIndexor/internal/metrics"
	"github.com/mattn/go-sqlite3"
	"github.com/russross/meddler"
)

const (
	metricsDB  = "projection"
	rowIDField = "row_id"
)

// ErrNotFound is returned by FindOne when no record matches the filter.
var ErrNotFound = errors.New("not found")

// Filter selects records by column equality. A nil value matches NULL.
type Filter map[string]any

// Update describes the columns written by UpdateOne.
// SetOnInsert columns are only written when the update inserts a new record.
type Update struct {
	Set         map[string]any
	SetOnInsert map[string]any
}

// Page controls ordering and pagination of FindMany.
type Page struct {
	Limit   int
	Offset  int
	OrderBy string
	Desc    bool
}

// UpdateResult reports what an UpdateOne did.
type UpdateResult struct {
	Matched  int64
	Modified int64
	Upserted bool
}

// WriteModel is one operation of a BulkWrite.
type WriteModel interface {
	writeModel()
}

// InsertOneModel inserts a document.
type InsertOneModel[T any] struct {
	Document *T
}

// UpdateOneModel updates, or upserts, the record matching Filter.
type UpdateOneModel struct {
	Filter Filter
	Update Update
	Upsert bool
}

func (InsertOneModel[T]) writeModel() {}
func (UpdateOneModel) writeModel()    {}

// BulkResult aggregates the outcome of a BulkWrite.
type BulkResult struct {
	Inserted int64
	Matched  int64
	Modified int64
	Upserted int64
}

// Collection is a typed data-access layer over one projection table.
// Every write runs in its own immediate transaction and holds the maintenance operation lock.
type Collection[T any] struct {
	db      *sql.DB
	table   string
	columns []string
	maint   db.Maintenance
	log     *logger.Logger
}

// NewCollection binds T to table. The column whitelist is taken from T's meddler tags.
func NewCollection[T any](database *sql.DB, table string, maint db.Maintenance,
	log *logger.Logger) (*Collection[T], error) {
	var zero T
	columns, err := meddler.Columns(&zero, true)
	if err != nil {
		return nil, fmt.Errorf("failed to read columns of %s: %w", table, err)
	}

	if maint == nil {
		maint = &db.NoOpMaintenance{}
	}

	return &Collection[T]{
		db:      database,
		table:   table,
		columns: columns,
		maint:   maint,
		log:     log,
	}, nil
}

// Name returns the table backing the collection.
func (c *Collection[T]) Name() string {
	return c.table
}

// FindOne returns the first record matching filter, or ErrNotFound.
func (c *Collection[T]) FindOne(ctx context.Context, filter Filter) (*T, error) {
	defer c.observe("find_one", time.Now())

	where, args, err := c.where(filter)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // table and columns are whitelisted
	rows, err := c.db.QueryContext(ctx, "SELECT * FROM "+c.table+where+" LIMIT 1", args...)
	if err != nil {
		metrics.DBErrorsInc(metricsDB, "query")
		return nil, fmt.Errorf("failed to query %s: %w", c.table, err)
	}

	out := new(T)
	if err := meddler.ScanRow(rows, out); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		metrics.DBErrorsInc(metricsDB, "scan")
		return nil, fmt.Errorf("failed to scan %s: %w", c.table, err)
	}

	return out, nil
}

// FindMany returns the records matching filter in the requested page.
func (c *Collection[T]) FindMany(ctx context.Context, filter Filter, page Page) ([]*T, error) {
	defer c.observe("find_many", time.Now())

	where, args, err := c.where(filter)
	if err != nil {
		return nil, err
	}

	orderBy := rowIDField
	if page.OrderBy != "" {
		if err := c.checkColumn(page.OrderBy); err != nil {
			return nil, err
		}
		orderBy = page.OrderBy
	}

	direction := "ASC"
	if page.Desc {
		direction = "DESC"
	}

	query := fmt.Sprintf("SELECT * FROM %s%s ORDER BY %s %s", c.table, where, orderBy, direction)
	if page.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, page.Limit, page.Offset)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.DBErrorsInc(metricsDB, "query")
		return nil, fmt.Errorf("failed to query %s: %w", c.table, err)
	}

	var out []*T
	if err := meddler.ScanAll(rows, &out); err != nil {
		metrics.DBErrorsInc(metricsDB, "scan")
		return nil, fmt.Errorf("failed to scan %s: %w", c.table, err)
	}

	return out, nil
}

// Count returns the number of records matching filter.
func (c *Collection[T]) Count(ctx context.Context, filter Filter) (int64, error) {
	defer c.observe("count", time.Now())

	where, args, err := c.where(filter)
	if err != nil {
		return 0, err
	}

	var n int64
	//nolint:gosec // table and columns are whitelisted
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+c.table+where, args...).Scan(&n); err != nil {
		metrics.DBErrorsInc(metricsDB, "query")
		return 0, fmt.Errorf("failed to count %s: %w", c.table, err)
	}

	return n, nil
}

// InsertOne inserts doc and sets its row id.
func (c *Collection[T]) InsertOne(ctx context.Context, doc *T) error {
	defer c.observe("insert_one", time.Now())

	return c.write(ctx, func(tx *sql.Tx) error {
		return c.insertOne(tx, doc)
	})
}

// UpdateOne applies update to the first record matching filter.
// With upsert set and no match, a record is inserted from the non-nil filter values,
// the Set columns and the SetOnInsert columns.
func (c *Collection[T]) UpdateOne(ctx context.Context, filter Filter, update Update,
	upsert bool) (UpdateResult, error) {
	defer c.observe("update_one", time.Now())

	var res UpdateResult
	err := c.write(ctx, func(tx *sql.Tx) error {
		var err error
		res, err = c.updateOne(ctx, tx, filter, update, upsert)
		return err
	})

	return res, err
}

// BulkWrite applies models in order inside a single transaction.
// Any failure rolls back the whole batch.
func (c *Collection[T]) BulkWrite(ctx context.Context, models []WriteModel) (BulkResult, error) {
	defer c.observe("bulk_write", time.Now())

	var res BulkResult
	err := c.write(ctx, func(tx *sql.Tx) error {
		res = BulkResult{}
		for i, m := range models {
			switch m := m.(type) {
			case InsertOneModel[T]:
				if err := c.insertOne(tx, m.Document); err != nil {
					return fmt.Errorf("model %d: %w", i, err)
				}
				res.Inserted++
			case UpdateOneModel:
				r, err := c.updateOne(ctx, tx, m.Filter, m.Update, m.Upsert)
				if err != nil {
					return fmt.Errorf("model %d: %w", i, err)
				}
				res.Matched += r.Matched
				res.Modified += r.Modified
				if r.Upserted {
					res.Upserted++
				}
			default:
				return fmt.Errorf("model %d: unsupported write model %T", i, m)
			}
		}
		return nil
	})

	return res, err
}

func (c *Collection[T]) insertOne(tx *sql.Tx, doc *T) error {
	if doc == nil {
		return errors.New("nil document")
	}
	return meddler.Insert(tx, c.table, doc)
}

func (c *Collection[T]) updateOne(ctx context.Context, tx *sql.Tx, filter Filter, update Update,
	upsert bool) (UpdateResult, error) {
	where, args, err := c.where(filter)
	if err != nil {
		return UpdateResult{}, err
	}

	var rowID int64
	//nolint:gosec // table and columns are whitelisted
	err = tx.QueryRowContext(ctx, "SELECT row_id FROM "+c.table+where+" LIMIT 1", args...).Scan(&rowID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if !upsert {
			return UpdateResult{}, nil
		}
		if err := c.insertFromUpdate(ctx, tx, filter, update); err != nil {
			return UpdateResult{}, err
		}
		return UpdateResult{Upserted: true}, nil
	case err != nil:
		return UpdateResult{}, err
	}

	res := UpdateResult{Matched: 1}
	if len(update.Set) == 0 {
		return res, nil
	}

	cols, vals, err := c.columnValues(update.Set)
	if err != nil {
		return res, err
	}

	assignments := make([]string, len(cols))
	changed := make([]string, len(cols))
	for i, col := range cols {
		assignments[i] = col + " = ?"
		changed[i] = col + " IS NOT ?"
	}

	// only touch the row when a value differs, so RowsAffected counts real modifications
	query := fmt.Sprintf("UPDATE %s SET %s WHERE row_id = ? AND (%s)",
		c.table, strings.Join(assignments, ", "), strings.Join(changed, " OR "))

	updateArgs := make([]any, 0, 2*len(vals)+1)
	updateArgs = append(updateArgs, vals...)
	updateArgs = append(updateArgs, rowID)
	updateArgs = append(updateArgs, vals...)

	result, err := tx.ExecContext(ctx, query, updateArgs...)
	if err != nil {
		return res, err
	}

	if res.Modified, err = result.RowsAffected(); err != nil {
		return res, err
	}

	return res, nil
}

func (c *Collection[T]) insertFromUpdate(ctx context.Context, tx *sql.Tx, filter Filter, update Update) error {
	doc := make(map[string]any, len(filter)+len(update.Set)+len(update.SetOnInsert))
	for k, v := range filter {
		if v != nil {
			doc[k] = v
		}
	}
	for k, v := range update.SetOnInsert {
		doc[k] = v
	}
	for k, v := range update.Set {
		doc[k] = v
	}

	cols, vals, err := c.columnValues(doc)
	if err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", c.table, strings.Join(cols, ", "), placeholders)

	_, err = tx.ExecContext(ctx, query, vals...)
	return err
}

// write runs fn in a transaction under the maintenance operation lock.
// Failures are reported as ErrStoreWrite.
func (c *Collection[T]) write(ctx context.Context, fn func(tx *sql.Tx) error) (err error) {
	unlock := c.maint.AcquireOperationLock()
	defer unlock()

	defer func() {
		if err != nil {
			metrics.DBErrorsInc(metricsDB, "write")
			err = fmt.Errorf("%w: %s: %w", common.ErrStoreWrite, c.table, err)
		}
	}()

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				c.log.Errorf("failed to rollback %s transaction: %v", c.table, rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (c *Collection[T]) where(filter Filter) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}

	cols := sortedKeys(filter)
	conds := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))

	for _, col := range cols {
		if err := c.checkColumn(col); err != nil {
			return "", nil, err
		}

		v := filter[col]
		if v == nil {
			conds = append(conds, col+" IS NULL")
			continue
		}

		dbv, err := toDBValue(v)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, col+" = ?")
		args = append(args, dbv)
	}

	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func (c *Collection[T]) columnValues(m map[string]any) ([]string, []any, error) {
	cols := sortedKeys(m)
	vals := make([]any, len(cols))

	for i, col := range cols {
		if col == rowIDField {
			return nil, nil, fmt.Errorf("%s.%s is assigned by the store", c.table, rowIDField)
		}
		if err := c.checkColumn(col); err != nil {
			return nil, nil, err
		}

		v, err := toDBValue(m[col])
		if err != nil {
			return nil, nil, fmt.Errorf("%s.%s: %w", c.table, col, err)
		}
		vals[i] = v
	}

	return cols, vals, nil
}

func (c *Collection[T]) checkColumn(col string) error {
	if !slices.Contains(c.columns, col) {
		return fmt.Errorf("unknown column %s.%s", c.table, col)
	}
	return nil
}

func (c *Collection[T]) observe(op string, start time.Time) {
	metrics.DBQueryInc(metricsDB, c.table+"."+op)
	metrics.DBQueryDuration(metricsDB, c.table+"."+op, time.Since(start))
}

// toDBValue encodes list values as JSON text, matching the meddler json columns.
func toDBValue(v any) (any, error) {
	switch v := v.(type) {
	case []string:
		if v == nil {
			v = []string{}
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	default:
		return v, nil
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// IsUniqueViolation reports whether err was caused by a unique key constraint.
func IsUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
