package trackable

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/mickamy/trackable/internal/buffer"
	"github.com/mickamy/trackable/internal/query"
)

// Placeholder selects the bind parameter syntax used in generated statements.
type Placeholder = query.Placeholder

const (
	Dollar   = query.Dollar   // $1, $2 (PostgreSQL)
	Question = query.Question // ?, ? (SQLite, MySQL)
)

// Config defines the persistence options of a Handler.
type Config struct {
	KeyColumn   string      // primary key column matched against Identifier() (default: "id")
	Placeholder Placeholder // default: Dollar
	Logger      *zap.Logger // default: zap.NewNop()
}

// Handler writes the dirty subset of tracked models back to their tables.
type Handler struct {
	cfg Config
}

// New creates a new Handler instance with sensible defaults.
func New(cfg Config) *Handler {
	if cfg.KeyColumn == "" {
		cfg.KeyColumn = "id"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Handler{cfg: cfg}
}

// DB wraps a *sql.DB instance to persist tracked models in transactions.
type DB struct {
	*sql.DB
	h *Handler
}

// WrapDB attaches the handler to a *sql.DB connection.
func (h *Handler) WrapDB(db *sql.DB) *DB {
	return &DB{DB: db, h: h}
}

// record is a model buffered for flush.
type record struct {
	table   string
	model   Tracker
	changes func() map[string]any
}

// Tx wraps a *sql.Tx and buffers tracked models within the transaction.
type Tx struct {
	*sql.Tx
	h   *Handler
	buf *buffer.Buffer[Tracker, record]
	ctx context.Context
}

// BeginTx starts a wrapped transaction.
func (db *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Tx, error) {
	t, err := db.DB.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &Tx{Tx: t, h: db.h, buf: buffer.NewBuffer[Tracker, record](), ctx: ctx}, nil
}

// Track buffers m so that Commit writes its dirty attributes to the table of
// t. Tracking the same instance twice is a no-op.
func Track[M any](tx *Tx, t *Type[M], m *M) {
	tr := any(m).(Tracker)
	tx.buf.Add(tr, record{
		table:   t.TableName(),
		model:   tr,
		changes: func() map[string]any { return t.Changes(m) },
	})
}

// Commit writes one UPDATE per dirty tracked model, commits, and then marks
// the flushed models clean. On error nothing is marked clean.
func (tx *Tx) Commit() error {
	flushed, err := tx.flush()
	if err != nil {
		return err
	}
	if err := tx.Tx.Commit(); err != nil {
		return err
	}
	if extractSkipClean(tx.ctx) {
		return nil
	}
	for _, r := range flushed {
		r.model.MarkClean()
	}
	return nil
}

// flush writes the dirty subset of every buffered model within the transaction.
func (tx *Tx) flush() ([]record, error) {
	rs := tx.buf.Drain()
	if len(rs) == 0 {
		return nil, nil
	}

	flushed := make([]record, 0, len(rs))
	for _, r := range rs {
		changes := r.changes()
		if len(changes) == 0 {
			continue
		}
		cols := make([]string, 0, len(changes))
		for c := range changes {
			cols = append(cols, c)
		}
		slices.Sort(cols)

		args := make([]any, 0, len(cols)+1)
		for _, c := range cols {
			v, err := bindValue(changes[c])
			if err != nil {
				return nil, fmt.Errorf("trackable: failed to marshal %s.%s: %w", r.table, c, err)
			}
			args = append(args, v)
		}
		args = append(args, r.model.Identifier())

		stmt := query.Update(r.table, cols, tx.h.cfg.KeyColumn, tx.h.cfg.Placeholder)
		if stmt == "" {
			return nil, fmt.Errorf("trackable: invalid table identifier %q", r.table)
		}
		res, err := tx.Tx.ExecContext(tx.ctx, stmt, args...)
		if err != nil {
			return nil, fmt.Errorf("trackable: failed to update %s: %w", r.table, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			tx.h.cfg.Logger.Warn("update matched no rows",
				zap.String("table", r.table),
				zap.String("id", r.model.Identifier()),
			)
		}
		tx.h.cfg.Logger.Debug("flushed dirty attributes",
			zap.String("table", r.table),
			zap.String("id", r.model.Identifier()),
			zap.Strings("attributes", cols),
		)
		flushed = append(flushed, r)
	}
	return flushed, nil
}

// Rollback drops buffered models and rolls back the transaction.
// The models keep their dirty state.
func (tx *Tx) Rollback() error {
	tx.buf.Reset()
	return tx.Tx.Rollback()
}
