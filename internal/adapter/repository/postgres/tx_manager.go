package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gestion/internal/usecase"
)

type txBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// TxManager implements usecase.TransactionManager. Every transaction it opens
// uses the same isolation level.
type TxManager struct {
	pool txBeginner
	opts pgx.TxOptions
}

// NewTxManager creates a TxManager running transactions at the given
// isolation level ("read committed", "repeatable read" or "serializable").
// An empty level keeps the server default.
func NewTxManager(pool *pgxpool.Pool, isolation string) (*TxManager, error) {
	level, err := ParseIsolationLevel(isolation)
	if err != nil {
		return nil, err
	}
	return newTxManager(pool, level), nil
}

func newTxManager(pool txBeginner, level pgx.TxIsoLevel) *TxManager {
	return &TxManager{pool: pool, opts: pgx.TxOptions{IsoLevel: level}}
}

// ParseIsolationLevel maps a configuration value to a pgx isolation level.
func ParseIsolationLevel(s string) (pgx.TxIsoLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "read committed":
		return pgx.ReadCommitted, nil
	case "repeatable read":
		return pgx.RepeatableRead, nil
	case "serializable":
		return pgx.Serializable, nil
	default:
		return "", fmt.Errorf("unsupported transaction isolation level %q", s)
	}
}

// Begin starts a transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx, err := m.pool.BeginTx(ctx, m.opts)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	return &Tx{tx: tx}, nil
}

// Tx wraps a pgx transaction. Rollback after a successful Commit is a no-op,
// so callers can defer it unconditionally.
type Tx struct {
	tx        pgx.Tx
	committed bool
}

func (t *Tx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return err
	}
	t.committed = true
	return nil
}

func (t *Tx) Rollback(ctx context.Context) error {
	if t.committed {
		return nil
	}
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

// PgxTx returns the underlying pgx.Tx for repositories.
func (t *Tx) PgxTx() pgx.Tx {
	return t.tx
}
