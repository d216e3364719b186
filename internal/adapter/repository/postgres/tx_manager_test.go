package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"

	"github.com/iho/gestion/internal/domain"
)

func TestParseIsolationLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    pgx.TxIsoLevel
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "read committed", want: pgx.ReadCommitted},
		{in: " Repeatable Read ", want: pgx.RepeatableRead},
		{in: "SERIALIZABLE", want: pgx.Serializable},
		{in: "read uncommitted", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseIsolationLevel(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("%q: expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestTxManagerBeginUsesIsolationLevel(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.Serializable})
	mock.ExpectCommit()

	manager := newTxManager(mock, pgx.Serializable)
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit: %v", err)
	}
	// Deferred rollback after commit must not reach the database.
	if err := tx.Rollback(context.Background()); err != nil {
		t.Fatalf("rollback after commit: %v", err)
	}

	assertExpectations(t, mock)
}

func TestTxManagerBeginError(t *testing.T) {
	mock := newMockPool(t)
	beginErr := errors.New("too many connections")
	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted}).WillReturnError(beginErr)

	manager := newTxManager(mock, pgx.ReadCommitted)
	tx, err := manager.Begin(context.Background())
	if !errors.Is(err, beginErr) {
		t.Fatalf("expected begin error, got err=%v tx=%v", err, tx)
	}
}

func TestTxRollbackDiscardsWrites(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBeginTx(pgx.TxOptions{})
	mock.ExpectExec("INSERT INTO parties").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectRollback()

	manager := newTxManager(mock, "")
	tx, err := manager.Begin(context.Background())
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	repo := newPartyRepository(mock)
	party := &domain.Party{ID: "p-1", Kind: domain.PartyKindClient, Name: "Acme", CreatedAt: now, UpdatedAt: now}
	if err := repo.Create(context.Background(), tx, party); err != nil {
		t.Fatalf("create in tx: %v", err)
	}

	if err := tx.Rollback(context.Background()); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	assertExpectations(t, mock)
}

type closedTx struct{ pgx.Tx }

func (closedTx) Rollback(context.Context) error { return pgx.ErrTxClosed }

func TestTxRollbackIgnoresClosedTransaction(t *testing.T) {
	tx := &Tx{tx: closedTx{}}
	if err := tx.Rollback(context.Background()); err != nil {
		t.Fatalf("expected closed transaction to be ignored, got %v", err)
	}
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}
