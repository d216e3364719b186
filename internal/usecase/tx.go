package usecase

import (
	"context"
	"time"

	"github.com/iho/gestion/internal/domain"
)

// runInTx runs fn inside a transaction bounded by DefaultTransactionTimeout.
// The transaction is committed only when fn succeeds.
func runInTx(ctx context.Context, txManager TransactionManager, fn func(ctx context.Context, tx Transaction) error) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := fn(txCtx, tx); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// retry runs op through r, or once when no retrier is configured.
func retry(ctx context.Context, r Retrier, op func() error) error {
	if r == nil {
		return op()
	}
	return r.Retry(ctx, op)
}

func newOutboxEvent(id, aggregateType, aggregateID, eventType string, payload any, now time.Time) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            id,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       domain.ToPayload(payload),
		CreatedAt:     now,
		Published:     false,
	}
}
