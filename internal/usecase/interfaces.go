package usecase

import (
	"context"
	"time"

	"github.com/iho/gestion/internal/domain"
)

// PartyRepository defines data access for clients and suppliers.
type PartyRepository interface {
	Create(ctx context.Context, tx Transaction, party *domain.Party) error
	GetByID(ctx context.Context, id string) (*domain.Party, error)
	List(ctx context.Context, kind domain.PartyKind, limit, offset int) ([]*domain.Party, error)
}

// InvoiceRepository defines data access for sales invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, tx Transaction, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Invoice, error)
	UpdateStatus(ctx context.Context, tx Transaction, invoice *domain.Invoice) error
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Invoice, error)
	// ListIssuedByClient returns every issued invoice of a client, oldest first.
	ListIssuedByClient(ctx context.Context, clientID string) ([]*domain.Invoice, error)
}

// PurchaseRepository defines data access for supplier invoices.
type PurchaseRepository interface {
	Create(ctx context.Context, tx Transaction, purchase *domain.Purchase) error
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Purchase, error)
	UpdateStatus(ctx context.Context, tx Transaction, purchase *domain.Purchase) error
	ListBySupplier(ctx context.Context, supplierID string, limit, offset int) ([]*domain.Purchase, error)
	// ListRecordedBySupplier returns every non-voided purchase of a supplier, oldest first.
	ListRecordedBySupplier(ctx context.Context, supplierID string) ([]*domain.Purchase, error)
}

// PaymentRepository defines data access for payments.
type PaymentRepository interface {
	Create(ctx context.Context, tx Transaction, payment *domain.Payment) error
	ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.Payment, error)
	// ListAllByParty returns every payment of a party, oldest first.
	ListAllByParty(ctx context.Context, partyID string) ([]*domain.Payment, error)
}

// AdjustmentRepository defines data access for manual client adjustments.
type AdjustmentRepository interface {
	Create(ctx context.Context, tx Transaction, adjustment *domain.Adjustment) error
	ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Adjustment, error)
	// ListAllByClient returns every adjustment of a client, oldest first.
	ListAllByClient(ctx context.Context, clientID string) ([]*domain.Adjustment, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key so that the request can be retried.
	Release(ctx context.Context, key string) error
}

// MetricsRecorder receives business counters from the use cases.
type MetricsRecorder interface {
	InvoiceIssued()
	InvoiceVoided()
	PurchaseRecorded()
	PaymentRecorded(kind domain.PartyKind)
	AdjustmentRecorded(direction domain.AdjustmentDirection)
	StatementBuilt(kind domain.PartyKind, entries int, duration time.Duration)
}
