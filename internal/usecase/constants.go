package usecase

import (
	"fmt"
	"time"

	"github.com/iho/gestion/internal/domain"
)

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultPartyCacheTTL applies when the party use case is built without a TTL.
	DefaultPartyCacheTTL = 10 * time.Minute

	defaultPageSize = 20
	maxPageSize     = 100
)

// clampPage applies the default and maximum page size. A negative offset is
// rejected rather than reset.
func clampPage(limit, offset int) (int, int, error) {
	if offset < 0 {
		return 0, 0, fmt.Errorf("%w: offset must not be negative, got %d", domain.ErrInvalidArgument, offset)
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return limit, offset, nil
}

// NopMetrics discards every measurement.
type NopMetrics struct{}

func (NopMetrics) InvoiceIssued()                                      {}
func (NopMetrics) InvoiceVoided()                                      {}
func (NopMetrics) PurchaseRecorded()                                   {}
func (NopMetrics) PaymentRecorded(domain.PartyKind)                    {}
func (NopMetrics) AdjustmentRecorded(domain.AdjustmentDirection)       {}
func (NopMetrics) StatementBuilt(domain.PartyKind, int, time.Duration) {}

func metricsOrNop(m MetricsRecorder) MetricsRecorder {
	if m == nil {
		return NopMetrics{}
	}
	return m
}
