package mocks

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/iho/gestion/internal/domain"
	"github.com/iho/gestion/internal/usecase"
)

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	mu    sync.Mutex
	Begun []*MockTransaction
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTransaction{}
	m.mu.Lock()
	m.Begun = append(m.Begun, tx)
	m.mu.Unlock()
	return tx, nil
}

// Committed counts the transactions that reached Commit.
func (m *MockTransactionManager) Committed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, tx := range m.Begun {
		if tx.Committed {
			n++
		}
	}
	return n
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + strconv.Itoa(m.counter)
}

// MockRetrier is a mock implementation of Retrier.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
	Attempts  int
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	m.Attempts++
	return operation()
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
	ReleaseFunc     func(ctx context.Context, key string) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	if m.ReleaseFunc != nil {
		return m.ReleaseFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockMetrics counts what the use cases report.
type MockMetrics struct {
	mu sync.Mutex

	Issued      int
	Voided      int
	Purchases   int
	Payments    map[domain.PartyKind]int
	Adjustments map[domain.AdjustmentDirection]int
	Statements  map[domain.PartyKind]int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Payments:    make(map[domain.PartyKind]int),
		Adjustments: make(map[domain.AdjustmentDirection]int),
		Statements:  make(map[domain.PartyKind]int),
	}
}

func (m *MockMetrics) InvoiceIssued() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Issued++
}

func (m *MockMetrics) InvoiceVoided() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Voided++
}

func (m *MockMetrics) PurchaseRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Purchases++
}

func (m *MockMetrics) PaymentRecorded(kind domain.PartyKind) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Payments[kind]++
}

func (m *MockMetrics) AdjustmentRecorded(direction domain.AdjustmentDirection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Adjustments[direction]++
}

func (m *MockMetrics) StatementBuilt(kind domain.PartyKind, _ int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Statements[kind]++
}
