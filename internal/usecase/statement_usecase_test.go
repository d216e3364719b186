package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/gestion/internal/domain"
	"github.com/iho/gestion/internal/usecase"
	"github.com/iho/gestion/internal/usecase/mocks"
)

type statementFixture struct {
	parties     *mocks.MockPartyRepository
	invoices    *mocks.MockInvoiceRepository
	purchases   *mocks.MockPurchaseRepository
	payments    *mocks.MockPaymentRepository
	adjustments *mocks.MockAdjustmentRepository
	metrics     *mocks.MockMetrics
	uc          *usecase.StatementUseCase
}

func newStatementFixture(t *testing.T) *statementFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &statementFixture{
		parties:     mocks.NewMockPartyRepository(ctrl),
		invoices:    mocks.NewMockInvoiceRepository(ctrl),
		purchases:   mocks.NewMockPurchaseRepository(ctrl),
		payments:    mocks.NewMockPaymentRepository(ctrl),
		adjustments: mocks.NewMockAdjustmentRepository(ctrl),
		metrics:     mocks.NewMockMetrics(),
	}
	f.uc = usecase.NewStatementUseCase(f.parties, f.invoices, f.purchases, f.payments, f.adjustments, f.metrics)

	return f
}

func on(day int) time.Time {
	return time.Date(2024, 1, day, 0, 0, 0, 0, time.UTC)
}

func TestStatementUseCase_ClientStatement(t *testing.T) {
	f := newStatementFixture(t)

	f.parties.EXPECT().GetByID(gomock.Any(), "c-1").Return(&domain.Party{ID: "c-1", Kind: domain.PartyKindClient}, nil)
	f.invoices.EXPECT().ListIssuedByClient(gomock.Any(), "c-1").Return([]*domain.Invoice{
		{
			ID:     "inv-1",
			Status: domain.InvoiceStatusIssued,
			Date:   on(10),
			Lines: []domain.DocumentLine{
				docLine("Service", 5, 121, domain.TaxRateGeneral),
				docLine("Books", 1, 395, domain.TaxRateExempt),
			},
		},
	}, nil)
	f.payments.EXPECT().ListAllByParty(gomock.Any(), "c-1").Return([]*domain.Payment{
		{ID: "pay-1", Amount: decimal.NewFromInt(400), Date: on(15), Method: domain.PaymentMethodCash},
	}, nil)
	f.adjustments.EXPECT().ListAllByClient(gomock.Any(), "c-1").Return([]*domain.Adjustment{
		{ID: "adj-1", Amount: decimal.NewFromInt(50), Direction: domain.DirectionDebit, Date: on(5), Reason: "Late fee"},
	}, nil)

	result, err := f.uc.ClientStatement(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stmt := result.Statement
	if stmt.Balance.StringFixed(2) != "650.00" {
		t.Fatalf("expected balance 650.00, got %s", stmt.Balance)
	}
	if len(stmt.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(stmt.Entries))
	}

	want := []struct {
		source  string
		kind    domain.EntryKind
		balance string
	}{
		{"pay-1", domain.EntryKindSettlement, "650.00"},
		{"inv-1", domain.EntryKindCharge, "1050.00"},
		{"adj-1", domain.EntryKindAdjustment, "50.00"},
	}
	for i, w := range want {
		e := stmt.Entries[i]
		if e.SourceID != w.source || e.Kind != w.kind || e.Balance.StringFixed(2) != w.balance {
			t.Errorf("entry %d: want %s/%s/%s, got %s/%s/%s", i, w.source, w.kind, w.balance, e.SourceID, e.Kind, e.Balance.StringFixed(2))
		}
	}

	if stmt.Entries[1].Label != "Invoice inv-1" {
		t.Errorf("unexpected invoice label %q", stmt.Entries[1].Label)
	}
	if f.metrics.Statements[domain.PartyKindClient] != 1 {
		t.Error("expected client statement metric")
	}
}

func TestStatementUseCase_SupplierStatement(t *testing.T) {
	f := newStatementFixture(t)

	f.parties.EXPECT().GetByID(gomock.Any(), "s-1").Return(&domain.Party{ID: "s-1", Kind: domain.PartyKindSupplier}, nil)
	f.purchases.EXPECT().ListRecordedBySupplier(gomock.Any(), "s-1").Return([]*domain.Purchase{
		{ID: "p-1", Reference: "A-0001", Date: on(1), Lines: []domain.DocumentLine{docLine("Paper", 1, 500, domain.TaxRateExempt)}},
		{ID: "p-2", Date: on(5), Lines: []domain.DocumentLine{docLine("Ink", 1, 700, domain.TaxRateGeneral)}},
	}, nil)
	f.payments.EXPECT().ListAllByParty(gomock.Any(), "s-1").Return([]*domain.Payment{
		{ID: "pay-1", Amount: decimal.NewFromInt(600), Date: on(3), Method: domain.PaymentMethodTransfer, Reference: "TRX-9"},
	}, nil)

	result, err := f.uc.SupplierStatement(context.Background(), "s-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stmt := result.Statement
	if stmt.Balance.StringFixed(2) != "600.00" {
		t.Fatalf("expected balance 600.00, got %s", stmt.Balance)
	}

	balances := []string{"600.00", "-100.00", "500.00"}
	for i, b := range balances {
		if got := stmt.Entries[i].Balance.StringFixed(2); got != b {
			t.Errorf("entry %d: expected balance %s, got %s", i, b, got)
		}
	}

	if stmt.Entries[2].Label != "Purchase A-0001" {
		t.Errorf("unexpected purchase label %q", stmt.Entries[2].Label)
	}
	if stmt.Entries[1].Label != "Payment (transfer) TRX-9" {
		t.Errorf("unexpected payment label %q", stmt.Entries[1].Label)
	}
}

func TestStatementUseCase_NoMovements(t *testing.T) {
	f := newStatementFixture(t)

	f.parties.EXPECT().GetByID(gomock.Any(), "c-1").Return(&domain.Party{ID: "c-1", Kind: domain.PartyKindClient}, nil)
	f.invoices.EXPECT().ListIssuedByClient(gomock.Any(), "c-1").Return(nil, nil)
	f.payments.EXPECT().ListAllByParty(gomock.Any(), "c-1").Return(nil, nil)
	f.adjustments.EXPECT().ListAllByClient(gomock.Any(), "c-1").Return(nil, nil)

	result, err := f.uc.ClientStatement(context.Background(), "c-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Statement.IsEmpty() || !result.Statement.Balance.IsZero() {
		t.Fatalf("expected empty statement, got %+v", result.Statement)
	}
}

func TestStatementUseCase_WrongKind(t *testing.T) {
	f := newStatementFixture(t)

	f.parties.EXPECT().GetByID(gomock.Any(), "c-1").Return(&domain.Party{ID: "c-1", Kind: domain.PartyKindClient}, nil)

	if _, err := f.uc.SupplierStatement(context.Background(), "c-1"); !errors.Is(err, domain.ErrNotASupplier) {
		t.Fatalf("expected ErrNotASupplier, got %v", err)
	}
}

func TestStatementUseCase_RepositoryError(t *testing.T) {
	f := newStatementFixture(t)
	boom := errors.New("connection reset")

	f.parties.EXPECT().GetByID(gomock.Any(), "c-1").Return(&domain.Party{ID: "c-1", Kind: domain.PartyKindClient}, nil)
	f.invoices.EXPECT().ListIssuedByClient(gomock.Any(), "c-1").Return(nil, boom)

	if _, err := f.uc.ClientStatement(context.Background(), "c-1"); !errors.Is(err, boom) {
		t.Fatalf("expected repository error, got %v", err)
	}
	if f.metrics.Statements[domain.PartyKindClient] != 0 {
		t.Error("expected no metric on failure")
	}
}
