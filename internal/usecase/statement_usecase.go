package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/gestion/internal/domain"
)

// StatementUseCase builds account statements for clients and suppliers.
// Statements are derived on every call and never cached.
type StatementUseCase struct {
	partyRepo      PartyRepository
	invoiceRepo    InvoiceRepository
	purchaseRepo   PurchaseRepository
	paymentRepo    PaymentRepository
	adjustmentRepo AdjustmentRepository
	metrics        MetricsRecorder
}

// NewStatementUseCase creates a new StatementUseCase.
func NewStatementUseCase(
	partyRepo PartyRepository,
	invoiceRepo InvoiceRepository,
	purchaseRepo PurchaseRepository,
	paymentRepo PaymentRepository,
	adjustmentRepo AdjustmentRepository,
	metrics MetricsRecorder,
) *StatementUseCase {
	return &StatementUseCase{
		partyRepo:      partyRepo,
		invoiceRepo:    invoiceRepo,
		purchaseRepo:   purchaseRepo,
		paymentRepo:    paymentRepo,
		adjustmentRepo: adjustmentRepo,
		metrics:        metricsOrNop(metrics),
	}
}

// AccountStatement is a party with its balance and history.
type AccountStatement struct {
	Party     *domain.Party
	Statement domain.Statement
}

// ClientStatement returns what a client owes: issued invoices minus payments,
// plus or minus adjustments.
func (uc *StatementUseCase) ClientStatement(ctx context.Context, clientID string) (*AccountStatement, error) {
	start := time.Now()

	party, err := uc.partyRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if err := party.RequireClient(); err != nil {
		return nil, err
	}

	invoices, err := uc.invoiceRepo.ListIssuedByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	charges := make([]domain.LedgerEvent, 0, len(invoices))
	for _, inv := range invoices {
		totals, err := inv.Totals()
		if err != nil {
			return nil, fmt.Errorf("invoice %s: %w", inv.ID, err)
		}
		charges = append(charges, domain.NewCharge(inv.Date, totals.Gross, "Invoice "+inv.ID, inv.ID))
	}

	settlements, err := uc.settlements(ctx, clientID)
	if err != nil {
		return nil, err
	}

	records, err := uc.adjustmentRepo.ListAllByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}

	adjustments := make([]domain.LedgerEvent, 0, len(records))
	for _, a := range records {
		adjustments = append(adjustments, domain.NewAdjustment(a.Date, a.Amount, a.Direction, a.Reason, a.ID))
	}

	stmt := domain.BuildStatement(charges, settlements, adjustments)
	uc.metrics.StatementBuilt(domain.PartyKindClient, len(stmt.Entries), time.Since(start))

	return &AccountStatement{Party: party, Statement: stmt}, nil
}

// SupplierStatement returns what is owed to a supplier: recorded purchases
// minus payments.
func (uc *StatementUseCase) SupplierStatement(ctx context.Context, supplierID string) (*AccountStatement, error) {
	start := time.Now()

	party, err := uc.partyRepo.GetByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if err := party.RequireSupplier(); err != nil {
		return nil, err
	}

	purchases, err := uc.purchaseRepo.ListRecordedBySupplier(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	charges := make([]domain.LedgerEvent, 0, len(purchases))
	for _, p := range purchases {
		totals, err := p.Totals()
		if err != nil {
			return nil, fmt.Errorf("purchase %s: %w", p.ID, err)
		}
		label := "Purchase " + p.ID
		if p.Reference != "" {
			label = "Purchase " + p.Reference
		}
		charges = append(charges, domain.NewCharge(p.Date, totals.Gross, label, p.ID))
	}

	settlements, err := uc.settlements(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	stmt := domain.BuildStatement(charges, settlements, nil)
	uc.metrics.StatementBuilt(domain.PartyKindSupplier, len(stmt.Entries), time.Since(start))

	return &AccountStatement{Party: party, Statement: stmt}, nil
}

func (uc *StatementUseCase) settlements(ctx context.Context, partyID string) ([]domain.LedgerEvent, error) {
	payments, err := uc.paymentRepo.ListAllByParty(ctx, partyID)
	if err != nil {
		return nil, err
	}

	events := make([]domain.LedgerEvent, 0, len(payments))
	for _, p := range payments {
		events = append(events, domain.NewSettlement(p.Date, p.Amount, paymentLabel(p), p.ID))
	}

	return events, nil
}

func paymentLabel(p *domain.Payment) string {
	if p.Reference != "" {
		return fmt.Sprintf("Payment (%s) %s", p.Method, p.Reference)
	}
	return fmt.Sprintf("Payment (%s)", p.Method)
}
