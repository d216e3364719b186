package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/gestion/internal/domain"
)

// InvoiceUseCase handles sales invoice business logic.
type InvoiceUseCase struct {
	txManager   TransactionManager
	partyRepo   PartyRepository
	invoiceRepo InvoiceRepository
	outboxRepo  OutboxRepository
	retrier     Retrier
	idGen       IDGenerator
	metrics     MetricsRecorder
}

// NewInvoiceUseCase creates a new InvoiceUseCase.
func NewInvoiceUseCase(
	txManager TransactionManager,
	partyRepo PartyRepository,
	invoiceRepo InvoiceRepository,
	outboxRepo OutboxRepository,
	retrier Retrier,
	idGen IDGenerator,
	metrics MetricsRecorder,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txManager:   txManager,
		partyRepo:   partyRepo,
		invoiceRepo: invoiceRepo,
		outboxRepo:  outboxRepo,
		retrier:     retrier,
		idGen:       idGen,
		metrics:     metricsOrNop(metrics),
	}
}

// CreateInvoiceInput represents input for drafting an invoice.
type CreateInvoiceInput struct {
	ClientID string
	Date     time.Time
	Notes    string
	Lines    []domain.DocumentLine
}

// CreateInvoice stores a draft invoice for an existing client.
// Negative quantities and prices are raised to zero, the way the editor does.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, input CreateInvoiceInput) (*domain.Invoice, error) {
	now := time.Now().UTC()

	date := input.Date
	if date.IsZero() {
		date = now
	}

	invoice := &domain.Invoice{
		ID:        uc.idGen.Generate(),
		ClientID:  input.ClientID,
		Status:    domain.InvoiceStatusDraft,
		Date:      date,
		Notes:     strings.TrimSpace(input.Notes),
		Lines:     clampLines(input.Lines),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := invoice.Validate(); err != nil {
		return nil, err
	}

	if err := uc.requireClient(ctx, input.ClientID); err != nil {
		return nil, err
	}

	err := runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		return uc.invoiceRepo.Create(ctx, tx, invoice)
	})
	if err != nil {
		return nil, err
	}

	return invoice, nil
}

// PreviewTotals computes the totals the editor shows while lines change.
func (uc *InvoiceUseCase) PreviewTotals(lines []domain.DocumentLine) (domain.InvoiceTotals, error) {
	return domain.Aggregate(domain.MonetaryLines(clampLines(lines)))
}

// GetInvoice retrieves an invoice by ID.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return uc.invoiceRepo.GetByID(ctx, id)
}

// ListInvoicesInput represents input for listing a client's invoices.
type ListInvoicesInput struct {
	ClientID string
	Limit    int
	Offset   int
}

// ListInvoices lists the invoices of a client, newest first.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, input ListInvoicesInput) ([]*domain.Invoice, error) {
	if err := uc.requireClient(ctx, input.ClientID); err != nil {
		return nil, err
	}
	limit, offset, err := clampPage(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}
	return uc.invoiceRepo.ListByClient(ctx, input.ClientID, limit, offset)
}

// IssueInvoice moves a draft to issued so it counts towards the client balance.
func (uc *InvoiceUseCase) IssueInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	var issued *domain.Invoice

	err := retry(ctx, uc.retrier, func() error {
		return runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
			invoice, err := uc.invoiceRepo.GetByIDForUpdate(ctx, tx, id)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			if err := invoice.Issue(now); err != nil {
				return err
			}

			if err := uc.invoiceRepo.UpdateStatus(ctx, tx, invoice); err != nil {
				return err
			}

			totals, err := invoice.Totals()
			if err != nil {
				return err
			}

			event := newOutboxEvent(uc.idGen.Generate(), domain.AggregateTypeInvoice, invoice.ID, domain.EventTypeInvoiceIssued,
				domain.InvoiceIssuedEvent{
					InvoiceID: invoice.ID,
					ClientID:  invoice.ClientID,
					Net:       totals.Net.StringFixed(domain.MoneyPlaces),
					Tax:       totals.Tax.StringFixed(domain.MoneyPlaces),
					Gross:     totals.Gross.StringFixed(domain.MoneyPlaces),
					IssuedAt:  now.Format(time.RFC3339),
				}, now)
			if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
				return err
			}

			issued = invoice
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.InvoiceIssued()

	return issued, nil
}

// VoidInvoice cancels a draft or issued invoice.
func (uc *InvoiceUseCase) VoidInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	var voided *domain.Invoice

	err := retry(ctx, uc.retrier, func() error {
		return runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
			invoice, err := uc.invoiceRepo.GetByIDForUpdate(ctx, tx, id)
			if err != nil {
				return err
			}

			previous := invoice.Status
			now := time.Now().UTC()
			if err := invoice.Void(now); err != nil {
				return err
			}

			if err := uc.invoiceRepo.UpdateStatus(ctx, tx, invoice); err != nil {
				return err
			}

			event := newOutboxEvent(uc.idGen.Generate(), domain.AggregateTypeInvoice, invoice.ID, domain.EventTypeInvoiceVoided,
				domain.InvoiceVoidedEvent{
					InvoiceID:      invoice.ID,
					ClientID:       invoice.ClientID,
					PreviousStatus: string(previous),
				}, now)
			if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
				return err
			}

			voided = invoice
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.InvoiceVoided()

	return voided, nil
}

func (uc *InvoiceUseCase) requireClient(ctx context.Context, id string) error {
	party, err := uc.partyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return party.RequireClient()
}

func clampLines(lines []domain.DocumentLine) []domain.DocumentLine {
	out := make([]domain.DocumentLine, len(lines))
	for i, l := range lines {
		l.Description = strings.TrimSpace(l.Description)
		out[i] = l.Clamped()
	}
	return out
}
