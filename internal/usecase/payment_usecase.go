package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gestion/internal/domain"
)

// PaymentUseCase records money received from clients and paid to suppliers.
type PaymentUseCase struct {
	txManager   TransactionManager
	partyRepo   PartyRepository
	paymentRepo PaymentRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	metrics     MetricsRecorder
}

// NewPaymentUseCase creates a new PaymentUseCase.
func NewPaymentUseCase(
	txManager TransactionManager,
	partyRepo PartyRepository,
	paymentRepo PaymentRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics MetricsRecorder,
) *PaymentUseCase {
	return &PaymentUseCase{
		txManager:   txManager,
		partyRepo:   partyRepo,
		paymentRepo: paymentRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		metrics:     metricsOrNop(metrics),
	}
}

// RecordPaymentInput represents input for recording a payment.
type RecordPaymentInput struct {
	PartyID   string
	Amount    decimal.Decimal
	Date      time.Time
	Method    domain.PaymentMethod
	Reference string
}

// RecordPayment stores a payment against a client or a supplier.
func (uc *PaymentUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (*domain.Payment, error) {
	if strings.TrimSpace(input.PartyID) == "" {
		return nil, fmt.Errorf("%w: party is required", domain.ErrPartyRequired)
	}

	party, err := uc.partyRepo.GetByID(ctx, input.PartyID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	date := input.Date
	if date.IsZero() {
		date = now
	}

	method := input.Method
	if method == "" {
		method = domain.PaymentMethodTransfer
	}

	payment := &domain.Payment{
		ID:        uc.idGen.Generate(),
		PartyID:   party.ID,
		PartyKind: party.Kind,
		Amount:    input.Amount,
		Date:      date,
		Method:    method,
		Reference: strings.TrimSpace(input.Reference),
		CreatedAt: now,
	}

	if err := payment.Validate(); err != nil {
		return nil, err
	}

	err = runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		if err := uc.paymentRepo.Create(ctx, tx, payment); err != nil {
			return err
		}

		event := newOutboxEvent(uc.idGen.Generate(), domain.AggregateTypePayment, payment.ID, domain.EventTypePaymentRecorded,
			domain.PaymentRecordedEvent{
				PaymentID: payment.ID,
				PartyID:   payment.PartyID,
				PartyKind: string(payment.PartyKind),
				Amount:    payment.Amount.StringFixed(domain.MoneyPlaces),
				Method:    string(payment.Method),
			}, now)

		return uc.outboxRepo.Create(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.PaymentRecorded(payment.PartyKind)

	return payment, nil
}

// ListPaymentsInput represents input for listing payments.
type ListPaymentsInput struct {
	PartyID string
	Kind    domain.PartyKind
	Limit   int
	Offset  int
}

// ListPayments lists the payments of a party, newest first. When Kind is set
// the party must be of that kind.
func (uc *PaymentUseCase) ListPayments(ctx context.Context, input ListPaymentsInput) ([]*domain.Payment, error) {
	party, err := uc.partyRepo.GetByID(ctx, input.PartyID)
	if err != nil {
		return nil, err
	}

	switch input.Kind {
	case domain.PartyKindClient:
		err = party.RequireClient()
	case domain.PartyKindSupplier:
		err = party.RequireSupplier()
	}
	if err != nil {
		return nil, err
	}

	limit, offset, err := clampPage(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}
	return uc.paymentRepo.ListByParty(ctx, input.PartyID, limit, offset)
}
