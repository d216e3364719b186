package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gestion/internal/domain"
)

// AdjustmentUseCase records manual debits and credits on client accounts.
type AdjustmentUseCase struct {
	txManager      TransactionManager
	partyRepo      PartyRepository
	adjustmentRepo AdjustmentRepository
	outboxRepo     OutboxRepository
	idGen          IDGenerator
	metrics        MetricsRecorder
}

// NewAdjustmentUseCase creates a new AdjustmentUseCase.
func NewAdjustmentUseCase(
	txManager TransactionManager,
	partyRepo PartyRepository,
	adjustmentRepo AdjustmentRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	metrics MetricsRecorder,
) *AdjustmentUseCase {
	return &AdjustmentUseCase{
		txManager:      txManager,
		partyRepo:      partyRepo,
		adjustmentRepo: adjustmentRepo,
		outboxRepo:     outboxRepo,
		idGen:          idGen,
		metrics:        metricsOrNop(metrics),
	}
}

// RecordAdjustmentInput represents input for recording an adjustment.
type RecordAdjustmentInput struct {
	ClientID  string
	Amount    decimal.Decimal
	Direction domain.AdjustmentDirection
	Date      time.Time
	Reason    string
}

// RecordAdjustment stores a manual adjustment. Suppliers cannot be adjusted.
func (uc *AdjustmentUseCase) RecordAdjustment(ctx context.Context, input RecordAdjustmentInput) (*domain.Adjustment, error) {
	if strings.TrimSpace(input.ClientID) == "" {
		return nil, fmt.Errorf("%w: client is required", domain.ErrPartyRequired)
	}

	party, err := uc.partyRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if err := party.RequireClient(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	date := input.Date
	if date.IsZero() {
		date = now
	}

	adjustment := &domain.Adjustment{
		ID:        uc.idGen.Generate(),
		ClientID:  party.ID,
		Amount:    input.Amount,
		Direction: input.Direction,
		Date:      date,
		Reason:    strings.TrimSpace(input.Reason),
		CreatedAt: now,
	}

	if err := adjustment.Validate(); err != nil {
		return nil, err
	}

	err = runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		if err := uc.adjustmentRepo.Create(ctx, tx, adjustment); err != nil {
			return err
		}

		event := newOutboxEvent(uc.idGen.Generate(), domain.AggregateTypeAdjustment, adjustment.ID, domain.EventTypeAdjustmentRecorded,
			domain.AdjustmentRecordedEvent{
				AdjustmentID: adjustment.ID,
				ClientID:     adjustment.ClientID,
				Amount:       adjustment.Amount.StringFixed(domain.MoneyPlaces),
				Direction:    string(adjustment.Direction),
			}, now)

		return uc.outboxRepo.Create(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.AdjustmentRecorded(adjustment.Direction)

	return adjustment, nil
}

// ListAdjustmentsInput represents input for listing a client's adjustments.
type ListAdjustmentsInput struct {
	ClientID string
	Limit    int
	Offset   int
}

// ListAdjustments lists the adjustments of a client, newest first.
func (uc *AdjustmentUseCase) ListAdjustments(ctx context.Context, input ListAdjustmentsInput) ([]*domain.Adjustment, error) {
	party, err := uc.partyRepo.GetByID(ctx, input.ClientID)
	if err != nil {
		return nil, err
	}
	if err := party.RequireClient(); err != nil {
		return nil, err
	}

	limit, offset, err := clampPage(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}
	return uc.adjustmentRepo.ListByClient(ctx, input.ClientID, limit, offset)
}
