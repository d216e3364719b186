package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/iho/gestion/internal/domain"
)

// PurchaseUseCase records supplier invoices.
type PurchaseUseCase struct {
	txManager    TransactionManager
	partyRepo    PartyRepository
	purchaseRepo PurchaseRepository
	outboxRepo   OutboxRepository
	retrier      Retrier
	idGen        IDGenerator
	metrics      MetricsRecorder
}

// NewPurchaseUseCase creates a new PurchaseUseCase.
func NewPurchaseUseCase(
	txManager TransactionManager,
	partyRepo PartyRepository,
	purchaseRepo PurchaseRepository,
	outboxRepo OutboxRepository,
	retrier Retrier,
	idGen IDGenerator,
	metrics MetricsRecorder,
) *PurchaseUseCase {
	return &PurchaseUseCase{
		txManager:    txManager,
		partyRepo:    partyRepo,
		purchaseRepo: purchaseRepo,
		outboxRepo:   outboxRepo,
		retrier:      retrier,
		idGen:        idGen,
		metrics:      metricsOrNop(metrics),
	}
}

// RecordPurchaseInput represents input for recording a supplier invoice.
type RecordPurchaseInput struct {
	SupplierID string
	Date       time.Time
	Reference  string
	Lines      []domain.DocumentLine
}

// RecordPurchase stores a supplier invoice; it counts towards the supplier balance at once.
func (uc *PurchaseUseCase) RecordPurchase(ctx context.Context, input RecordPurchaseInput) (*domain.Purchase, error) {
	now := time.Now().UTC()

	date := input.Date
	if date.IsZero() {
		date = now
	}

	purchase := &domain.Purchase{
		ID:         uc.idGen.Generate(),
		SupplierID: input.SupplierID,
		Status:     domain.PurchaseStatusRecorded,
		Date:       date,
		Reference:  strings.TrimSpace(input.Reference),
		Lines:      clampLines(input.Lines),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := purchase.Validate(); err != nil {
		return nil, err
	}

	if err := uc.requireSupplier(ctx, input.SupplierID); err != nil {
		return nil, err
	}

	totals, err := purchase.Totals()
	if err != nil {
		return nil, err
	}

	err = runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		if err := uc.purchaseRepo.Create(ctx, tx, purchase); err != nil {
			return err
		}

		event := newOutboxEvent(uc.idGen.Generate(), domain.AggregateTypePurchase, purchase.ID, domain.EventTypePurchaseRecorded,
			domain.PurchaseRecordedEvent{
				PurchaseID: purchase.ID,
				SupplierID: purchase.SupplierID,
				Gross:      totals.Gross.StringFixed(domain.MoneyPlaces),
			}, now)

		return uc.outboxRepo.Create(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.PurchaseRecorded()

	return purchase, nil
}

// VoidPurchase cancels a recorded purchase.
func (uc *PurchaseUseCase) VoidPurchase(ctx context.Context, id string) (*domain.Purchase, error) {
	var voided *domain.Purchase

	err := retry(ctx, uc.retrier, func() error {
		return runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
			purchase, err := uc.purchaseRepo.GetByIDForUpdate(ctx, tx, id)
			if err != nil {
				return err
			}

			now := time.Now().UTC()
			if err := purchase.Void(now); err != nil {
				return err
			}

			if err := uc.purchaseRepo.UpdateStatus(ctx, tx, purchase); err != nil {
				return err
			}

			event := newOutboxEvent(uc.idGen.Generate(), domain.AggregateTypePurchase, purchase.ID, domain.EventTypePurchaseVoided,
				domain.PurchaseRecordedEvent{PurchaseID: purchase.ID, SupplierID: purchase.SupplierID}, now)
			if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
				return err
			}

			voided = purchase
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return voided, nil
}

// ListPurchasesInput represents input for listing a supplier's purchases.
type ListPurchasesInput struct {
	SupplierID string
	Limit      int
	Offset     int
}

// ListPurchases lists the purchases of a supplier, newest first.
func (uc *PurchaseUseCase) ListPurchases(ctx context.Context, input ListPurchasesInput) ([]*domain.Purchase, error) {
	if err := uc.requireSupplier(ctx, input.SupplierID); err != nil {
		return nil, err
	}
	limit, offset, err := clampPage(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}
	return uc.purchaseRepo.ListBySupplier(ctx, input.SupplierID, limit, offset)
}

func (uc *PurchaseUseCase) requireSupplier(ctx context.Context, id string) error {
	party, err := uc.partyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return party.RequireSupplier()
}
