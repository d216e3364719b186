package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/gestion/internal/domain"
	"github.com/iho/gestion/internal/usecase"
	"github.com/iho/gestion/internal/usecase/mocks"
)

func TestAdjustmentUseCase_RecordAdjustment(t *testing.T) {
	tests := []struct {
		name        string
		kind        domain.PartyKind
		input       usecase.RecordAdjustmentInput
		expectError error
	}{
		{
			name:  "credit note",
			kind:  domain.PartyKindClient,
			input: usecase.RecordAdjustmentInput{ClientID: "c-1", Amount: decimal.NewFromInt(25), Direction: domain.DirectionCredit, Reason: "Discount"},
		},
		{
			name:        "supplier cannot be adjusted",
			kind:        domain.PartyKindSupplier,
			input:       usecase.RecordAdjustmentInput{ClientID: "c-1", Amount: decimal.NewFromInt(25), Direction: domain.DirectionDebit, Reason: "Fee"},
			expectError: domain.ErrNotAClient,
		},
		{
			name:        "missing direction",
			kind:        domain.PartyKindClient,
			input:       usecase.RecordAdjustmentInput{ClientID: "c-1", Amount: decimal.NewFromInt(25), Reason: "Fee"},
			expectError: domain.ErrInvalidDirection,
		},
		{
			name:        "missing reason",
			kind:        domain.PartyKindClient,
			input:       usecase.RecordAdjustmentInput{ClientID: "c-1", Amount: decimal.NewFromInt(25), Direction: domain.DirectionDebit},
			expectError: domain.ErrInvalidName,
		},
		{
			name:        "sub-cent amount",
			kind:        domain.PartyKindClient,
			input:       usecase.RecordAdjustmentInput{ClientID: "c-1", Amount: decimal.RequireFromString("0.125"), Direction: domain.DirectionDebit, Reason: "Fee"},
			expectError: domain.ErrTooPrecise,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			parties := mocks.NewMockPartyRepository(ctrl)
			adjustments := mocks.NewMockAdjustmentRepository(ctrl)
			outbox := mocks.NewMockOutboxRepository(ctrl)
			metrics := mocks.NewMockMetrics()

			parties.EXPECT().GetByID(gomock.Any(), "c-1").Return(&domain.Party{ID: "c-1", Kind: tt.kind}, nil)
			if tt.expectError == nil {
				adjustments.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				outbox.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, _ usecase.Transaction, e *domain.OutboxEvent) error {
						if e.Payload["direction"] != string(tt.input.Direction) {
							t.Errorf("unexpected payload %v", e.Payload)
						}
						return nil
					})
			}

			uc := usecase.NewAdjustmentUseCase(mocks.NewMockTransactionManager(), parties, adjustments, outbox, mocks.NewMockIDGenerator(), metrics)

			adj, err := uc.RecordAdjustment(context.Background(), tt.input)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected %v, got %v", tt.expectError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if adj.Direction != tt.input.Direction {
				t.Errorf("expected direction %s, got %s", tt.input.Direction, adj.Direction)
			}
			if metrics.Adjustments[tt.input.Direction] != 1 {
				t.Error("expected adjustment metric")
			}
		})
	}
}

func TestAdjustmentUseCase_RecordAdjustment_MissingClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	parties := mocks.NewMockPartyRepository(ctrl)

	uc := usecase.NewAdjustmentUseCase(mocks.NewMockTransactionManager(), parties, nil, nil, mocks.NewMockIDGenerator(), nil)

	_, err := uc.RecordAdjustment(context.Background(), usecase.RecordAdjustmentInput{Amount: decimal.NewFromInt(5), Direction: domain.DirectionDebit, Reason: "Fee"})
	if !errors.Is(err, domain.ErrPartyRequired) || errors.Is(err, domain.ErrPartyNotFound) {
		t.Fatalf("expected ErrPartyRequired, got %v", err)
	}
}

func TestAdjustmentUseCase_ListAdjustments(t *testing.T) {
	ctrl := gomock.NewController(t)
	parties := mocks.NewMockPartyRepository(ctrl)
	adjustments := mocks.NewMockAdjustmentRepository(ctrl)

	parties.EXPECT().GetByID(gomock.Any(), "c-1").Return(&domain.Party{ID: "c-1", Kind: domain.PartyKindClient}, nil)
	adjustments.EXPECT().ListByClient(gomock.Any(), "c-1", 100, 10).Return([]*domain.Adjustment{}, nil)

	uc := usecase.NewAdjustmentUseCase(mocks.NewMockTransactionManager(), parties, adjustments, nil, mocks.NewMockIDGenerator(), nil)

	if _, err := uc.ListAdjustments(context.Background(), usecase.ListAdjustmentsInput{ClientID: "c-1", Limit: 1000, Offset: 10}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
