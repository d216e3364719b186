package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	"github.com/iho/gestion/internal/domain"
)

var purchaseCols = []string{"id", "supplier_id", "status", "date", "reference", "voided_at", "created_at", "updated_at"}

func TestPurchaseRepositoryCreate(t *testing.T) {
	mock := newMockPool(t)
	repo := newPurchaseRepository(mock)

	date := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	purchase := &domain.Purchase{
		ID:         "pur-1",
		SupplierID: "sup-1",
		Status:     domain.PurchaseStatusRecorded,
		Date:       date,
		Reference:  "A-0001-00000042",
		Lines: []domain.DocumentLine{
			{Description: "Paper", Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(12), TaxRate: domain.TaxRateGeneral},
		},
		CreatedAt: date,
		UpdatedAt: date,
	}

	mock.ExpectExec("INSERT INTO purchases ").
		WithArgs("pur-1", "sup-1", "recorded", date, "A-0001-00000042", pgxmock.AnyArg(), date, date).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO purchase_lines").
		WithArgs("pur-1", int32(1), "Paper", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), nil, purchase); err != nil {
		t.Fatalf("create: %v", err)
	}

	assertExpectations(t, mock)
}

func TestPurchaseRepositoryGetByIDForUpdateNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := newPurchaseRepository(mock)

	mock.ExpectQuery("FROM purchases WHERE id").WithArgs("pur-x").WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByIDForUpdate(context.Background(), nil, "pur-x")
	if !errors.Is(err, domain.ErrPurchaseNotFound) {
		t.Fatalf("expected ErrPurchaseNotFound, got %v", err)
	}
}

func TestPurchaseRepositoryListRecordedBySupplier(t *testing.T) {
	mock := newMockPool(t)
	repo := newPurchaseRepository(mock)

	date := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("status = 'recorded'").
		WithArgs("sup-1").
		WillReturnRows(pgxmock.NewRows(purchaseCols).
			AddRow("pur-1", "sup-1", "recorded", date, "A-1", nil, date, date))
	mock.ExpectQuery("FROM purchase_lines").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(lineCols).
			AddRow("pur-1", "Paper", "10.000", "12.0000", "21.00"))

	purchases, err := repo.ListRecordedBySupplier(context.Background(), "sup-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(purchases) != 1 || len(purchases[0].Lines) != 1 {
		t.Fatalf("unexpected purchases: %+v", purchases)
	}

	totals, err := purchases[0].Totals()
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if !totals.Gross.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected gross 120, got %s", totals.Gross)
	}

	assertExpectations(t, mock)
}

func TestPurchaseRepositoryUpdateStatus(t *testing.T) {
	mock := newMockPool(t)
	repo := newPurchaseRepository(mock)

	at := time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC)
	purchase := &domain.Purchase{ID: "pur-1", Status: domain.PurchaseStatusVoided, VoidedAt: &at, UpdatedAt: at}

	mock.ExpectExec("UPDATE purchases").
		WithArgs("pur-1", "voided", pgxmock.AnyArg(), at).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.UpdateStatus(context.Background(), nil, purchase); err != nil {
		t.Fatalf("update: %v", err)
	}

	assertExpectations(t, mock)
}
