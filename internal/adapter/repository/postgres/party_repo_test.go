package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"

	"github.com/iho/gestion/internal/domain"
)

var partyCols = []string{"id", "kind", "name", "tax_id", "email", "phone", "address", "created_at", "updated_at"}

func TestPartyRepositoryCreate(t *testing.T) {
	mock := newMockPool(t)
	repo := newPartyRepository(mock)

	now := time.Now().UTC()
	party := &domain.Party{
		ID:        "p-1",
		Kind:      domain.PartyKindClient,
		Name:      "Acme",
		TaxID:     "20123456789",
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec("INSERT INTO parties").
		WithArgs("p-1", "client", "Acme", "20123456789", "", "", "", now, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), nil, party); err != nil {
		t.Fatalf("create: %v", err)
	}

	assertExpectations(t, mock)
}

func TestPartyRepositoryGetByID(t *testing.T) {
	mock := newMockPool(t)
	repo := newPartyRepository(mock)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM parties").
		WithArgs("p-1").
		WillReturnRows(pgxmock.NewRows(partyCols).
			AddRow("p-1", "supplier", "Paper Co", "30711111112", "sales@paper.example", "", "", now, now))

	party, err := repo.GetByID(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if party.Kind != domain.PartyKindSupplier || party.Name != "Paper Co" {
		t.Fatalf("unexpected party: %+v", party)
	}

	assertExpectations(t, mock)
}

func TestPartyRepositoryGetByIDNotFound(t *testing.T) {
	mock := newMockPool(t)
	repo := newPartyRepository(mock)

	mock.ExpectQuery("FROM parties").WithArgs("nope").WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "nope")
	if !errors.Is(err, domain.ErrPartyNotFound) {
		t.Fatalf("expected ErrPartyNotFound, got %v", err)
	}
}

func TestPartyRepositoryList(t *testing.T) {
	mock := newMockPool(t)
	repo := newPartyRepository(mock)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery("WHERE kind = ").
		WithArgs("client", int32(10), int32(5)).
		WillReturnRows(pgxmock.NewRows(partyCols).
			AddRow("p-1", "client", "Acme", "", "", "", "", now, now).
			AddRow("p-2", "client", "Bolt", "", "", "", "", now, now))

	parties, err := repo.List(context.Background(), domain.PartyKindClient, 10, 5)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(parties) != 2 || parties[1].Name != "Bolt" {
		t.Fatalf("unexpected parties: %+v", parties)
	}

	assertExpectations(t, mock)
}
