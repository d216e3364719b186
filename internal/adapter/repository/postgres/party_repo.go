package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gestion/internal/domain"
	"github.com/iho/gestion/internal/usecase"
)

const createParty = `
INSERT INTO parties (id, kind, name, tax_id, email, phone, address, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

const getPartyByID = `
SELECT id, kind, name, tax_id, email, phone, address, created_at, updated_at
FROM parties
WHERE id = $1
`

const listPartiesByKind = `
SELECT id, kind, name, tax_id, email, phone, address, created_at, updated_at
FROM parties
WHERE kind = $1
ORDER BY name, id
LIMIT $2 OFFSET $3
`

// PartyRepository implements usecase.PartyRepository.
type PartyRepository struct {
	db dbtx
}

// NewPartyRepository creates a new PartyRepository.
func NewPartyRepository(pool *pgxpool.Pool) *PartyRepository {
	return newPartyRepository(pool)
}

func newPartyRepository(db dbtx) *PartyRepository {
	return &PartyRepository{db: db}
}

// Create inserts a new party.
func (r *PartyRepository) Create(ctx context.Context, tx usecase.Transaction, party *domain.Party) error {
	_, err := inTx(tx, r.db).Exec(ctx, createParty,
		party.ID,
		string(party.Kind),
		party.Name,
		party.TaxID,
		party.Email,
		party.Phone,
		party.Address,
		party.CreatedAt,
		party.UpdatedAt,
	)

	return err
}

// GetByID retrieves a party by ID.
func (r *PartyRepository) GetByID(ctx context.Context, id string) (*domain.Party, error) {
	party, err := scanParty(r.db.QueryRow(ctx, getPartyByID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPartyNotFound
		}

		return nil, err
	}

	return party, nil
}

// List lists parties of one kind ordered by name.
func (r *PartyRepository) List(ctx context.Context, kind domain.PartyKind, limit, offset int) ([]*domain.Party, error) {
	rows, err := r.db.Query(ctx, listPartiesByKind, string(kind), int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parties := make([]*domain.Party, 0, limit)
	for rows.Next() {
		party, err := scanParty(rows)
		if err != nil {
			return nil, err
		}
		parties = append(parties, party)
	}

	return parties, rows.Err()
}

func scanParty(row pgx.Row) (*domain.Party, error) {
	var (
		p    domain.Party
		kind string
	)

	err := row.Scan(
		&p.ID,
		&kind,
		&p.Name,
		&p.TaxID,
		&p.Email,
		&p.Phone,
		&p.Address,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Kind = domain.PartyKind(kind)

	return &p, nil
}
