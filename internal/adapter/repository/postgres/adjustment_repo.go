package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gestion/internal/domain"
	"github.com/iho/gestion/internal/usecase"
)

const adjustmentColumns = `id, client_id, amount, direction, date, reason, created_at`

const createAdjustment = `
INSERT INTO adjustments (` + adjustmentColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`

const listAdjustmentsByClient = `
SELECT ` + adjustmentColumns + `
FROM adjustments
WHERE client_id = $1
ORDER BY date DESC, id DESC
LIMIT $2 OFFSET $3
`

const listAllAdjustmentsByClient = `
SELECT ` + adjustmentColumns + `
FROM adjustments
WHERE client_id = $1
ORDER BY date, id
`

// AdjustmentRepository implements usecase.AdjustmentRepository.
type AdjustmentRepository struct {
	db dbtx
}

// NewAdjustmentRepository creates a new AdjustmentRepository.
func NewAdjustmentRepository(pool *pgxpool.Pool) *AdjustmentRepository {
	return newAdjustmentRepository(pool)
}

func newAdjustmentRepository(db dbtx) *AdjustmentRepository {
	return &AdjustmentRepository{db: db}
}

// Create inserts an adjustment.
func (r *AdjustmentRepository) Create(ctx context.Context, tx usecase.Transaction, adj *domain.Adjustment) error {
	_, err := inTx(tx, r.db).Exec(ctx, createAdjustment,
		adj.ID,
		adj.ClientID,
		decimalToNumeric(adj.Amount),
		string(adj.Direction),
		adj.Date,
		adj.Reason,
		adj.CreatedAt,
	)

	return err
}

// ListByClient lists a client's adjustments, newest first.
func (r *AdjustmentRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Adjustment, error) {
	return r.list(ctx, listAdjustmentsByClient, clientID, int32(limit), int32(offset))
}

// ListAllByClient lists every adjustment of a client, oldest first.
func (r *AdjustmentRepository) ListAllByClient(ctx context.Context, clientID string) ([]*domain.Adjustment, error) {
	return r.list(ctx, listAllAdjustmentsByClient, clientID)
}

func (r *AdjustmentRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Adjustment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var adjustments []*domain.Adjustment
	for rows.Next() {
		var (
			a         domain.Adjustment
			amount    pgtype.Numeric
			direction string
		)

		if err := rows.Scan(&a.ID, &a.ClientID, &amount, &direction, &a.Date, &a.Reason, &a.CreatedAt); err != nil {
			return nil, err
		}

		a.Amount = numericToDecimal(amount)
		a.Direction = domain.AdjustmentDirection(direction)
		adjustments = append(adjustments, &a)
	}

	return adjustments, rows.Err()
}
