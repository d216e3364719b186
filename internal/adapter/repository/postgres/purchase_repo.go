package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gestion/internal/domain"
	"github.com/iho/gestion/internal/usecase"
)

const purchaseColumns = `id, supplier_id, status, date, reference, voided_at, created_at, updated_at`

const createPurchase = `
INSERT INTO purchases (` + purchaseColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

const getPurchaseByIDForUpdate = `SELECT ` + purchaseColumns + ` FROM purchases WHERE id = $1 FOR UPDATE`

const updatePurchaseStatus = `
UPDATE purchases
SET status = $2, voided_at = $3, updated_at = $4
WHERE id = $1
`

const listPurchasesBySupplier = `
SELECT ` + purchaseColumns + `
FROM purchases
WHERE supplier_id = $1
ORDER BY date DESC, id DESC
LIMIT $2 OFFSET $3
`

const listRecordedPurchasesBySupplier = `
SELECT ` + purchaseColumns + `
FROM purchases
WHERE supplier_id = $1 AND status = 'recorded'
ORDER BY date, id
`

// PurchaseRepository implements usecase.PurchaseRepository.
type PurchaseRepository struct {
	db dbtx
}

// NewPurchaseRepository creates a new PurchaseRepository.
func NewPurchaseRepository(pool *pgxpool.Pool) *PurchaseRepository {
	return newPurchaseRepository(pool)
}

func newPurchaseRepository(db dbtx) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// Create inserts a purchase with its lines.
func (r *PurchaseRepository) Create(ctx context.Context, tx usecase.Transaction, purchase *domain.Purchase) error {
	db := inTx(tx, r.db)

	_, err := db.Exec(ctx, createPurchase,
		purchase.ID,
		purchase.SupplierID,
		string(purchase.Status),
		purchase.Date,
		purchase.Reference,
		optionalTime(purchase.VoidedAt),
		purchase.CreatedAt,
		purchase.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return purchaseLines.insert(ctx, db, purchase.ID, purchase.Lines)
}

// GetByIDForUpdate retrieves a purchase and locks its row.
func (r *PurchaseRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Purchase, error) {
	db := inTx(tx, r.db)

	purchase, err := scanPurchase(db.QueryRow(ctx, getPurchaseByIDForUpdate, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPurchaseNotFound
		}

		return nil, err
	}

	lines, err := purchaseLines.load(ctx, db, []string{purchase.ID})
	if err != nil {
		return nil, err
	}
	purchase.Lines = lines[purchase.ID]

	return purchase, nil
}

// UpdateStatus persists a status transition.
func (r *PurchaseRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, purchase *domain.Purchase) error {
	tag, err := inTx(tx, r.db).Exec(ctx, updatePurchaseStatus,
		purchase.ID,
		string(purchase.Status),
		optionalTime(purchase.VoidedAt),
		purchase.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrPurchaseNotFound
	}

	return nil
}

// ListBySupplier lists a supplier's purchases, newest first.
func (r *PurchaseRepository) ListBySupplier(ctx context.Context, supplierID string, limit, offset int) ([]*domain.Purchase, error) {
	return r.getMany(ctx, listPurchasesBySupplier, supplierID, int32(limit), int32(offset))
}

// ListRecordedBySupplier lists every non-voided purchase of a supplier, oldest first.
func (r *PurchaseRepository) ListRecordedBySupplier(ctx context.Context, supplierID string) ([]*domain.Purchase, error) {
	return r.getMany(ctx, listRecordedPurchasesBySupplier, supplierID)
}

func (r *PurchaseRepository) getMany(ctx context.Context, query string, args ...any) ([]*domain.Purchase, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var (
		purchases []*domain.Purchase
		ids       []string
	)
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		purchases = append(purchases, purchase)
		ids = append(ids, purchase.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := purchaseLines.load(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}

	for _, purchase := range purchases {
		purchase.Lines = lines[purchase.ID]
	}

	return purchases, nil
}

func scanPurchase(row pgx.Row) (*domain.Purchase, error) {
	var (
		p      domain.Purchase
		status string
	)

	err := row.Scan(
		&p.ID,
		&p.SupplierID,
		&status,
		&p.Date,
		&p.Reference,
		&p.VoidedAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Status = domain.PurchaseStatus(status)

	return &p, nil
}
