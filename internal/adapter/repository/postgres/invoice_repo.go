package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gestion/internal/domain"
	"github.com/iho/gestion/internal/usecase"
)

const invoiceColumns = `id, client_id, status, date, notes, issued_at, voided_at, created_at, updated_at`

const createInvoice = `
INSERT INTO invoices (` + invoiceColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

const getInvoiceByID = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`

const getInvoiceByIDForUpdate = `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1 FOR UPDATE`

const updateInvoiceStatus = `
UPDATE invoices
SET status = $2, issued_at = $3, voided_at = $4, updated_at = $5
WHERE id = $1
`

const listInvoicesByClient = `
SELECT ` + invoiceColumns + `
FROM invoices
WHERE client_id = $1
ORDER BY date DESC, id DESC
LIMIT $2 OFFSET $3
`

const listIssuedInvoicesByClient = `
SELECT ` + invoiceColumns + `
FROM invoices
WHERE client_id = $1 AND status = 'issued'
ORDER BY date, id
`

// InvoiceRepository implements usecase.InvoiceRepository.
type InvoiceRepository struct {
	db dbtx
}

// NewInvoiceRepository creates a new InvoiceRepository.
func NewInvoiceRepository(pool *pgxpool.Pool) *InvoiceRepository {
	return newInvoiceRepository(pool)
}

func newInvoiceRepository(db dbtx) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create inserts an invoice with its lines.
func (r *InvoiceRepository) Create(ctx context.Context, tx usecase.Transaction, invoice *domain.Invoice) error {
	db := inTx(tx, r.db)

	_, err := db.Exec(ctx, createInvoice,
		invoice.ID,
		invoice.ClientID,
		string(invoice.Status),
		invoice.Date,
		invoice.Notes,
		optionalTime(invoice.IssuedAt),
		optionalTime(invoice.VoidedAt),
		invoice.CreatedAt,
		invoice.UpdatedAt,
	)
	if err != nil {
		return err
	}

	return invoiceLines.insert(ctx, db, invoice.ID, invoice.Lines)
}

// GetByID retrieves an invoice with its lines.
func (r *InvoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	return r.getOne(ctx, r.db, getInvoiceByID, id)
}

// GetByIDForUpdate retrieves an invoice and locks its row.
func (r *InvoiceRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Invoice, error) {
	return r.getOne(ctx, inTx(tx, r.db), getInvoiceByIDForUpdate, id)
}

// UpdateStatus persists a status transition.
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, invoice *domain.Invoice) error {
	tag, err := inTx(tx, r.db).Exec(ctx, updateInvoiceStatus,
		invoice.ID,
		string(invoice.Status),
		optionalTime(invoice.IssuedAt),
		optionalTime(invoice.VoidedAt),
		invoice.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrInvoiceNotFound
	}

	return nil
}

// ListByClient lists a client's invoices, newest first.
func (r *InvoiceRepository) ListByClient(ctx context.Context, clientID string, limit, offset int) ([]*domain.Invoice, error) {
	return r.getMany(ctx, listInvoicesByClient, clientID, int32(limit), int32(offset))
}

// ListIssuedByClient lists every issued invoice of a client, oldest first.
func (r *InvoiceRepository) ListIssuedByClient(ctx context.Context, clientID string) ([]*domain.Invoice, error) {
	return r.getMany(ctx, listIssuedInvoicesByClient, clientID)
}

func (r *InvoiceRepository) getOne(ctx context.Context, db dbtx, query, id string) (*domain.Invoice, error) {
	invoice, err := scanInvoice(db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}

		return nil, err
	}

	lines, err := invoiceLines.load(ctx, db, []string{invoice.ID})
	if err != nil {
		return nil, err
	}
	invoice.Lines = lines[invoice.ID]

	return invoice, nil
}

func (r *InvoiceRepository) getMany(ctx context.Context, query string, args ...any) ([]*domain.Invoice, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	var (
		invoices []*domain.Invoice
		ids      []string
	)
	for rows.Next() {
		invoice, err := scanInvoice(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		invoices = append(invoices, invoice)
		ids = append(ids, invoice.ID)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lines, err := invoiceLines.load(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}

	for _, invoice := range invoices {
		invoice.Lines = lines[invoice.ID]
	}

	return invoices, nil
}

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var (
		inv    domain.Invoice
		status string
	)

	err := row.Scan(
		&inv.ID,
		&inv.ClientID,
		&status,
		&inv.Date,
		&inv.Notes,
		&inv.IssuedAt,
		&inv.VoidedAt,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	inv.Status = domain.InvoiceStatus(status)

	return &inv, nil
}
