package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/gestion/internal/domain"
	"github.com/iho/gestion/internal/usecase"
)

const paymentColumns = `id, party_id, party_kind, amount, date, method, reference, created_at`

const createPayment = `
INSERT INTO payments (` + paymentColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

const listPaymentsByParty = `
SELECT ` + paymentColumns + `
FROM payments
WHERE party_id = $1
ORDER BY date DESC, id DESC
LIMIT $2 OFFSET $3
`

const listAllPaymentsByParty = `
SELECT ` + paymentColumns + `
FROM payments
WHERE party_id = $1
ORDER BY date, id
`

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct {
	db dbtx
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return newPaymentRepository(pool)
}

func newPaymentRepository(db dbtx) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create inserts a payment.
func (r *PaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	_, err := inTx(tx, r.db).Exec(ctx, createPayment,
		payment.ID,
		payment.PartyID,
		string(payment.PartyKind),
		decimalToNumeric(payment.Amount),
		payment.Date,
		string(payment.Method),
		payment.Reference,
		payment.CreatedAt,
	)

	return err
}

// ListByParty lists a party's payments, newest first.
func (r *PaymentRepository) ListByParty(ctx context.Context, partyID string, limit, offset int) ([]*domain.Payment, error) {
	return r.list(ctx, listPaymentsByParty, partyID, int32(limit), int32(offset))
}

// ListAllByParty lists every payment of a party, oldest first.
func (r *PaymentRepository) ListAllByParty(ctx context.Context, partyID string) ([]*domain.Payment, error) {
	return r.list(ctx, listAllPaymentsByParty, partyID)
}

func (r *PaymentRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Payment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var (
		p      domain.Payment
		kind   string
		method string
		amount pgtype.Numeric
	)

	err := row.Scan(
		&p.ID,
		&p.PartyID,
		&kind,
		&amount,
		&p.Date,
		&method,
		&p.Reference,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.PartyKind = domain.PartyKind(kind)
	p.Method = domain.PaymentMethod(method)
	p.Amount = numericToDecimal(amount)

	return &p, nil
}
