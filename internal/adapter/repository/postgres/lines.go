package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/gestion/internal/domain"
)

// lineTable describes where the rows of one document type live.
type lineTable struct {
	name      string
	parentKey string
}

var (
	invoiceLines  = lineTable{name: "invoice_lines", parentKey: "invoice_id"}
	purchaseLines = lineTable{name: "purchase_lines", parentKey: "purchase_id"}
)

func (t lineTable) insertSQL() string {
	return fmt.Sprintf(`INSERT INTO %s (%s, position, description, quantity, unit_price, tax_rate)
VALUES ($1, $2, $3, $4, $5, $6)`, t.name, t.parentKey)
}

func (t lineTable) selectSQL() string {
	return fmt.Sprintf(`SELECT %s, description, quantity, unit_price, tax_rate
FROM %s
WHERE %s = ANY($1)
ORDER BY %s, position`, t.parentKey, t.name, t.parentKey, t.parentKey)
}

func (t lineTable) insert(ctx context.Context, db dbtx, parentID string, lines []domain.DocumentLine) error {
	query := t.insertSQL()

	for i, l := range lines {
		_, err := db.Exec(ctx, query,
			parentID,
			int32(i+1),
			l.Description,
			decimalToNumeric(l.Quantity),
			decimalToNumeric(l.UnitPrice),
			decimalToNumeric(l.TaxRate),
		)
		if err != nil {
			return fmt.Errorf("insert %s line %d: %w", t.name, i+1, err)
		}
	}

	return nil
}

// load returns the lines of every parent, keyed by parent ID, in position order.
func (t lineTable) load(ctx context.Context, db dbtx, parentIDs []string) (map[string][]domain.DocumentLine, error) {
	out := make(map[string][]domain.DocumentLine, len(parentIDs))
	if len(parentIDs) == 0 {
		return out, nil
	}

	rows, err := db.Query(ctx, t.selectSQL(), parentIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			parentID    string
			description string
			qty         pgtype.Numeric
			price       pgtype.Numeric
			rate        pgtype.Numeric
		)

		if err := rows.Scan(&parentID, &description, &qty, &price, &rate); err != nil {
			return nil, err
		}

		out[parentID] = append(out[parentID], domain.DocumentLine{
			Description: description,
			Quantity:    numericToDecimal(qty),
			UnitPrice:   numericToDecimal(price),
			TaxRate:     numericToDecimal(rate),
		})
	}

	return out, rows.Err()
}
