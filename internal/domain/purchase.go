package domain

import (
	"fmt"
	"time"
)

// PurchaseStatus is the lifecycle state of a recorded purchase.
type PurchaseStatus string

const (
	PurchaseStatusRecorded PurchaseStatus = "recorded"
	PurchaseStatusVoided   PurchaseStatus = "voided"
)

// Purchase is a supplier invoice recorded against a supplier account.
type Purchase struct {
	ID         string
	SupplierID string
	Status     PurchaseStatus
	Date       time.Time
	Reference  string
	Lines      []DocumentLine
	VoidedAt   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Totals aggregates the purchase lines.
func (p *Purchase) Totals() (InvoiceTotals, error) {
	return Aggregate(MonetaryLines(p.Lines))
}

// Validate checks a purchase before it is recorded.
func (p *Purchase) Validate() error {
	if p.SupplierID == "" {
		return fmt.Errorf("%w: supplier is required", ErrPartyRequired)
	}

	if p.Date.IsZero() {
		return ErrInvalidDate
	}

	if err := ValidateLines(p.Lines); err != nil {
		return err
	}

	totals, err := p.Totals()
	if err != nil {
		return err
	}

	if !totals.Gross.IsPositive() {
		return ErrZeroTotal
	}

	return nil
}

// Void cancels a recorded purchase.
func (p *Purchase) Void(at time.Time) error {
	if p.Status != PurchaseStatusRecorded {
		return fmt.Errorf("%w: cannot void %s purchase", ErrInvalidPurchaseState, p.Status)
	}

	p.Status = PurchaseStatusVoided
	p.VoidedAt = &at
	p.UpdatedAt = at

	return nil
}
