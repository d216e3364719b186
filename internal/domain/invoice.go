package domain

import (
	"fmt"
	"time"
)

// InvoiceStatus is the lifecycle state of a sales invoice.
type InvoiceStatus string

const (
	InvoiceStatusDraft  InvoiceStatus = "draft"
	InvoiceStatusIssued InvoiceStatus = "issued"
	InvoiceStatusVoided InvoiceStatus = "voided"
)

// Invoice is a sales invoice addressed to a client. Only issued invoices
// count towards the client's balance.
type Invoice struct {
	ID        string
	ClientID  string
	Status    InvoiceStatus
	Date      time.Time
	Notes     string
	Lines     []DocumentLine
	IssuedAt  *time.Time
	VoidedAt  *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Totals aggregates the invoice lines.
func (inv *Invoice) Totals() (InvoiceTotals, error) {
	return Aggregate(MonetaryLines(inv.Lines))
}

// Validate checks an invoice before it is saved.
func (inv *Invoice) Validate() error {
	if inv.ClientID == "" {
		return fmt.Errorf("%w: client is required", ErrPartyRequired)
	}

	if inv.Date.IsZero() {
		return ErrInvalidDate
	}

	if len(inv.Notes) > MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidArgument, MaxNotesLength)
	}

	return ValidateLines(inv.Lines)
}

// Issue moves a draft to issued.
func (inv *Invoice) Issue(at time.Time) error {
	if inv.Status != InvoiceStatusDraft {
		return fmt.Errorf("%w: cannot issue %s invoice", ErrInvalidInvoiceStatus, inv.Status)
	}

	totals, err := inv.Totals()
	if err != nil {
		return err
	}

	if !totals.Gross.IsPositive() {
		return ErrZeroTotal
	}

	inv.Status = InvoiceStatusIssued
	inv.IssuedAt = &at
	inv.UpdatedAt = at

	return nil
}

// Void cancels a draft or issued invoice.
func (inv *Invoice) Void(at time.Time) error {
	if inv.Status == InvoiceStatusVoided {
		return fmt.Errorf("%w: invoice already voided", ErrInvalidInvoiceStatus)
	}

	inv.Status = InvoiceStatusVoided
	inv.VoidedAt = &at
	inv.UpdatedAt = at

	return nil
}
