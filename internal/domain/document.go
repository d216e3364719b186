package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DocumentLine is one row of an invoice or a purchase. UnitPrice already
// includes VAT.
type DocumentLine struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TaxRate     decimal.Decimal
}

// Gross is the tax-inclusive line total.
func (l DocumentLine) Gross() decimal.Decimal {
	return Round2(l.Quantity.Mul(l.UnitPrice))
}

// Clamped returns a copy with negative quantity and price raised to zero.
// The editor applies this before totals are computed.
func (l DocumentLine) Clamped() DocumentLine {
	if l.Quantity.IsNegative() {
		l.Quantity = decimal.Zero
	}
	if l.UnitPrice.IsNegative() {
		l.UnitPrice = decimal.Zero
	}
	return l
}

// MonetaryLines converts rows into the inputs of Aggregate.
func MonetaryLines(lines []DocumentLine) []MonetaryLine {
	out := make([]MonetaryLine, len(lines))
	for i, l := range lines {
		out[i] = MonetaryLine{GrossAmount: l.Gross(), TaxRate: l.TaxRate}
	}
	return out
}

// ValidateLines checks the rows of a document before it is saved.
func ValidateLines(lines []DocumentLine) error {
	if len(lines) == 0 {
		return ErrEmptyDocument
	}

	if len(lines) > MaxDocumentRows {
		return fmt.Errorf("%w: at most %d lines", ErrInvalidArgument, MaxDocumentRows)
	}

	for i, l := range lines {
		if err := ValidateName(l.Description); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		if l.Quantity.IsNegative() || l.UnitPrice.IsNegative() {
			return fmt.Errorf("line %d: %w", i+1, ErrNegativeAmount)
		}
		if err := validateLineFigures(l); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		if err := ValidateTaxRate(l.TaxRate); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}

	return nil
}

// validateLineFigures keeps quantity, unit price and gross within what the
// ledger stores.
func validateLineFigures(l DocumentLine) error {
	if err := validatePlaces(l.Quantity, QuantityPlaces); err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	if err := validatePlaces(l.UnitPrice, UnitPricePlaces); err != nil {
		return fmt.Errorf("unit price: %w", err)
	}
	if l.Quantity.GreaterThan(decimal.RequireFromString(MaxQuantity)) {
		return fmt.Errorf("%w: quantity above %s", ErrInvalidArgument, MaxQuantity)
	}
	if l.UnitPrice.GreaterThan(decimal.RequireFromString(MaxAmount)) {
		return fmt.Errorf("%w: unit price above %s", ErrAmountTooLarge, MaxAmount)
	}
	if l.Quantity.Mul(l.UnitPrice).GreaterThan(decimal.RequireFromString(MaxAmount)) {
		return fmt.Errorf("%w: line total above %s", ErrAmountTooLarge, MaxAmount)
	}
	return nil
}
