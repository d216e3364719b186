package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how money changed hands.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCheck    PaymentMethod = "check"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodOther    PaymentMethod = "other"
)

// Valid reports whether m is a known method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodTransfer, PaymentMethodCheck, PaymentMethodCard, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is money received from a client or paid to a supplier.
type Payment struct {
	ID        string
	PartyID   string
	PartyKind PartyKind
	Amount    decimal.Decimal
	Date      time.Time
	Method    PaymentMethod
	Reference string
	CreatedAt time.Time
}

// Validate checks a payment before it is recorded.
func (p *Payment) Validate() error {
	if p.PartyID == "" {
		return fmt.Errorf("%w: party is required", ErrPartyRequired)
	}

	if !p.PartyKind.Valid() {
		return ErrInvalidPartyKind
	}

	if p.Date.IsZero() {
		return ErrInvalidDate
	}

	if !p.Method.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, p.Method)
	}

	return ValidateAmount(p.Amount)
}

// Adjustment is a manual debit or credit on a client account.
type Adjustment struct {
	ID        string
	ClientID  string
	Amount    decimal.Decimal
	Direction AdjustmentDirection
	Date      time.Time
	Reason    string
	CreatedAt time.Time
}

// Validate checks an adjustment before it is recorded.
func (a *Adjustment) Validate() error {
	if a.ClientID == "" {
		return fmt.Errorf("%w: client is required", ErrPartyRequired)
	}

	if !a.Direction.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, a.Direction)
	}

	if a.Date.IsZero() {
		return ErrInvalidDate
	}

	if err := ValidateName(a.Reason); err != nil {
		return err
	}

	return ValidateAmount(a.Amount)
}
