package domain

import (
	"time"
)

// PartyKind distinguishes clients from suppliers.
type PartyKind string

const (
	PartyKindClient   PartyKind = "client"
	PartyKindSupplier PartyKind = "supplier"
)

// Valid reports whether k is a known kind.
func (k PartyKind) Valid() bool {
	return k == PartyKindClient || k == PartyKindSupplier
}

// Party is a client or a supplier the business keeps an account with.
type Party struct {
	ID        string
	Kind      PartyKind
	Name      string
	TaxID     string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields a party needs before it is stored.
func (p *Party) Validate() error {
	if !p.Kind.Valid() {
		return ErrInvalidPartyKind
	}

	if err := ValidateName(p.Name); err != nil {
		return err
	}

	if p.TaxID != "" {
		if err := ValidateTaxID(p.TaxID); err != nil {
			return err
		}
	}

	if p.Email != "" {
		if err := ValidateEmail(p.Email); err != nil {
			return err
		}
	}

	return nil
}

// RequireClient fails unless the party is a client.
func (p *Party) RequireClient() error {
	if p.Kind != PartyKindClient {
		return ErrNotAClient
	}
	return nil
}

// RequireSupplier fails unless the party is a supplier.
func (p *Party) RequireSupplier() error {
	if p.Kind != PartyKindSupplier {
		return ErrNotASupplier
	}
	return nil
}
