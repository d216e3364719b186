package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidName      = errors.New("invalid name")
	ErrInvalidTaxID     = errors.New("invalid tax id")
	ErrInvalidEmail     = errors.New("invalid email format")
	ErrInvalidPartyKind = errors.New("invalid party kind")
	ErrInvalidDirection = errors.New("invalid adjustment direction")
	ErrInvalidMethod    = errors.New("invalid payment method")
	ErrAmountTooLarge   = fmt.Errorf("%w: amount exceeds maximum allowed", ErrInvalidArgument)
	ErrAmountTooSmall   = fmt.Errorf("%w: amount below minimum allowed", ErrInvalidArgument)
	ErrInvalidDate      = errors.New("date is required")
	ErrPartyRequired    = errors.New("party id is required")
	ErrTooPrecise       = fmt.Errorf("%w: too many decimal places", ErrInvalidArgument)
)

// Validation constants
const (
	MaxNameLength   = 255
	MinNameLength   = 1
	MaxNotesLength  = 2000
	TaxIDDigits     = 11
	MaxAmount       = "1000000000000" // 1 trillion
	MinAmount       = "0.01"
	MaxDocumentRows = 500

	// Decimal places stored for each kind of figure.
	AmountPlaces    = 2
	QuantityPlaces  = 3
	UnitPricePlaces = 4
	MaxQuantity     = "1000000000" // 1 billion units
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	digitsRegex = regexp.MustCompile(`^[0-9]+$`)
)

// ValidateName validates a party or document label.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}

	return nil
}

// ValidateTaxID checks the shape of a tax id (11 digits, dashes allowed).
// Checksum verification is not done here.
func ValidateTaxID(taxID string) error {
	digits := NormalizeTaxID(taxID)

	if len(digits) != TaxIDDigits || !digitsRegex.MatchString(digits) {
		return fmt.Errorf("%w: expected %d digits", ErrInvalidTaxID, TaxIDDigits)
	}

	return nil
}

// NormalizeTaxID strips separators from a tax id.
func NormalizeTaxID(taxID string) string {
	taxID = strings.TrimSpace(taxID)
	taxID = strings.ReplaceAll(taxID, "-", "")
	return strings.ReplaceAll(taxID, " ", "")
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidateAmount validates a payment or adjustment amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	minAmount, _ := decimal.NewFromString(MinAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinAmount)
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return validatePlaces(amount, AmountPlaces)
}

func validatePlaces(d decimal.Decimal, places int32) error {
	if !d.Equal(d.Truncate(places)) {
		return fmt.Errorf("%w: %s allows at most %d", ErrTooPrecise, d.String(), places)
	}
	return nil
}
