package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is the root of out-of-contract numeric input.
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrNegativeAmount     = fmt.Errorf("%w: amount must not be negative", ErrInvalidArgument)
	ErrUnsupportedTaxRate = fmt.Errorf("%w: unsupported tax rate", ErrInvalidArgument)
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)

	// Party errors
	ErrPartyNotFound = errors.New("party not found")
	ErrNotAClient    = errors.New("party is not a client")
	ErrNotASupplier  = errors.New("party is not a supplier")

	// Document errors
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrPurchaseNotFound     = errors.New("purchase not found")
	ErrInvalidInvoiceStatus = errors.New("invalid invoice status transition")
	ErrInvalidPurchaseState = errors.New("invalid purchase status transition")
	ErrEmptyDocument        = errors.New("document has no lines")
	ErrZeroTotal            = errors.New("document total must be positive")
)
