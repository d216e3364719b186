package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gestion/internal/domain"
	"github.com/iho/gestion/internal/usecase"
)

// CreatePartyRequest represents a request to create a client or a supplier.
type CreatePartyRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreatePartyRequest) ToUseCaseInput(kind domain.PartyKind) usecase.CreatePartyInput {
	return usecase.CreatePartyInput{
		Kind:    kind,
		Name:    r.Name,
		TaxID:   r.TaxID,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
	}
}

// LineRequest is one document row. UnitPrice includes VAT.
type LineRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// LinesToDomain converts request rows to domain lines.
func LinesToDomain(lines []LineRequest) []domain.DocumentLine {
	out := make([]domain.DocumentLine, len(lines))
	for i, l := range lines {
		out[i] = domain.DocumentLine{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
		}
	}
	return out
}

// CreateInvoiceRequest represents a request to draft an invoice.
type CreateInvoiceRequest struct {
	ClientID string        `json:"client_id"`
	Date     *time.Time    `json:"date,omitempty"`
	Notes    string        `json:"notes,omitempty"`
	Lines    []LineRequest `json:"lines"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateInvoiceRequest) ToUseCaseInput() usecase.CreateInvoiceInput {
	return usecase.CreateInvoiceInput{
		ClientID: r.ClientID,
		Date:     derefTime(r.Date),
		Notes:    r.Notes,
		Lines:    LinesToDomain(r.Lines),
	}
}

// RecordPurchaseRequest represents a supplier invoice to record.
type RecordPurchaseRequest struct {
	SupplierID string        `json:"supplier_id"`
	Date       *time.Time    `json:"date,omitempty"`
	Reference  string        `json:"reference,omitempty"`
	Lines      []LineRequest `json:"lines"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordPurchaseRequest) ToUseCaseInput() usecase.RecordPurchaseInput {
	return usecase.RecordPurchaseInput{
		SupplierID: r.SupplierID,
		Date:       derefTime(r.Date),
		Reference:  r.Reference,
		Lines:      LinesToDomain(r.Lines),
	}
}

// RecordPaymentRequest represents money received from a client or paid to a supplier.
type RecordPaymentRequest struct {
	PartyID   string          `json:"party_id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      *time.Time      `json:"date,omitempty"`
	Method    string          `json:"method,omitempty"`
	Reference string          `json:"reference,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordPaymentRequest) ToUseCaseInput() usecase.RecordPaymentInput {
	return usecase.RecordPaymentInput{
		PartyID:   r.PartyID,
		Amount:    r.Amount,
		Date:      derefTime(r.Date),
		Method:    domain.PaymentMethod(r.Method),
		Reference: r.Reference,
	}
}

// RecordAdjustmentRequest represents a manual debit or credit on a client account.
type RecordAdjustmentRequest struct {
	ClientID  string          `json:"client_id"`
	Amount    decimal.Decimal `json:"amount"`
	Direction string          `json:"direction"`
	Date      *time.Time      `json:"date,omitempty"`
	Reason    string          `json:"reason"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordAdjustmentRequest) ToUseCaseInput() usecase.RecordAdjustmentInput {
	return usecase.RecordAdjustmentInput{
		ClientID:  r.ClientID,
		Amount:    r.Amount,
		Direction: domain.AdjustmentDirection(r.Direction),
		Date:      derefTime(r.Date),
		Reason:    r.Reason,
	}
}

// TotalsRequest asks for the totals of a set of lines.
type TotalsRequest struct {
	Lines []LineRequest `json:"lines"`
}

// SplitRequest asks for the net/tax split of one tax-inclusive amount.
type SplitRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	TaxRate decimal.Decimal `json:"tax_rate"`
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return t.UTC()
}
