package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gestion/internal/domain"
	"github.com/iho/gestion/internal/usecase"
)

// Money renders an amount at currency precision.
func Money(d decimal.Decimal) string {
	return d.StringFixed(domain.MoneyPlaces)
}

// PartyResponse represents a client or a supplier in API responses.
type PartyResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PartyFromDomain converts a domain party to response.
func PartyFromDomain(p *domain.Party) *PartyResponse {
	return &PartyResponse{
		ID:        p.ID,
		Kind:      string(p.Kind),
		Name:      p.Name,
		TaxID:     p.TaxID,
		Email:     p.Email,
		Phone:     p.Phone,
		Address:   p.Address,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// ListPartiesResponse is a page of parties.
type ListPartiesResponse struct {
	Parties []*PartyResponse `json:"parties"`
	Total   int              `json:"total"`
}

// PartiesFromDomain converts domain parties to responses.
func PartiesFromDomain(parties []*domain.Party) []*PartyResponse {
	result := make([]*PartyResponse, len(parties))
	for i, p := range parties {
		result[i] = PartyFromDomain(p)
	}
	return result
}

// LineResponse is one document row with its derived gross.
type LineResponse struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	TaxRate     string `json:"tax_rate"`
	Gross       string `json:"gross"`
}

func linesFromDomain(lines []domain.DocumentLine) []LineResponse {
	out := make([]LineResponse, len(lines))
	for i, l := range lines {
		out[i] = LineResponse{
			Description: l.Description,
			Quantity:    l.Quantity.String(),
			UnitPrice:   l.UnitPrice.String(),
			TaxRate:     l.TaxRate.String(),
			Gross:       Money(l.Gross()),
		}
	}
	return out
}

// RateSubtotalResponse is the net and tax accumulated at one VAT rate.
type RateSubtotalResponse struct {
	Rate string `json:"rate"`
	Net  string `json:"net"`
	Tax  string `json:"tax"`
}

// TotalsResponse mirrors domain.InvoiceTotals.
type TotalsResponse struct {
	Net    string                 `json:"net"`
	Tax    string                 `json:"tax"`
	Gross  string                 `json:"gross"`
	ByRate []RateSubtotalResponse `json:"by_rate"`
}

// TotalsFromDomain converts computed totals to response.
func TotalsFromDomain(t domain.InvoiceTotals) TotalsResponse {
	byRate := make([]RateSubtotalResponse, len(t.ByRate))
	for i, s := range t.ByRate {
		byRate[i] = RateSubtotalResponse{
			Rate: s.Rate.String(),
			Net:  Money(s.Net),
			Tax:  Money(s.Tax),
		}
	}

	return TotalsResponse{
		Net:    Money(t.Net),
		Tax:    Money(t.Tax),
		Gross:  Money(t.Gross),
		ByRate: byRate,
	}
}

// SplitResponse is the net/tax decomposition of one amount.
type SplitResponse struct {
	Net string `json:"net"`
	Tax string `json:"tax"`
}

// InvoiceResponse represents a sales invoice in API responses.
type InvoiceResponse struct {
	ID        string         `json:"id"`
	ClientID  string         `json:"client_id"`
	Status    string         `json:"status"`
	Date      time.Time      `json:"date"`
	Notes     string         `json:"notes,omitempty"`
	Lines     []LineResponse `json:"lines"`
	Totals    TotalsResponse `json:"totals"`
	IssuedAt  *time.Time     `json:"issued_at,omitempty"`
	VoidedAt  *time.Time     `json:"voided_at,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// InvoiceFromDomain converts a domain invoice to response.
func InvoiceFromDomain(inv *domain.Invoice) (*InvoiceResponse, error) {
	totals, err := inv.Totals()
	if err != nil {
		return nil, err
	}

	return &InvoiceResponse{
		ID:        inv.ID,
		ClientID:  inv.ClientID,
		Status:    string(inv.Status),
		Date:      inv.Date,
		Notes:     inv.Notes,
		Lines:     linesFromDomain(inv.Lines),
		Totals:    TotalsFromDomain(totals),
		IssuedAt:  inv.IssuedAt,
		VoidedAt:  inv.VoidedAt,
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}, nil
}

// InvoicesFromDomain converts domain invoices to responses.
func InvoicesFromDomain(invoices []*domain.Invoice) ([]*InvoiceResponse, error) {
	result := make([]*InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		resp, err := InvoiceFromDomain(inv)
		if err != nil {
			return nil, err
		}
		result[i] = resp
	}
	return result, nil
}

// PurchaseResponse represents a recorded supplier invoice.
type PurchaseResponse struct {
	ID         string         `json:"id"`
	SupplierID string         `json:"supplier_id"`
	Status     string         `json:"status"`
	Date       time.Time      `json:"date"`
	Reference  string         `json:"reference,omitempty"`
	Lines      []LineResponse `json:"lines"`
	Totals     TotalsResponse `json:"totals"`
	VoidedAt   *time.Time     `json:"voided_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// PurchaseFromDomain converts a domain purchase to response.
func PurchaseFromDomain(p *domain.Purchase) (*PurchaseResponse, error) {
	totals, err := p.Totals()
	if err != nil {
		return nil, err
	}

	return &PurchaseResponse{
		ID:         p.ID,
		SupplierID: p.SupplierID,
		Status:     string(p.Status),
		Date:       p.Date,
		Reference:  p.Reference,
		Lines:      linesFromDomain(p.Lines),
		Totals:     TotalsFromDomain(totals),
		VoidedAt:   p.VoidedAt,
		CreatedAt:  p.CreatedAt,
	}, nil
}

// PurchasesFromDomain converts domain purchases to responses.
func PurchasesFromDomain(purchases []*domain.Purchase) ([]*PurchaseResponse, error) {
	result := make([]*PurchaseResponse, len(purchases))
	for i, p := range purchases {
		resp, err := PurchaseFromDomain(p)
		if err != nil {
			return nil, err
		}
		result[i] = resp
	}
	return result, nil
}

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID        string    `json:"id"`
	PartyID   string    `json:"party_id"`
	PartyKind string    `json:"party_kind"`
	Amount    string    `json:"amount"`
	Date      time.Time `json:"date"`
	Method    string    `json:"method"`
	Reference string    `json:"reference,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PaymentFromDomain converts a domain payment to response.
func PaymentFromDomain(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:        p.ID,
		PartyID:   p.PartyID,
		PartyKind: string(p.PartyKind),
		Amount:    Money(p.Amount),
		Date:      p.Date,
		Method:    string(p.Method),
		Reference: p.Reference,
		CreatedAt: p.CreatedAt,
	}
}

// PaymentsFromDomain converts domain payments to responses.
func PaymentsFromDomain(payments []*domain.Payment) []*PaymentResponse {
	result := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		result[i] = PaymentFromDomain(p)
	}
	return result
}

// AdjustmentResponse represents a manual adjustment in API responses.
type AdjustmentResponse struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Amount    string    `json:"amount"`
	Direction string    `json:"direction"`
	Date      time.Time `json:"date"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// AdjustmentFromDomain converts a domain adjustment to response.
func AdjustmentFromDomain(a *domain.Adjustment) *AdjustmentResponse {
	return &AdjustmentResponse{
		ID:        a.ID,
		ClientID:  a.ClientID,
		Amount:    Money(a.Amount),
		Direction: string(a.Direction),
		Date:      a.Date,
		Reason:    a.Reason,
		CreatedAt: a.CreatedAt,
	}
}

// AdjustmentsFromDomain converts domain adjustments to responses.
func AdjustmentsFromDomain(adjustments []*domain.Adjustment) []*AdjustmentResponse {
	result := make([]*AdjustmentResponse, len(adjustments))
	for i, a := range adjustments {
		result[i] = AdjustmentFromDomain(a)
	}
	return result
}

// StatementEntryResponse is one row of an account history.
type StatementEntryResponse struct {
	Date      time.Time `json:"date"`
	Kind      string    `json:"kind"`
	Direction string    `json:"direction,omitempty"`
	Label     string    `json:"label"`
	SourceID  string    `json:"source_id,omitempty"`
	Amount    string    `json:"amount"`
	Delta     string    `json:"delta"`
	Balance   string    `json:"balance"`
}

// StatementResponse is an account's balance and its history, newest first.
type StatementResponse struct {
	PartyID   string                   `json:"party_id"`
	PartyName string                   `json:"party_name"`
	Kind      string                   `json:"kind"`
	Balance   string                   `json:"balance"`
	Empty     bool                     `json:"empty"`
	Entries   []StatementEntryResponse `json:"entries"`
}

// StatementFromDomain converts an account statement to response.
func StatementFromDomain(s *usecase.AccountStatement) *StatementResponse {
	entries := make([]StatementEntryResponse, len(s.Statement.Entries))
	for i, e := range s.Statement.Entries {
		entries[i] = StatementEntryResponse{
			Date:      e.Date,
			Kind:      string(e.Kind),
			Direction: string(e.Direction),
			Label:     e.Label,
			SourceID:  e.SourceID,
			Amount:    Money(e.Amount),
			Delta:     Money(e.Delta),
			Balance:   Money(e.Balance),
		}
	}

	return &StatementResponse{
		PartyID:   s.Party.ID,
		PartyName: s.Party.Name,
		Kind:      string(s.Party.Kind),
		Balance:   Money(s.Statement.Balance),
		Empty:     s.Statement.IsEmpty(),
		Entries:   entries,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
