package domain

import "time"

// Event types
const (
	EventTypePartyCreated       = "party.created"
	EventTypeInvoiceIssued      = "invoice.issued"
	EventTypeInvoiceVoided      = "invoice.voided"
	EventTypePurchaseRecorded   = "purchase.recorded"
	EventTypePurchaseVoided     = "purchase.voided"
	EventTypePaymentRecorded    = "payment.recorded"
	EventTypeAdjustmentRecorded = "adjustment.recorded"
)

// Aggregate types
const (
	AggregateTypeParty      = "party"
	AggregateTypeInvoice    = "invoice"
	AggregateTypePurchase   = "purchase"
	AggregateTypePayment    = "payment"
	AggregateTypeAdjustment = "adjustment"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// PartyCreatedEvent payload
type PartyCreatedEvent struct {
	PartyID string `json:"party_id"`
	Kind    string `json:"kind"`
	Name    string `json:"name"`
}

// InvoiceIssuedEvent payload
type InvoiceIssuedEvent struct {
	InvoiceID string `json:"invoice_id"`
	ClientID  string `json:"client_id"`
	Net       string `json:"net"`
	Tax       string `json:"tax"`
	Gross     string `json:"gross"`
	IssuedAt  string `json:"issued_at"`
}

// InvoiceVoidedEvent payload
type InvoiceVoidedEvent struct {
	InvoiceID      string `json:"invoice_id"`
	ClientID       string `json:"client_id"`
	PreviousStatus string `json:"previous_status"`
}

// PurchaseRecordedEvent payload
type PurchaseRecordedEvent struct {
	PurchaseID string `json:"purchase_id"`
	SupplierID string `json:"supplier_id"`
	Gross      string `json:"gross"`
}

// PaymentRecordedEvent payload
type PaymentRecordedEvent struct {
	PaymentID string `json:"payment_id"`
	PartyID   string `json:"party_id"`
	PartyKind string `json:"party_kind"`
	Amount    string `json:"amount"`
	Method    string `json:"method"`
}

// AdjustmentRecordedEvent payload
type AdjustmentRecordedEvent struct {
	AdjustmentID string `json:"adjustment_id"`
	ClientID     string `json:"client_id"`
	Amount       string `json:"amount"`
	Direction    string `json:"direction"`
}

// ToPayload flattens an event struct into the outbox payload map.
func ToPayload(v any) map[string]any {
	switch e := v.(type) {
	case PartyCreatedEvent:
		return map[string]any{"party_id": e.PartyID, "kind": e.Kind, "name": e.Name}
	case InvoiceIssuedEvent:
		return map[string]any{"invoice_id": e.InvoiceID, "client_id": e.ClientID, "net": e.Net, "tax": e.Tax, "gross": e.Gross, "issued_at": e.IssuedAt}
	case InvoiceVoidedEvent:
		return map[string]any{"invoice_id": e.InvoiceID, "client_id": e.ClientID, "previous_status": e.PreviousStatus}
	case PurchaseRecordedEvent:
		return map[string]any{"purchase_id": e.PurchaseID, "supplier_id": e.SupplierID, "gross": e.Gross}
	case PaymentRecordedEvent:
		return map[string]any{"payment_id": e.PaymentID, "party_id": e.PartyID, "party_kind": e.PartyKind, "amount": e.Amount, "method": e.Method}
	case AdjustmentRecordedEvent:
		return map[string]any{"adjustment_id": e.AdjustmentID, "client_id": e.ClientID, "amount": e.Amount, "direction": e.Direction}
	default:
		return map[string]any{}
	}
}
