package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gestion/internal/adapter/http/dto"
	"github.com/iho/gestion/internal/domain"
	"github.com/iho/gestion/internal/usecase"
)

type invoiceServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateInvoiceInput) (*domain.Invoice, error)
	getFn    func(ctx context.Context, id string) (*domain.Invoice, error)
	listFn   func(ctx context.Context, input usecase.ListInvoicesInput) ([]*domain.Invoice, error)
	issueFn  func(ctx context.Context, id string) (*domain.Invoice, error)
	voidFn   func(ctx context.Context, id string) (*domain.Invoice, error)
}

func (s *invoiceServiceStub) CreateInvoice(ctx context.Context, input usecase.CreateInvoiceInput) (*domain.Invoice, error) {
	return s.createFn(ctx, input)
}

func (s *invoiceServiceStub) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.getFn(ctx, id)
}

func (s *invoiceServiceStub) ListInvoices(ctx context.Context, input usecase.ListInvoicesInput) ([]*domain.Invoice, error) {
	return s.listFn(ctx, input)
}

func (s *invoiceServiceStub) IssueInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.issueFn(ctx, id)
}

func (s *invoiceServiceStub) VoidInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	return s.voidFn(ctx, id)
}

func sampleInvoice(status domain.InvoiceStatus) *domain.Invoice {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Invoice{
		ID:       "inv-1",
		ClientID: "cli-1",
		Status:   status,
		Date:     date,
		Lines: []domain.DocumentLine{
			{Description: "Consulting", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(121), TaxRate: domain.TaxRateGeneral},
		},
		CreatedAt: date,
		UpdatedAt: date,
	}
}

func TestInvoiceHandler_Create_Success(t *testing.T) {
	var captured usecase.CreateInvoiceInput
	h := NewInvoiceHandler(&invoiceServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateInvoiceInput) (*domain.Invoice, error) {
			captured = input
			return sampleInvoice(domain.InvoiceStatusDraft), nil
		},
	})

	body := `{"client_id":"cli-1","date":"2024-03-01T00:00:00Z","lines":[{"description":"Consulting","quantity":"1","unit_price":"121","tax_rate":"21"}]}`
	req := httptest.NewRequest(http.MethodPost, "/invoices", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.ClientID != "cli-1" || len(captured.Lines) != 1 {
		t.Fatalf("unexpected input %+v", captured)
	}
	if !captured.Lines[0].TaxRate.Equal(domain.TaxRateGeneral) {
		t.Fatalf("expected rate 21, got %s", captured.Lines[0].TaxRate)
	}

	var resp dto.InvoiceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Totals.Net != "100.00" || resp.Totals.Tax != "21.00" || resp.Totals.Gross != "121.00" {
		t.Fatalf("unexpected totals %+v", resp.Totals)
	}
}

func TestInvoiceHandler_Create_EmptyDocument(t *testing.T) {
	h := NewInvoiceHandler(&invoiceServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateInvoiceInput) (*domain.Invoice, error) {
			return nil, domain.ErrEmptyDocument
		},
	})

	req := httptest.NewRequest(http.MethodPost, "/invoices", bytes.NewBufferString(`{"client_id":"cli-1","lines":[]}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestInvoiceHandler_Create_RejectsBadInputAs400(t *testing.T) {
	h := NewInvoiceHandler(&invoiceServiceStub{
		createFn: func(ctx context.Context, input usecase.CreateInvoiceInput) (*domain.Invoice, error) {
			inv := &domain.Invoice{ClientID: input.ClientID, Date: input.Date, Lines: input.Lines}
			if err := inv.Validate(); err != nil {
				return nil, err
			}
			return inv, nil
		},
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing client", `{"date":"2024-03-01T00:00:00Z","lines":[{"description":"A","quantity":"1","unit_price":"10","tax_rate":"21"}]}`},
		{"quantity too precise", `{"client_id":"cli-1","date":"2024-03-01T00:00:00Z","lines":[{"description":"A","quantity":"0.3335","unit_price":"10","tax_rate":"21"}]}`},
		{"price too precise", `{"client_id":"cli-1","date":"2024-03-01T00:00:00Z","lines":[{"description":"A","quantity":"1","unit_price":"10.00001","tax_rate":"21"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/invoices", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			h.Create(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestInvoiceHandler_Get_NotFound(t *testing.T) {
	h := NewInvoiceHandler(&invoiceServiceStub{
		getFn: func(ctx context.Context, id string) (*domain.Invoice, error) {
			return nil, domain.ErrInvoiceNotFound
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/invoices/nope", nil), "id", "nope")
	rec := httptest.NewRecorder()

	h.Get(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestInvoiceHandler_Issue_Success(t *testing.T) {
	h := NewInvoiceHandler(&invoiceServiceStub{
		issueFn: func(ctx context.Context, id string) (*domain.Invoice, error) {
			inv := sampleInvoice(domain.InvoiceStatusIssued)
			at := inv.Date.Add(time.Hour)
			inv.IssuedAt = &at
			return inv, nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/invoices/inv-1/issue", nil), "id", "inv-1")
	rec := httptest.NewRecorder()

	h.Issue(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp dto.InvoiceResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != "issued" || resp.IssuedAt == nil {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestInvoiceHandler_Void_Conflict(t *testing.T) {
	h := NewInvoiceHandler(&invoiceServiceStub{
		voidFn: func(ctx context.Context, id string) (*domain.Invoice, error) {
			return nil, fmt.Errorf("%w: already voided", domain.ErrInvalidInvoiceStatus)
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodPost, "/invoices/inv-1/void", nil), "id", "inv-1")
	rec := httptest.NewRecorder()

	h.Void(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestInvoiceHandler_ListByClient(t *testing.T) {
	var captured usecase.ListInvoicesInput
	h := NewInvoiceHandler(&invoiceServiceStub{
		listFn: func(ctx context.Context, input usecase.ListInvoicesInput) ([]*domain.Invoice, error) {
			captured = input
			return []*domain.Invoice{sampleInvoice(domain.InvoiceStatusIssued)}, nil
		},
	})

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/clients/cli-1/invoices?limit=3", nil), "id", "cli-1")
	rec := httptest.NewRecorder()

	h.ListByClient(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.ClientID != "cli-1" || captured.Limit != 3 || captured.Offset != 0 {
		t.Fatalf("unexpected input %+v", captured)
	}

	var resp struct {
		Invoices []dto.InvoiceResponse `json:"invoices"`
		Total    int                   `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 1 || resp.Invoices[0].ID != "inv-1" {
		t.Fatalf("unexpected response %+v", resp)
	}
}
