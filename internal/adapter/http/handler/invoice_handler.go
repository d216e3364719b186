package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gestion/internal/adapter/http/dto"
	"github.com/iho/gestion/internal/domain"
	"github.com/iho/gestion/internal/usecase"
)

// InvoiceService defines the behavior needed by InvoiceHandler.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, input usecase.CreateInvoiceInput) (*domain.Invoice, error)
	GetInvoice(ctx context.Context, id string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, input usecase.ListInvoicesInput) ([]*domain.Invoice, error)
	IssueInvoice(ctx context.Context, id string) (*domain.Invoice, error)
	VoidInvoice(ctx context.Context, id string) (*domain.Invoice, error)
}

// InvoiceHandler handles sales invoice requests.
type InvoiceHandler struct {
	invoiceUC InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceUC InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceUC: invoiceUC}
}

// Create drafts a new invoice.
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateInvoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	invoice, err := h.invoiceUC.CreateInvoice(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to create invoice", err)
		return
	}

	h.respond(w, r, http.StatusCreated, invoice)
}

// Get retrieves an invoice by ID.
func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.invoiceUC.GetInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get invoice", err)
		return
	}

	h.respond(w, r, http.StatusOK, invoice)
}

// Issue moves a draft invoice to issued.
func (h *InvoiceHandler) Issue(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.invoiceUC.IssueInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to issue invoice", err)
		return
	}

	h.respond(w, r, http.StatusOK, invoice)
}

// Void cancels an invoice.
func (h *InvoiceHandler) Void(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.invoiceUC.VoidInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to void invoice", err)
		return
	}

	h.respond(w, r, http.StatusOK, invoice)
}

// ListByClient lists a client's invoices, newest first.
func (h *InvoiceHandler) ListByClient(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.invoiceUC.ListInvoices(r.Context(), usecase.ListInvoicesInput{
		ClientID: chi.URLParam(r, "id"),
		Limit:    parseIntQuery(r, "limit", 20),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list invoices", err)
		return
	}

	resp, err := dto.InvoicesFromDomain(invoices)
	if err != nil {
		writeDomainError(w, r, "failed to render invoices", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"invoices": resp,
		"total":    len(resp),
	})
}

func (h *InvoiceHandler) respond(w http.ResponseWriter, r *http.Request, status int, invoice *domain.Invoice) {
	resp, err := dto.InvoiceFromDomain(invoice)
	if err != nil {
		writeDomainError(w, r, "failed to render invoice", err)
		return
	}

	writeJSON(w, status, resp)
}
