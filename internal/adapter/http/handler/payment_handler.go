package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gestion/internal/adapter/http/dto"
	"github.com/iho/gestion/internal/domain"
	"github.com/iho/gestion/internal/usecase"
)

// PaymentService defines the behavior needed by PaymentHandler.
type PaymentService interface {
	RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (*domain.Payment, error)
	ListPayments(ctx context.Context, input usecase.ListPaymentsInput) ([]*domain.Payment, error)
}

// AdjustmentService defines the behavior needed by PaymentHandler for adjustments.
type AdjustmentService interface {
	RecordAdjustment(ctx context.Context, input usecase.RecordAdjustmentInput) (*domain.Adjustment, error)
	ListAdjustments(ctx context.Context, input usecase.ListAdjustmentsInput) ([]*domain.Adjustment, error)
}

// PaymentHandler handles payments and manual adjustments, the two ways an
// account moves without a document.
type PaymentHandler struct {
	paymentUC    PaymentService
	adjustmentUC AdjustmentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentUC PaymentService, adjustmentUC AdjustmentService) *PaymentHandler {
	return &PaymentHandler{paymentUC: paymentUC, adjustmentUC: adjustmentUC}
}

// RecordPayment stores a payment for a client or a supplier.
func (h *PaymentHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	payment, err := h.paymentUC.RecordPayment(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to record payment", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentFromDomain(payment))
}

func (h *PaymentHandler) ListClientPayments(w http.ResponseWriter, r *http.Request) {
	h.listPayments(w, r, domain.PartyKindClient)
}

func (h *PaymentHandler) ListSupplierPayments(w http.ResponseWriter, r *http.Request) {
	h.listPayments(w, r, domain.PartyKindSupplier)
}

// RecordAdjustment stores a manual debit or credit on a client account.
func (h *PaymentHandler) RecordAdjustment(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordAdjustmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	adj, err := h.adjustmentUC.RecordAdjustment(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to record adjustment", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AdjustmentFromDomain(adj))
}

// ListAdjustments lists a client's adjustments, newest first.
func (h *PaymentHandler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	adjustments, err := h.adjustmentUC.ListAdjustments(r.Context(), usecase.ListAdjustmentsInput{
		ClientID: chi.URLParam(r, "id"),
		Limit:    parseIntQuery(r, "limit", 20),
		Offset:   parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list adjustments", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"adjustments": dto.AdjustmentsFromDomain(adjustments),
		"total":       len(adjustments),
	})
}

func (h *PaymentHandler) listPayments(w http.ResponseWriter, r *http.Request, kind domain.PartyKind) {
	payments, err := h.paymentUC.ListPayments(r.Context(), usecase.ListPaymentsInput{
		PartyID: chi.URLParam(r, "id"),
		Kind:    kind,
		Limit:   parseIntQuery(r, "limit", 20),
		Offset:  parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list payments", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"payments": dto.PaymentsFromDomain(payments),
		"total":    len(payments),
	})
}
