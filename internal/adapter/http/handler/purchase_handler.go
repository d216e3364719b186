package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gestion/internal/adapter/http/dto"
	"github.com/iho/gestion/internal/domain"
	"github.com/iho/gestion/internal/usecase"
)

// PurchaseService defines the behavior needed by PurchaseHandler.
type PurchaseService interface {
	RecordPurchase(ctx context.Context, input usecase.RecordPurchaseInput) (*domain.Purchase, error)
	VoidPurchase(ctx context.Context, id string) (*domain.Purchase, error)
	ListPurchases(ctx context.Context, input usecase.ListPurchasesInput) ([]*domain.Purchase, error)
}

// PurchaseHandler handles supplier invoice requests.
type PurchaseHandler struct {
	purchaseUC PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(purchaseUC PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseUC: purchaseUC}
}

// Record stores a supplier invoice.
func (h *PurchaseHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordPurchaseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	purchase, err := h.purchaseUC.RecordPurchase(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, r, "failed to record purchase", err)
		return
	}

	h.respond(w, r, http.StatusCreated, purchase)
}

// Void cancels a recorded purchase.
func (h *PurchaseHandler) Void(w http.ResponseWriter, r *http.Request) {
	purchase, err := h.purchaseUC.VoidPurchase(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to void purchase", err)
		return
	}

	h.respond(w, r, http.StatusOK, purchase)
}

// ListBySupplier lists a supplier's purchases, newest first.
func (h *PurchaseHandler) ListBySupplier(w http.ResponseWriter, r *http.Request) {
	purchases, err := h.purchaseUC.ListPurchases(r.Context(), usecase.ListPurchasesInput{
		SupplierID: chi.URLParam(r, "id"),
		Limit:      parseIntQuery(r, "limit", 20),
		Offset:     parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list purchases", err)
		return
	}

	resp, err := dto.PurchasesFromDomain(purchases)
	if err != nil {
		writeDomainError(w, r, "failed to render purchases", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"purchases": resp,
		"total":     len(resp),
	})
}

func (h *PurchaseHandler) respond(w http.ResponseWriter, r *http.Request, status int, purchase *domain.Purchase) {
	resp, err := dto.PurchaseFromDomain(purchase)
	if err != nil {
		writeDomainError(w, r, "failed to render purchase", err)
		return
	}

	writeJSON(w, status, resp)
}
