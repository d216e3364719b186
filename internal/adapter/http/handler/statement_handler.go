package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gestion/internal/adapter/http/dto"
	"github.com/iho/gestion/internal/usecase"
)

// StatementService defines the behavior needed by StatementHandler.
type StatementService interface {
	ClientStatement(ctx context.Context, clientID string) (*usecase.AccountStatement, error)
	SupplierStatement(ctx context.Context, supplierID string) (*usecase.AccountStatement, error)
}

// StatementHandler serves account balances and histories.
type StatementHandler struct {
	statementUC StatementService
}

// NewStatementHandler creates a new StatementHandler.
func NewStatementHandler(statementUC StatementService) *StatementHandler {
	return &StatementHandler{statementUC: statementUC}
}

// Client returns what a client owes and how it got there.
func (h *StatementHandler) Client(w http.ResponseWriter, r *http.Request) {
	statement, err := h.statementUC.ClientStatement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to build client statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromDomain(statement))
}

// Supplier returns what is owed to a supplier and how it got there.
func (h *StatementHandler) Supplier(w http.ResponseWriter, r *http.Request) {
	statement, err := h.statementUC.SupplierStatement(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to build supplier statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromDomain(statement))
}
