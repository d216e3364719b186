package handler

import (
	"net/http"

	"github.com/iho/gestion/internal/adapter/http/dto"
	"github.com/iho/gestion/internal/domain"
)

// TotalsService computes document totals without persisting anything.
type TotalsService interface {
	PreviewTotals(lines []domain.DocumentLine) (domain.InvoiceTotals, error)
}

// TaxHandler exposes the tax calculations the invoice editor needs.
type TaxHandler struct {
	totals TotalsService
}

// NewTaxHandler creates a new TaxHandler.
func NewTaxHandler(totals TotalsService) *TaxHandler {
	return &TaxHandler{totals: totals}
}

// Totals previews the totals of a set of lines.
func (h *TaxHandler) Totals(w http.ResponseWriter, r *http.Request) {
	var req dto.TotalsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	totals, err := h.totals.PreviewTotals(dto.LinesToDomain(req.Lines))
	if err != nil {
		writeDomainError(w, r, "failed to compute totals", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TotalsFromDomain(totals))
}

// Split decomposes one tax-inclusive amount.
func (h *TaxHandler) Split(w http.ResponseWriter, r *http.Request) {
	var req dto.SplitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	split, err := domain.Decompose(req.Amount, req.TaxRate)
	if err != nil {
		writeDomainError(w, r, "failed to split amount", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SplitResponse{
		Net: dto.Money(split.Net),
		Tax: dto.Money(split.Tax),
	})
}
