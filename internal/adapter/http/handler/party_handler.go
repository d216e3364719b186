package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/gestion/internal/adapter/http/dto"
	"github.com/iho/gestion/internal/domain"
	"github.com/iho/gestion/internal/usecase"
)

// PartyService defines the behavior needed by PartyHandler.
type PartyService interface {
	CreateParty(ctx context.Context, input usecase.CreatePartyInput) (*domain.Party, error)
	GetClient(ctx context.Context, id string) (*domain.Party, error)
	GetSupplier(ctx context.Context, id string) (*domain.Party, error)
	ListParties(ctx context.Context, input usecase.ListPartiesInput) ([]*domain.Party, error)
}

// PartyHandler serves /clients and /suppliers.
type PartyHandler struct {
	partyUC PartyService
}

// NewPartyHandler creates a new PartyHandler.
func NewPartyHandler(partyUC PartyService) *PartyHandler {
	return &PartyHandler{partyUC: partyUC}
}

func (h *PartyHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, domain.PartyKindClient)
}

func (h *PartyHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, domain.PartyKindSupplier)
}

func (h *PartyHandler) ListClients(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.PartyKindClient)
}

func (h *PartyHandler) ListSuppliers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, domain.PartyKindSupplier)
}

// GetClient retrieves a client by ID. Supplier IDs are reported as not found.
func (h *PartyHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	party, err := h.partyUC.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get client", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PartyFromDomain(party))
}

// GetSupplier retrieves a supplier by ID.
func (h *PartyHandler) GetSupplier(w http.ResponseWriter, r *http.Request) {
	party, err := h.partyUC.GetSupplier(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get supplier", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PartyFromDomain(party))
}

func (h *PartyHandler) create(w http.ResponseWriter, r *http.Request, kind domain.PartyKind) {
	var req dto.CreatePartyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	party, err := h.partyUC.CreateParty(r.Context(), req.ToUseCaseInput(kind))
	if err != nil {
		writeDomainError(w, r, "failed to create "+string(kind), err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PartyFromDomain(party))
}

func (h *PartyHandler) list(w http.ResponseWriter, r *http.Request, kind domain.PartyKind) {
	parties, err := h.partyUC.ListParties(r.Context(), usecase.ListPartiesInput{
		Kind:   kind,
		Limit:  parseIntQuery(r, "limit", 20),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeDomainError(w, r, "failed to list "+string(kind)+"s", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListPartiesResponse{
		Parties: dto.PartiesFromDomain(parties),
		Total:   len(parties),
	})
}
