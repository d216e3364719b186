package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/iho/gestion/internal/domain"
)

// PartyUseCase handles client and supplier business logic.
type PartyUseCase struct {
	txManager  TransactionManager
	partyRepo  PartyRepository
	outboxRepo OutboxRepository
	cache      Cache
	cacheTTL   time.Duration
	idGen      IDGenerator
}

// NewPartyUseCase creates a new PartyUseCase. cache may be nil.
func NewPartyUseCase(
	txManager TransactionManager,
	partyRepo PartyRepository,
	outboxRepo OutboxRepository,
	cache Cache,
	cacheTTL time.Duration,
	idGen IDGenerator,
) *PartyUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultPartyCacheTTL
	}
	return &PartyUseCase{
		txManager:  txManager,
		partyRepo:  partyRepo,
		outboxRepo: outboxRepo,
		cache:      cache,
		cacheTTL:   cacheTTL,
		idGen:      idGen,
	}
}

// CreatePartyInput represents input for creating a client or supplier.
type CreatePartyInput struct {
	Kind    domain.PartyKind
	Name    string
	TaxID   string
	Email   string
	Phone   string
	Address string
}

// CreateParty creates a new client or supplier.
func (uc *PartyUseCase) CreateParty(ctx context.Context, input CreatePartyInput) (*domain.Party, error) {
	now := time.Now().UTC()

	party := &domain.Party{
		ID:        uc.idGen.Generate(),
		Kind:      input.Kind,
		Name:      strings.TrimSpace(input.Name),
		TaxID:     domain.NormalizeTaxID(input.TaxID),
		Email:     strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:     strings.TrimSpace(input.Phone),
		Address:   strings.TrimSpace(input.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := party.Validate(); err != nil {
		return nil, err
	}

	err := runInTx(ctx, uc.txManager, func(ctx context.Context, tx Transaction) error {
		if err := uc.partyRepo.Create(ctx, tx, party); err != nil {
			return err
		}

		event := newOutboxEvent(uc.idGen.Generate(), domain.AggregateTypeParty, party.ID, domain.EventTypePartyCreated,
			domain.PartyCreatedEvent{PartyID: party.ID, Kind: string(party.Kind), Name: party.Name}, now)

		return uc.outboxRepo.Create(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	return party, nil
}

// GetParty retrieves a party by ID, reading through the cache.
func (uc *PartyUseCase) GetParty(ctx context.Context, id string) (*domain.Party, error) {
	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, partyCacheKey(id)); err == nil {
			var party domain.Party
			if json.Unmarshal(raw, &party) == nil {
				return &party, nil
			}
		}
	}

	party, err := uc.partyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if raw, err := json.Marshal(party); err == nil {
			// Cache failures only cost a database read next time.
			_ = uc.cache.Set(ctx, partyCacheKey(id), raw, uc.cacheTTL)
		}
	}

	return party, nil
}

// GetClient retrieves a party and checks it is a client.
func (uc *PartyUseCase) GetClient(ctx context.Context, id string) (*domain.Party, error) {
	party, err := uc.GetParty(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := party.RequireClient(); err != nil {
		return nil, err
	}
	return party, nil
}

// GetSupplier retrieves a party and checks it is a supplier.
func (uc *PartyUseCase) GetSupplier(ctx context.Context, id string) (*domain.Party, error) {
	party, err := uc.GetParty(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := party.RequireSupplier(); err != nil {
		return nil, err
	}
	return party, nil
}

// ListPartiesInput represents input for listing parties.
type ListPartiesInput struct {
	Kind   domain.PartyKind
	Limit  int
	Offset int
}

// ListParties lists clients or suppliers with pagination.
func (uc *PartyUseCase) ListParties(ctx context.Context, input ListPartiesInput) ([]*domain.Party, error) {
	if !input.Kind.Valid() {
		return nil, domain.ErrInvalidPartyKind
	}
	limit, offset, err := clampPage(input.Limit, input.Offset)
	if err != nil {
		return nil, err
	}
	return uc.partyRepo.List(ctx, input.Kind, limit, offset)
}

func partyCacheKey(id string) string {
	return "party:" + id
}
