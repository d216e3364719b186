package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/gestion/internal/adapter/http/handler"
	apimiddleware "github.com/iho/gestion/internal/adapter/http/middleware"
	"github.com/iho/gestion/internal/domain"
	"github.com/iho/gestion/internal/infrastructure/metrics"
	"github.com/iho/gestion/internal/usecase"
	"github.com/iho/gestion/internal/usecase/mocks"
)

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotentReplayIsCounted(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = mocks.NewMockIdempotencyStore()
		cfg.Metrics = m
		cfg.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}))

	body := `{"party_id":"cli-1","amount":"10","method":"cash"}`
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body))
		req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("request %d: expected 201, got %d: %s", i, rec.Code, rec.Body.String())
		}
	}

	if got := testutil.ToFloat64(m.IdempotentReplays); got != 1 {
		t.Fatalf("expected 1 replay, got %v", got)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "gestion_idempotent_replays_total 1") {
		t.Fatalf("expected replay counter in /metrics output")
	}
}

func TestNewRouter_ClientStatementEndToEnd(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/clients/cli-1/statement", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		PartyID string            `json:"party_id"`
		Balance string            `json:"balance"`
		Empty   bool              `json:"empty"`
		Entries []json.RawMessage `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.PartyID != "cli-1" || !resp.Empty || resp.Balance != "0.00" || resp.Entries == nil || len(resp.Entries) != 0 {
		t.Fatalf("unexpected empty statement %+v", resp)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Routes)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /metrics",
		"POST /api/v1/clients/",
		"GET /api/v1/clients/{id}/statement",
		"GET /api/v1/clients/{id}/adjustments",
		"GET /api/v1/suppliers/{id}/statement",
		"GET /api/v1/suppliers/{id}/purchases",
		"POST /api/v1/invoices/{id}/issue",
		"POST /api/v1/purchases/{id}/void",
		"POST /api/v1/payments",
		"POST /api/v1/adjustments",
		"POST /api/v1/tax/totals",
		"POST /api/v1/tax/split",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	payments := &stubPaymentService{}

	cfg := RouterConfig{
		PartyHandler:     handler.NewPartyHandler(stubPartyService{}),
		InvoiceHandler:   handler.NewInvoiceHandler(nil),
		PurchaseHandler:  handler.NewPurchaseHandler(nil),
		PaymentHandler:   handler.NewPaymentHandler(payments, nil),
		StatementHandler: handler.NewStatementHandler(stubStatementService{}),
		TaxHandler:       handler.NewTaxHandler(nil),
		HealthHandler:    handler.NewHealthHandlerWithCheckers(nil),
		MetricsHandler:   http.NotFoundHandler(),
		Logger:           zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type stubPartyService struct{}

func (stubPartyService) CreateParty(ctx context.Context, input usecase.CreatePartyInput) (*domain.Party, error) {
	return &domain.Party{ID: "p", Kind: input.Kind, Name: input.Name}, nil
}

func (stubPartyService) GetClient(ctx context.Context, id string) (*domain.Party, error) {
	return &domain.Party{ID: id, Kind: domain.PartyKindClient}, nil
}

func (stubPartyService) GetSupplier(ctx context.Context, id string) (*domain.Party, error) {
	return &domain.Party{ID: id, Kind: domain.PartyKindSupplier}, nil
}

func (stubPartyService) ListParties(ctx context.Context, input usecase.ListPartiesInput) ([]*domain.Party, error) {
	return []*domain.Party{}, nil
}

type stubPaymentService struct{}

func (stubPaymentService) RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (*domain.Payment, error) {
	return &domain.Payment{
		ID:        "pay-1",
		PartyID:   input.PartyID,
		PartyKind: domain.PartyKindClient,
		Amount:    input.Amount,
		Method:    input.Method,
		Date:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (stubPaymentService) ListPayments(ctx context.Context, input usecase.ListPaymentsInput) ([]*domain.Payment, error) {
	return []*domain.Payment{}, nil
}

type stubStatementService struct{}

func (stubStatementService) ClientStatement(ctx context.Context, id string) (*usecase.AccountStatement, error) {
	return &usecase.AccountStatement{
		Party:     &domain.Party{ID: id, Kind: domain.PartyKindClient, Name: "Acme"},
		Statement: domain.BuildStatement(nil, nil, nil),
	}, nil
}

func (stubStatementService) SupplierStatement(ctx context.Context, id string) (*usecase.AccountStatement, error) {
	return &usecase.AccountStatement{
		Party:     &domain.Party{ID: id, Kind: domain.PartyKindSupplier, Name: "Paper Co"},
		Statement: domain.Statement{Balance: decimal.Zero},
	}, nil
}
