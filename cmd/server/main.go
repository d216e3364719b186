package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/iho/gestion/internal/adapter/http"
	"github.com/iho/gestion/internal/adapter/http/handler"
	"github.com/iho/gestion/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/gestion/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/gestion/internal/adapter/repository/redis"
	"github.com/iho/gestion/internal/infrastructure/config"
	"github.com/iho/gestion/internal/infrastructure/eventpublisher"
	"github.com/iho/gestion/internal/infrastructure/logger"
	"github.com/iho/gestion/internal/infrastructure/metrics"
	"github.com/iho/gestion/internal/infrastructure/postgres"
	"github.com/iho/gestion/internal/infrastructure/redis"
	"github.com/iho/gestion/internal/usecase"
)

const limiterIdleTimeout = 10 * time.Minute

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := zerolog.New(os.Stderr)
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Version: version})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.RunMigrations {
		if err := postgres.NewMigrator(cfg.DatabaseURL, cfg.MigrationsPath, log).Up(); err != nil {
			return err
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
		Logger:         log,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := redis.NewClient(ctx, redis.ClientConfig{
		URL:      cfg.RedisURL,
		PoolSize: cfg.RedisPoolSize,
		Logger:   log,
	})
	if err != nil {
		return err
	}
	defer redisClient.Close()

	m := metrics.New()

	// Repositories
	txManager, err := postgresRepo.NewTxManager(pool, cfg.TxIsolation)
	if err != nil {
		return err
	}
	retrier := postgresRepo.NewRetrier(log, postgresRepo.RetryConfig{
		MaxRetries:      cfg.RetryMaxAttempts,
		InitialInterval: cfg.RetryInitialDelay,
		MaxElapsedTime:  cfg.RetryMaxElapsed,
		OnRetry:         m.DBRetry,
	})
	idGen := postgresRepo.NewULIDGenerator()
	partyRepo := postgresRepo.NewPartyRepository(pool)
	invoiceRepo := postgresRepo.NewInvoiceRepository(pool)
	purchaseRepo := postgresRepo.NewPurchaseRepository(pool)
	paymentRepo := postgresRepo.NewPaymentRepository(pool)
	adjustmentRepo := postgresRepo.NewAdjustmentRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	cache := redisRepo.NewCache(redisClient, cfg.CacheNamespace).OnLookup(m.CacheLookup)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)

	// Use cases
	partyUC := usecase.NewPartyUseCase(txManager, partyRepo, outboxRepo, cache, cfg.PartyCacheTTL, idGen)
	invoiceUC := usecase.NewInvoiceUseCase(txManager, partyRepo, invoiceRepo, outboxRepo, retrier, idGen, m)
	purchaseUC := usecase.NewPurchaseUseCase(txManager, partyRepo, purchaseRepo, outboxRepo, retrier, idGen, m)
	paymentUC := usecase.NewPaymentUseCase(txManager, partyRepo, paymentRepo, outboxRepo, idGen, m)
	adjustmentUC := usecase.NewAdjustmentUseCase(txManager, partyRepo, adjustmentRepo, outboxRepo, idGen, m)
	statementUC := usecase.NewStatementUseCase(partyRepo, invoiceRepo, purchaseRepo, paymentRepo, adjustmentRepo, m)

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).
		OnLimit(func(ip string) { m.RateLimitHits.WithLabelValues(ip).Inc() })

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		PartyHandler:     handler.NewPartyHandler(partyUC),
		InvoiceHandler:   handler.NewInvoiceHandler(invoiceUC),
		PurchaseHandler:  handler.NewPurchaseHandler(purchaseUC),
		PaymentHandler:   handler.NewPaymentHandler(paymentUC, adjustmentUC),
		StatementHandler: handler.NewStatementHandler(statementUC),
		TaxHandler:       handler.NewTaxHandler(invoiceUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		RateLimiter:      rateLimiter,
		Metrics:          m,
		Logger:           log,
	})

	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  eventpublisher.NewLogPublisher(log),
		Recorder:   m,
		Logger:     log,
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxPollInterval,
		Retention:  cfg.OutboxRetention,
	})

	server := &http.Server{
		Addr:         listenAddr(cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := publisher.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(limiterIdleTimeout)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				if n := rateLimiter.CleanupLimiters(limiterIdleTimeout); n > 0 {
					log.Debug().Int("removed", n).Msg("dropped idle rate limiters")
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// listenAddr turns a bare port into a listen address.
func listenAddr(port string) string {
	if _, _, err := net.SplitHostPort(port); err == nil {
		return port
	}
	return net.JoinHostPort("", port)
}
