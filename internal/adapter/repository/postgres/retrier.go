package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// SQLSTATE codes worth another attempt.
const (
	pgErrSerializationFailure = "40001"
	pgErrDeadlock             = "40P01"
	pgErrLockNotAvailable     = "55P03"
)

// RetryConfig bounds how hard Retrier tries. Zero durations take defaults.
type RetryConfig struct {
	// MaxRetries of 0 disables retries. A negative value takes the default.
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
	// OnRetry is called with the SQLSTATE of every retried failure.
	OnRetry func(code string)
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxRetries < 0 {
		c.MaxRetries = 3
	}
	if c.InitialInterval <= 0 {
		c.InitialInterval = 50 * time.Millisecond
	}
	if c.MaxInterval <= 0 {
		c.MaxInterval = time.Second
	}
	if c.MaxElapsedTime <= 0 {
		c.MaxElapsedTime = 10 * time.Second
	}
	return c
}

// Retrier implements usecase.Retrier. Document status transitions run under
// row locks, so concurrent issue/void calls on the same invoice can deadlock
// or fail serialization; those attempts are replayed with exponential backoff.
type Retrier struct {
	cfg    RetryConfig
	logger zerolog.Logger
}

func NewRetrier(logger zerolog.Logger, cfg RetryConfig) *Retrier {
	return &Retrier{cfg: cfg.withDefaults(), logger: logger}
}

// Retry runs operation until it succeeds, fails permanently or the retry
// budget is spent. The last error is returned unchanged.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.cfg.InitialInterval
	b.MaxInterval = r.cfg.MaxInterval
	b.MaxElapsedTime = r.cfg.MaxElapsedTime

	attempt := 0
	return backoff.Retry(func() error {
		err := operation()
		if err == nil {
			return nil
		}

		code, ok := retryableCode(err)
		if !ok {
			return backoff.Permanent(err)
		}

		attempt++
		if attempt > r.cfg.MaxRetries {
			return backoff.Permanent(err)
		}

		if r.cfg.OnRetry != nil {
			r.cfg.OnRetry(code)
		}
		r.logger.Warn().
			Err(err).
			Str("sqlstate", code).
			Int("attempt", attempt).
			Msg("transient database error, retrying")

		return err
	}, backoff.WithContext(b, ctx))
}

// retryableCode reports the SQLSTATE of a transient failure. Connection
// errors that pgconn marks safe to retry report "conn".
func retryableCode(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrSerializationFailure, pgErrDeadlock, pgErrLockNotAvailable:
			return pgErr.Code, true
		}
		return pgErr.Code, false
	}
	if pgconn.SafeToRetry(err) {
		return "conn", true
	}
	return "", false
}
