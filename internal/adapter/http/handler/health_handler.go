package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	checks []namedCheck
}

type namedCheck struct {
	name   string
	pinger Pinger
}

// NewHealthHandler creates a HealthHandler probing Postgres and Redis.
func NewHealthHandler(pool *pgxpool.Pool, redisClient *redis.Client) *HealthHandler {
	return NewHealthHandlerWithCheckers(map[string]Pinger{
		"postgres": pool,
		"redis":    redisPinger{client: redisClient},
	})
}

// NewHealthHandlerWithCheckers creates a HealthHandler over arbitrary dependencies.
func NewHealthHandlerWithCheckers(checks map[string]Pinger) *HealthHandler {
	h := &HealthHandler{}
	for _, name := range []string{"postgres", "redis"} {
		if p, ok := checks[name]; ok {
			h.checks = append(h.checks, namedCheck{name: name, pinger: p})
		}
	}
	return h
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if the service is ready to accept traffic.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := map[string]string{"status": "ready"}

	for _, c := range h.checks {
		if err := c.pinger.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, c.name+" unhealthy", err.Error())
			return
		}
		status[c.name] = "ok"
	}

	writeJSON(w, http.StatusOK, status)
}
