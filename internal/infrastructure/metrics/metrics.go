package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/gestion/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Document metrics
	InvoicesIssued    prometheus.Counter
	InvoicesVoided    prometheus.Counter
	PurchasesRecorded prometheus.Counter

	// Account metrics
	PaymentsRecorded    *prometheus.CounterVec
	AdjustmentsRecorded *prometheus.CounterVec
	StatementsBuilt     *prometheus.CounterVec
	StatementEntries    *prometheus.HistogramVec
	StatementDuration   *prometheus.HistogramVec

	// API metrics
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
	RateLimitHits     *prometheus.CounterVec
	IdempotentReplays prometheus.Counter

	// Outbox metrics
	OutboxPublished prometheus.Counter
	OutboxErrors    prometheus.Counter

	// Storage metrics
	DBRetries    *prometheus.CounterVec
	CacheLookups *prometheus.CounterVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates and registers all metrics on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		InvoicesIssued: f.NewCounter(prometheus.CounterOpts{
			Name: "gestion_invoices_issued_total",
			Help: "Total number of invoices issued",
		}),
		InvoicesVoided: f.NewCounter(prometheus.CounterOpts{
			Name: "gestion_invoices_voided_total",
			Help: "Total number of invoices voided",
		}),
		PurchasesRecorded: f.NewCounter(prometheus.CounterOpts{
			Name: "gestion_purchases_recorded_total",
			Help: "Total number of supplier invoices recorded",
		}),

		PaymentsRecorded: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gestion_payments_recorded_total",
				Help: "Total payments recorded by party kind",
			},
			[]string{"kind"},
		),
		AdjustmentsRecorded: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gestion_adjustments_recorded_total",
				Help: "Total manual adjustments by direction",
			},
			[]string{"direction"},
		),
		StatementsBuilt: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gestion_statements_built_total",
				Help: "Total account statements built",
			},
			[]string{"kind"},
		),
		StatementEntries: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gestion_statement_entries",
				Help:    "Number of entries in a built statement",
				Buckets: []float64{0, 1, 5, 10, 50, 100, 500, 1000, 5000},
			},
			[]string{"kind"},
		),
		StatementDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gestion_statement_duration_seconds",
				Help:    "Time spent loading and building a statement",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),

		HTTPRequests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gestion_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gestion_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		RateLimitHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gestion_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"ip"},
		),
		IdempotentReplays: f.NewCounter(prometheus.CounterOpts{
			Name: "gestion_idempotent_replays_total",
			Help: "Responses served from the idempotency store",
		}),

		OutboxPublished: f.NewCounter(prometheus.CounterOpts{
			Name: "gestion_outbox_published_total",
			Help: "Outbox events published",
		}),
		OutboxErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "gestion_outbox_errors_total",
			Help: "Outbox events that failed to publish",
		}),

		DBRetries: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gestion_db_retries_total",
				Help: "Transactions retried after a transient failure, by SQLSTATE",
			},
			[]string{"code"},
		),
		CacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gestion_cache_lookups_total",
				Help: "Party cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) InvoiceIssued() { m.InvoicesIssued.Inc() }

func (m *Metrics) InvoiceVoided() { m.InvoicesVoided.Inc() }

func (m *Metrics) PurchaseRecorded() { m.PurchasesRecorded.Inc() }

func (m *Metrics) PaymentRecorded(kind domain.PartyKind) {
	m.PaymentsRecorded.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) AdjustmentRecorded(direction domain.AdjustmentDirection) {
	m.AdjustmentsRecorded.WithLabelValues(string(direction)).Inc()
}

// StatementBuilt records one statement of the given party kind.
func (m *Metrics) StatementBuilt(kind domain.PartyKind, entries int, duration time.Duration) {
	label := string(kind)
	m.StatementsBuilt.WithLabelValues(label).Inc()
	m.StatementEntries.WithLabelValues(label).Observe(float64(entries))
	m.StatementDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// EventPublished implements eventpublisher.Recorder.
func (m *Metrics) EventPublished() { m.OutboxPublished.Inc() }

// EventFailed implements eventpublisher.Recorder.
func (m *Metrics) EventFailed() { m.OutboxErrors.Inc() }

// DBRetry records one retried transaction.
func (m *Metrics) DBRetry(code string) { m.DBRetries.WithLabelValues(code).Inc() }

// CacheLookup records a party cache hit or miss.
func (m *Metrics) CacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
