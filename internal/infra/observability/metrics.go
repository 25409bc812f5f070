package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the API.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	mutations       *prometheus.CounterVec
	compensations   *prometheus.CounterVec
	rateLimited     prometheus.Counter
	eventsPublished *prometheus.CounterVec
	snapshots       *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "spendwise_operation_duration_seconds",
				Help:    "Duration of service operations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendwise_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendwise_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendwise_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		mutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendwise_mutations_total",
				Help: "Cross-entity mutation sequences by outcome.",
			},
			[]string{"operation", "status"},
		),
		compensations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendwise_saga_compensations_total",
				Help: "Compensating actions run after a failed mutation step.",
			},
			[]string{"step", "result"},
		),
		rateLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "spendwise_rate_limited_total",
				Help: "Requests rejected by the rate limiter.",
			},
		),
		eventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendwise_events_published_total",
				Help: "Domain events published by type and outcome.",
			},
			[]string{"type", "status"},
		),
		snapshots: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "spendwise_networth_snapshots_total",
				Help: "Net worth snapshots written by trigger.",
			},
			[]string{"trigger", "status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrMutation records the outcome ("success", "failed", "compensated") of a mutation sequence.
func (m *Metrics) IncrMutation(operation, status string) {
	m.mutations.WithLabelValues(operation, status).Inc()
}

// IncrCompensation records one undo step and whether it succeeded.
func (m *Metrics) IncrCompensation(step string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.compensations.WithLabelValues(step, result).Inc()
}

// IncrRateLimited increments the rejected request counter.
func (m *Metrics) IncrRateLimited() {
	m.rateLimited.Inc()
}

// IncrEvent records a publish attempt.
func (m *Metrics) IncrEvent(eventType string, ok bool) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.eventsPublished.WithLabelValues(eventType, status).Inc()
}

// IncrSnapshot records a net worth snapshot write.
func (m *Metrics) IncrSnapshot(trigger string, ok bool) {
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.snapshots.WithLabelValues(trigger, status).Inc()
}

// MutationCount returns the counter for one operation/status pair.
func (m *Metrics) MutationCount(operation, status string) float64 {
	return counterValue(m.mutations.WithLabelValues(operation, status))
}

// CompensationCount returns how many undo steps ran for step with the given outcome.
func (m *Metrics) CompensationCount(step string, ok bool) float64 {
	result := "ok"
	if !ok {
		result = "failed"
	}
	return counterValue(m.compensations.WithLabelValues(step, result))
}

// CacheCounts returns hits and misses for one cache.
func (m *Metrics) CacheCounts(cache string) (hits, misses float64) {
	return counterValue(m.cacheHits.WithLabelValues(cache)), counterValue(m.cacheMisses.WithLabelValues(cache))
}

// RateLimitedCount returns the number of rejected requests.
func (m *Metrics) RateLimitedCount() float64 {
	return counterValue(m.rateLimited)
}

// counterValue extracts the current float64 value from a counter.
func counterValue(counter prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := counter.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
