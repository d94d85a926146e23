package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the service exports
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration  *prometheus.HistogramVec
	DBOpenConns      *prometheus.GaugeVec
	DBInUseConns     *prometheus.GaugeVec
	DBIdleConns      *prometheus.GaugeVec
	DBWaitCountTotal *prometheus.GaugeVec

	ConflictChecksTotal *prometheus.CounterVec
	ConflictsFound      *prometheus.CounterVec
}

// New registers collectors on the default registry
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers collectors on reg; tests pass a fresh registry
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBOpenConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open database connections",
			ConstLabels: constLabels,
		}, []string{}),

		DBInUseConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Database connections in use",
			ConstLabels: constLabels,
		}, []string{}),

		DBIdleConns: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Idle database connections",
			ConstLabels: constLabels,
		}, []string{}),

		DBWaitCountTotal: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count_total",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{}),

		ConflictChecksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "venue_conflict_checks_total",
			Help:        "Venue conflict checks by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),

		ConflictsFound: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "venue_conflicts_found_total",
			Help:        "Individual conflicting sessions found",
			ConstLabels: constLabels,
		}, []string{"kind"}),
	}
}

// ObserveConflictCheck implements the conflicts.Recorder contract
func (m *Metrics) ObserveConflictCheck(outcome string, committed, batch int) {
	m.ConflictChecksTotal.WithLabelValues(outcome).Inc()
	if committed > 0 {
		m.ConflictsFound.WithLabelValues("committed").Add(float64(committed))
	}
	if batch > 0 {
		m.ConflictsFound.WithLabelValues("batch").Add(float64(batch))
	}
}
