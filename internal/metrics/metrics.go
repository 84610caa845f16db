package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the flight log service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// PIREP Metrics
	PirepsCreatedTotal      prometheus.Counter
	PirepEditsTotal         prometheus.Counter
	PirepTransitionsTotal   *prometheus.CounterVec
	PirepValidationFailures *prometheus.CounterVec
	PirepNotificationsTotal *prometheus.CounterVec

	// Rank Metrics
	RankEvaluationsTotal        *prometheus.CounterVec
	RankEvaluationsDroppedTotal prometheus.Counter
	RankReconcileDuration       prometheus.Histogram
}

// NewMetricsRegistry registers every metric against reg.
// Tests pass a fresh prometheus.NewRegistry() so registrations never collide.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightlog_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "flightlog_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "flightlog_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// PIREP Metrics
		PirepsCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flightlog_pireps_created_total",
				Help: "Total PIREPs filed",
			},
		),
		PirepEditsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flightlog_pirep_edits_total",
				Help: "Total PIREP edits applied",
			},
		),
		PirepTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightlog_pirep_transitions_total",
				Help: "Total status transitions by action",
			},
			[]string{"action"},
		),
		PirepValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightlog_pirep_validation_failures_total",
				Help: "Rejected PIREP mutations by error code",
			},
			[]string{"code"},
		),
		PirepNotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightlog_pirep_notifications_total",
				Help: "Outbound PIREP notifications by outcome",
			},
			[]string{"outcome"},
		),

		// Rank Metrics
		RankEvaluationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flightlog_rank_evaluations_total",
				Help: "Processed rank evaluations by outcome",
			},
			[]string{"outcome"},
		),
		RankEvaluationsDroppedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "flightlog_rank_evaluations_dropped_total",
				Help: "Rank evaluations dropped because the queue was full or unreachable",
			},
		),
		RankReconcileDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flightlog_rank_reconcile_duration_seconds",
				Help:    "Nightly rank reconciliation run time in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
			},
		),
	}
}

// The helpers below tolerate a nil registry so services can run without metrics.

func (m *MetricsRegistry) PirepCreated() {
	if m == nil {
		return
	}
	m.PirepsCreatedTotal.Inc()
}

func (m *MetricsRegistry) PirepEdited() {
	if m == nil {
		return
	}
	m.PirepEditsTotal.Inc()
}

func (m *MetricsRegistry) PirepTransition(action string) {
	if m == nil {
		return
	}
	m.PirepTransitionsTotal.WithLabelValues(action).Inc()
}

func (m *MetricsRegistry) ValidationFailure(code string) {
	if m == nil {
		return
	}
	m.PirepValidationFailures.WithLabelValues(code).Inc()
}

func (m *MetricsRegistry) Notification(outcome string) {
	if m == nil {
		return
	}
	m.PirepNotificationsTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsRegistry) RankEvaluation(outcome string) {
	if m == nil {
		return
	}
	m.RankEvaluationsTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsRegistry) RankEvaluationDropped() {
	if m == nil {
		return
	}
	m.RankEvaluationsDroppedTotal.Inc()
}

func (m *MetricsRegistry) ObserveReconcile(seconds float64) {
	if m == nil {
		return
	}
	m.RankReconcileDuration.Observe(seconds)
}
