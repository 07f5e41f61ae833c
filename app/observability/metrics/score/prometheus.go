package scoremetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type prometheusMetrics struct {
	attempts    *prometheus.CounterVec
	successes   *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	awarded     *prometheus.CounterVec
	awards      *prometheus.CounterVec
	denied      *prometheus.CounterVec
	audited     prometheus.Counter
	auditDrift  prometheus.Counter
	lastAuditAt prometheus.Gauge
}

// NewPrometheus registers the scoring collectors on reg.
func NewPrometheus(reg prometheus.Registerer, namespace string) (ScoreMetrics, error) {
	m := &prometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "service", Name: "operation_attempts_total",
			Help: "Service operations started.",
		}, []string{"operation", "service"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "service", Name: "operation_successes_total",
			Help: "Service operations that completed without an infrastructure error.",
		}, []string{"operation", "service"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "service", Name: "operation_failures_total",
			Help: "Service operations that failed with an infrastructure error.",
		}, []string{"operation", "service"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "service", Name: "operation_duration_seconds",
			Help:    "Service operation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "service"}),
		awarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ledger", Name: "points_awarded_total",
			Help: "Sum of awarded point values.",
		}, []string{"category"}),
		awards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "ledger", Name: "point_events_total",
			Help: "Point events recorded.",
		}, []string{"category"}),
		denied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "auth", Name: "denied_total",
			Help: "Requests rejected as unauthorized.",
		}, []string{"operation"}),
		audited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "audit", Name: "members_audited_total",
			Help: "Score records compared against the event log.",
		}),
		auditDrift: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "audit", Name: "drift_total",
			Help: "Score records that disagreed with the event log.",
		}),
		lastAuditAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "audit", Name: "last_run_timestamp_seconds",
			Help: "Unix time of the last completed audit.",
		}),
	}

	collectors := []prometheus.Collector{
		m.attempts, m.successes, m.failures, m.duration,
		m.awarded, m.awards, m.denied,
		m.audited, m.auditDrift, m.lastAuditAt,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *prometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(operation, service).Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.duration.WithLabelValues(operation, service).Observe(d.Seconds())
}

// RecordPointsAwarded adds value to the awarded sum. Negative awards only
// count as events since counters cannot decrease.
func (m *prometheusMetrics) RecordPointsAwarded(_ context.Context, category string, value int64) {
	m.awards.WithLabelValues(category).Inc()
	if value > 0 {
		m.awarded.WithLabelValues(category).Add(float64(value))
	}
}

func (m *prometheusMetrics) RecordAuthorizationDenied(_ context.Context, operation string) {
	m.denied.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordAuditRun(_ context.Context, audited int, drifted int) {
	m.audited.Add(float64(audited))
	m.auditDrift.Add(float64(drifted))
	m.lastAuditAt.SetToCurrentTime()
}
