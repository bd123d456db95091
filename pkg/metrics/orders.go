package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics records order placement and lifecycle activity.
type OrderMetrics struct {
	placeDuration *prometheus.HistogramVec
	placed        prometheus.Counter
	rejected      *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	outboxOK      prometheus.Counter
	outboxFailed  prometheus.Counter
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	placeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "order_place_duration_seconds",
		Help:    "Duration of order placement attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	placed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders placed successfully.",
	})
	rejected := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_rejected_total",
		Help: "Orders rejected before commit.",
	}, []string{"reason"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Order status transitions applied.",
	}, []string{"from", "to"})
	outboxOK := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_published_total",
		Help: "Outbox events published downstream.",
	})
	outboxFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outbox_events_failed_total",
		Help: "Outbox publish attempts that failed.",
	})
	reg.MustRegister(placeDuration, placed, rejected, transitions, outboxOK, outboxFailed)
	return &OrderMetrics{
		placeDuration: placeDuration,
		placed:        placed,
		rejected:      rejected,
		transitions:   transitions,
		outboxOK:      outboxOK,
		outboxFailed:  outboxFailed,
	}
}

// ObservePlaceDuration records how long a placement attempt took.
func (m *OrderMetrics) ObservePlaceDuration(outcome string, duration time.Duration) {
	if m == nil || m.placeDuration == nil {
		return
	}
	m.placeDuration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncPlaced increments the successful placement counter.
func (m *OrderMetrics) IncPlaced() {
	if m == nil || m.placed == nil {
		return
	}
	m.placed.Inc()
}

// IncRejected increments the rejection counter for the given reason.
func (m *OrderMetrics) IncRejected(reason string) {
	if m == nil || m.rejected == nil {
		return
	}
	m.rejected.WithLabelValues(normalizeLabel(reason)).Inc()
}

// IncTransition counts one applied status transition.
func (m *OrderMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

// IncOutboxPublished increments the published event counter.
func (m *OrderMetrics) IncOutboxPublished() {
	if m == nil || m.outboxOK == nil {
		return
	}
	m.outboxOK.Inc()
}

// IncOutboxFailed increments the failed publish counter.
func (m *OrderMetrics) IncOutboxFailed() {
	if m == nil || m.outboxFailed == nil {
		return
	}
	m.outboxFailed.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
