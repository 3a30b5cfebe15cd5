package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ReservationMetrics exposes counters/histograms for reservation conversations.
type ReservationMetrics struct {
	turnsTotal        *prometheus.CounterVec
	commitsTotal      *prometheus.CounterVec
	rejectionsTotal   *prometheus.CounterVec
	recognizerLatency *prometheus.HistogramVec
	storeOpsTotal     *prometheus.CounterVec
}

func NewReservationMetrics(reg prometheus.Registerer) *ReservationMetrics {
	m := &ReservationMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reservation",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total conversation turns by channel and resulting state",
		}, []string{"channel", "state"}),
		commitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reservation",
			Subsystem: "conversation",
			Name:      "commits_total",
			Help:      "Total reservations committed",
		}, []string{"channel"}),
		rejectionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reservation",
			Subsystem: "conversation",
			Name:      "time_rejections_total",
			Help:      "Requested times refused by validation",
		}, []string{"reason"}),
		recognizerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "reservation",
			Subsystem: "nlp",
			Name:      "recognize_latency_seconds",
			Help:      "Latency of entity recognition calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"recognizer", "status"}),
		storeOpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "reservation",
			Subsystem: "bookings",
			Name:      "store_operations_total",
			Help:      "Booked-list store operations",
		}, []string{"operation", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.commitsTotal, m.rejectionsTotal, m.recognizerLatency, m.storeOpsTotal)
	return m
}

func (m *ReservationMetrics) ObserveTurn(channel, state string) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(channel, state).Inc()
}

func (m *ReservationMetrics) ObserveCommit(channel string) {
	if m == nil {
		return
	}
	m.commitsTotal.WithLabelValues(channel).Inc()
}

func (m *ReservationMetrics) ObserveRejection(reason string) {
	if m == nil || reason == "" {
		return
	}
	m.rejectionsTotal.WithLabelValues(reason).Inc()
}

// ObserveRecognition records one recognizer call; a non-nil err is labelled "error".
func (m *ReservationMetrics) ObserveRecognition(recognizer string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	m.recognizerLatency.WithLabelValues(recognizer, statusLabel(err)).Observe(elapsed.Seconds())
}

func (m *ReservationMetrics) ObserveStoreOp(operation string, err error) {
	if m == nil {
		return
	}
	m.storeOpsTotal.WithLabelValues(operation, statusLabel(err)).Inc()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
