package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics counts status transitions, notification outcomes and
// availability lookups.
type SchedulingMetrics struct {
	transitions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	availability  *prometheus.CounterVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduler",
			Subsystem: "appointments",
			Name:      "status_transitions_total",
			Help:      "Persisted appointment status changes",
		}, []string{"from", "to"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduler",
			Subsystem: "appointments",
			Name:      "notifications_total",
			Help:      "Appointment emails by recipient and result",
		}, []string{"recipient", "result"}),
		availability: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "scheduler",
			Subsystem: "availability",
			Name:      "queries_total",
			Help:      "Availability lookups by whether the date was bookable",
		}, []string{"bookable"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.transitions, m.notifications, m.availability)
	return m
}

func (m *SchedulingMetrics) ObserveTransition(from, to string) {
	if m == nil {
		return
	}
	if from == "" {
		from = "new"
	}
	m.transitions.WithLabelValues(from, to).Inc()
}

func (m *SchedulingMetrics) ObserveNotification(recipient string, err error) {
	if m == nil {
		return
	}
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.notifications.WithLabelValues(recipient, result).Inc()
}

func (m *SchedulingMetrics) ObserveAvailability(bookable bool) {
	if m == nil {
		return
	}
	label := "false"
	if bookable {
		label = "true"
	}
	m.availability.WithLabelValues(label).Inc()
}
