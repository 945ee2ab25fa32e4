package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSchedulingMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulingMetrics(reg)

	m.ObserveTransition("", "pending")
	m.ObserveTransition("pending", "confirmed")
	m.ObserveTransition("pending", "confirmed")
	m.ObserveNotification("customer", nil)
	m.ObserveNotification("admin", errors.New("down"))
	m.ObserveAvailability(true)
	m.ObserveAvailability(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("new", "pending")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("pending", "confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("customer", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("admin", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.availability.WithLabelValues("true")))
}

func TestSchedulingMetrics_NilSafe(t *testing.T) {
	var m *SchedulingMetrics
	assert.NotPanics(t, func() {
		m.ObserveTransition("pending", "confirmed")
		m.ObserveNotification("customer", nil)
		m.ObserveAvailability(true)
	})
}
