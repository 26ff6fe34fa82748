package metrics

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_ObserveSweep(t *testing.T) {
	m := NewWithRegisterer("parking-test", prometheus.NewRegistry())

	m.ObserveSweep(10*time.Millisecond, false, map[string]int{"completed": 2, "skipped": 1})
	m.ObserveSweep(5*time.Millisecond, true, nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SweepRunsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SweepRunsTotal.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.SweepBookingsTotal.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SweepBookingsTotal.WithLabelValues("skipped")))
}

func TestMetrics_BookingOperations(t *testing.T) {
	m := NewWithRegisterer("parking-test", prometheus.NewRegistry())

	m.IncBookingOperation("create", "ok")
	m.IncBookingOperation("create", "ok")
	m.IncBookingOperation("create", "slot_unavailable")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingOperationsTotal.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingOperationsTotal.WithLabelValues("create", "slot_unavailable")))
}

func TestMetrics_DB(t *testing.T) {
	m := NewWithRegisterer("parking-test", prometheus.NewRegistry())

	m.ObserveDBQuery("exec", time.Millisecond, nil)
	m.ObserveDBQuery("exec", time.Millisecond, errors.New("boom"))
	m.SetDBPoolStats(sql.DBStats{OpenConnections: 4, InUse: 1, WaitCount: 3})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrors.WithLabelValues("exec")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.DBOpenConnections))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBInUseConns))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DBWaitCount))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/lots", "200", time.Millisecond)
		m.IncBookingOperation("create", "ok")
		m.ObserveSweep(time.Millisecond, false, map[string]int{"completed": 1})
		m.ObserveDBQuery("query", time.Millisecond, nil)
		m.SetDBPoolStats(sql.DBStats{})
	})
}
