package metrics

import (
	"database/sql"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	BookingOperationsTotal *prometheus.CounterVec

	SweepRunsTotal     *prometheus.CounterVec
	SweepBookingsTotal *prometheus.CounterVec
	SweepDuration      prometheus.Histogram

	DBQueryDuration   *prometheus.HistogramVec
	DBQueryErrors     *prometheus.CounterVec
	DBOpenConnections prometheus.Gauge
	DBInUseConns      prometheus.Gauge
	DBWaitCount       prometheus.Gauge
}

// New регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном registerer
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latency",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		BookingOperationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "booking_operations_total",
			Help:        "Booking lifecycle operations by result",
			ConstLabels: labels,
		}, []string{"operation", "result"}),

		SweepRunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "expiration_sweep_runs_total",
			Help:        "Expiration sweep runs by result",
			ConstLabels: labels,
		}, []string{"result"}),

		SweepBookingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "expiration_sweep_bookings_total",
			Help:        "Bookings processed by the expiration sweep by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),

		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:        "expiration_sweep_duration_seconds",
			Help:        "Expiration sweep duration",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query latency by operation",
			ConstLabels: labels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),

		DBQueryErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Database query errors by operation",
			ConstLabels: labels,
		}, []string{"operation"}),

		DBOpenConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Open connections in the pool",
			ConstLabels: labels,
		}),

		DBInUseConns: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Connections currently in use",
			ConstLabels: labels,
		}),

		DBWaitCount: factory.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}),
	}
}

// ObserveHTTPRequest фиксирует обработанный HTTP запрос
// Методы безопасно вызывать на nil *Metrics: метрики выключены в конфигурации
func (m *Metrics) ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncBookingOperation фиксирует результат операции с бронированием
func (m *Metrics) IncBookingOperation(operation, result string) {
	if m == nil {
		return
	}
	m.BookingOperationsTotal.WithLabelValues(operation, result).Inc()
}

// ObserveSweep фиксирует прогон sweep и его итоги по исходам
func (m *Metrics) ObserveSweep(duration time.Duration, failed bool, outcomes map[string]int) {
	if m == nil {
		return
	}
	result := "ok"
	if failed {
		result = "error"
	}
	m.SweepRunsTotal.WithLabelValues(result).Inc()
	m.SweepDuration.Observe(duration.Seconds())

	for outcome, n := range outcomes {
		m.SweepBookingsTotal.WithLabelValues(outcome).Add(float64(n))
	}
}

// ObserveDBQuery фиксирует длительность запроса к базе
func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// SetDBPoolStats обновляет метрики пула соединений
func (m *Metrics) SetDBPoolStats(stats sql.DBStats) {
	if m == nil {
		return
	}
	m.DBOpenConnections.Set(float64(stats.OpenConnections))
	m.DBInUseConns.Set(float64(stats.InUse))
	m.DBWaitCount.Set(float64(stats.WaitCount))
}
