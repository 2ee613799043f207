package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	BookingsTotal         *prometheus.CounterVec
	RateLimitedTotal      *prometheus.CounterVec
	NotificationsTotal    *prometheus.CounterVec
	SlotQueriesTotal      prometheus.Counter
	StatusTransitionTotal *prometheus.CounterVec

	DBQueryDuration     *prometheus.HistogramVec
	DBOpenConnections   prometheus.Gauge
	DBInUseConnections  prometheus.Gauge
	DBIdleConnections   prometheus.Gauge
	DBWaitCount         prometheus.Gauge
	DBWaitDurationTotal prometheus.Gauge
}

// New создает и регистрирует метрики в глобальном реестре prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в указанном реестре
// Используется в тестах с prometheus.NewRegistry()
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		BookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_bookings_total",
			Help:        "Booking attempts by outcome",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		RateLimitedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "rate_limited_requests_total",
			Help:        "Requests rejected by the rate limiter",
			ConstLabels: constLabels,
		}, []string{"route"}),
		NotificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_total",
			Help:        "Notification pushes by result",
			ConstLabels: constLabels,
		}, []string{"type", "result"}),
		SlotQueriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "slot_queries_total",
			Help:        "Available slot queries served",
			ConstLabels: constLabels,
		}),
		StatusTransitionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "appointment_status_transitions_total",
			Help:        "Appointment status transitions",
			ConstLabels: constLabels,
		}, []string{"from", "to"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation", "status"}),
		DBOpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}),
		DBInUseConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}),
		DBIdleConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}),
		DBWaitCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}),
		DBWaitDurationTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        "db_wait_duration_seconds_total",
			Help:        "Total time blocked waiting for a new connection",
			ConstLabels: constLabels,
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsTotal,
		m.RateLimitedTotal,
		m.NotificationsTotal,
		m.SlotQueriesTotal,
		m.StatusTransitionTotal,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.DBWaitDurationTotal,
	)

	return m
}

// ObserveHTTPRequest записывает метрики HTTP запроса
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveDBQuery записывает длительность запроса к БД
func (m *Metrics) ObserveDBQuery(operation string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.DBQueryDuration.WithLabelValues(operation, status).Observe(duration.Seconds())
}

// IncBooking увеличивает счетчик попыток бронирования с указанным исходом
func (m *Metrics) IncBooking(outcome string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(outcome).Inc()
}

// IncRateLimited увеличивает счетчик отклонённых лимитером запросов
func (m *Metrics) IncRateLimited(route string) {
	if m == nil {
		return
	}
	m.RateLimitedTotal.WithLabelValues(route).Inc()
}

// IncNotification увеличивает счетчик отправок уведомлений
func (m *Metrics) IncNotification(notificationType, result string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(notificationType, result).Inc()
}

// IncSlotQuery увеличивает счетчик запросов слотов
func (m *Metrics) IncSlotQuery() {
	if m == nil {
		return
	}
	m.SlotQueriesTotal.Inc()
}

// IncStatusTransition увеличивает счетчик переходов статуса записи
func (m *Metrics) IncStatusTransition(from, to string) {
	if m == nil {
		return
	}
	m.StatusTransitionTotal.WithLabelValues(from, to).Inc()
}
