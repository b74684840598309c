package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors the services and the HTTP layer report to.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	submitted  prometheus.Counter
	decisions  *prometheus.CounterVec
	attendance *prometheus.CounterVec
	queueDepth prometheus.Gauge
	duration   *prometheus.HistogramVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "preschool",
			Name:      "applications_submitted_total",
			Help:      "Admission applications received.",
		}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "preschool",
			Name:      "application_decisions_total",
			Help:      "Workflow decisions recorded on applications.",
		}, []string{"step", "outcome"}),
		attendance: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "preschool",
			Name:      "attendance_events_total",
			Help:      "Attendance clock and approval actions.",
		}, []string{"action"}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "preschool",
			Name:      "notification_queue_depth",
			Help:      "Status emails waiting to be sent.",
		}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "preschool",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.submitted, m.decisions, m.attendance, m.queueDepth, m.duration)
	return m
}

func (m *Metrics) ApplicationSubmitted() {
	if m == nil {
		return
	}
	m.submitted.Inc()
}

func (m *Metrics) ApplicationDecision(step, outcome string) {
	if m == nil {
		return
	}
	m.decisions.WithLabelValues(step, outcome).Inc()
}

func (m *Metrics) AttendanceAction(action string) {
	if m == nil {
		return
	}
	m.attendance.WithLabelValues(action).Inc()
}

func (m *Metrics) QueueDepth(n int64) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}

// GinMiddleware observes request latency per matched route.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.duration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
