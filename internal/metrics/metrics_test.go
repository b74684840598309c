package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ApplicationSubmitted()
	m.ApplicationSubmitted()
	m.ApplicationDecision("principal", "approved")
	m.AttendanceAction("clock_in")
	m.QueueDepth(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submitted))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("principal", "approved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.attendance.WithLabelValues("clock_in")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.queueDepth))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ApplicationSubmitted()
	m.ApplicationDecision("admin", "approved")
	m.AttendanceAction("clock_out")
	m.QueueDepth(3)
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := New(reg)
	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration))
}
