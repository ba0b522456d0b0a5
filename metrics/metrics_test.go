package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddleware_UsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/patients/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/patients/:id", "200"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/patients/abc123", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/patients/:id", "200")))
}

func TestBusinessCounters(t *testing.T) {
	before := testutil.ToFloat64(jobRuns.WithLabelValues("reconcile", "error"))
	RecordJobRun("reconcile", errors.New("boom"))
	assert.Equal(t, before+1, testutil.ToFloat64(jobRuns.WithLabelValues("reconcile", "error")))

	before = testutil.ToFloat64(eligibilityChecks.WithLabelValues("true"))
	RecordEligibilityCheck(true)
	assert.Equal(t, before+1, testutil.ToFloat64(eligibilityChecks.WithLabelValues("true")))
}

func TestHandler_ExposesCollectors(t *testing.T) {
	RecordAppointmentBooked()
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "appointments_booked_total"))
}
