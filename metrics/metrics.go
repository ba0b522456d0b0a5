package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	appointmentsBooked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "appointments_booked_total",
			Help: "Total number of appointments booked",
		},
	)

	appointmentTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appointment_transitions_total",
			Help: "Total number of appointment status changes",
		},
		[]string{"from_status", "to_status"},
	)

	bookingConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "appointment_booking_conflicts_total",
			Help: "Total number of bookings rejected because the slot was taken",
		},
	)

	paymentsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payments_processed_total",
			Help: "Total number of payments sent to the gateway",
		},
		[]string{"status"},
	)

	eligibilityChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insurance_eligibility_checks_total",
			Help: "Total number of insurance eligibility checks",
		},
		[]string{"eligible"},
	)

	claimsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insurance_claims_total",
			Help: "Total number of insurance claims submitted",
		},
		[]string{"status"},
	)

	providerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "External provider call duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "operation"},
	)

	notificationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_failures_total",
			Help: "Total number of notifications a sink failed to deliver",
		},
		[]string{"sink", "type"},
	)

	jobRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "job_runs_total",
			Help: "Total number of scheduled job runs",
		},
		[]string{"job", "result"},
	)
)

func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware records request count and latency. The route template is used
// as the path label so ids do not explode cardinality.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

func RecordAppointmentBooked() {
	appointmentsBooked.Inc()
}

func RecordBookingConflict() {
	bookingConflicts.Inc()
}

func RecordAppointmentTransition(from, to string) {
	appointmentTransitions.WithLabelValues(from, to).Inc()
}

func RecordPayment(status string) {
	paymentsProcessed.WithLabelValues(status).Inc()
}

func RecordEligibilityCheck(eligible bool) {
	eligibilityChecks.WithLabelValues(strconv.FormatBool(eligible)).Inc()
}

func RecordClaim(status string) {
	claimsSubmitted.WithLabelValues(status).Inc()
}

func RecordProviderCall(provider, operation string, duration time.Duration) {
	providerDuration.WithLabelValues(provider, operation).Observe(duration.Seconds())
}

func RecordNotificationFailure(sink, eventType string) {
	notificationFailures.WithLabelValues(sink, eventType).Inc()
}

func RecordJobRun(job string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	jobRuns.WithLabelValues(job, result).Inc()
}
