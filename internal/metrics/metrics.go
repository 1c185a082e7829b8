package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postmod_requests_total",
		Help: "Total HTTP requests by method, route, and response status.",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "postmod_request_duration_seconds",
		Help:    "Request duration in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	classificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postmod_toxicity_classifications_total",
		Help: "Toxicity classifier calls by result (clean, toxic, unavailable, cached).",
	}, []string{"result"})

	classificationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "postmod_toxicity_classification_duration_seconds",
		Help:    "Latency of remote toxicity classifier calls.",
		Buckets: prometheus.DefBuckets,
	})

	rejectedContentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postmod_rejected_content_total",
		Help: "Content rejected by the moderation gate by category tag.",
	}, []string{"tag"})

	reportsCreatedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postmod_reports_created_total",
		Help: "Reports filed by reported element type.",
	}, []string{"type"})

	reportDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postmod_report_decisions_total",
		Help: "Report decisions by element type and outcome.",
	}, []string{"type", "status"})
)

// Middleware records per-request metrics.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		route := c.Route().Path
		if route == "" {
			route = c.Path()
		}
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		requestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		requestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler serves the Prometheus registry.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

func RecordClassification(result string, d time.Duration) {
	classificationsTotal.WithLabelValues(result).Inc()
	if d > 0 {
		classificationDuration.Observe(d.Seconds())
	}
}

func RecordRejectedContent(tags []string) {
	for _, tag := range tags {
		rejectedContentTotal.WithLabelValues(tag).Inc()
	}
}

func RecordReportCreated(reportType string) {
	reportsCreatedTotal.WithLabelValues(reportType).Inc()
}

func RecordReportDecision(reportType, status string) {
	reportDecisionsTotal.WithLabelValues(reportType, status).Inc()
}
