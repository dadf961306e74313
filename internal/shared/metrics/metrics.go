package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ideas"

// Analysis outcomes recorded by ObserveAnalysis.
const (
	OutcomeOK          = "ok"
	OutcomeFailed      = "failed"
	OutcomeUnavailable = "unavailable"
	OutcomeNotConfig   = "not_configured"
)

// Publish outcomes recorded by ObservePublish.
const (
	PublishOK      = "ok"
	PublishSkipped = "skipped"
	PublishFailed  = "failed"
)

var (
	registry = prometheus.NewRegistry()

	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"method", "path", "status"},
	)
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	analysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "total",
			Help:      "Idea analyses by outcome.",
		},
		[]string{"outcome"},
	)
	analysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "duration_seconds",
			Help:      "Generative model call duration in seconds.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
	)
	extractWarnings = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extract",
			Name:      "warnings_total",
			Help:      "Text extraction warnings by document kind.",
		},
		[]string{"kind"},
	)
	publishTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "drive",
			Name:      "publish_total",
			Help:      "Drive publish attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	registry.MustRegister(
		requestTotal,
		requestDuration,
		analysesTotal,
		analysisDuration,
		extractWarnings,
		publishTotal,
	)
}

// ObserveAnalysis records one analyzer call.
func ObserveAnalysis(outcome string, took time.Duration) {
	analysesTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK || outcome == OutcomeFailed {
		analysisDuration.Observe(took.Seconds())
	}
}

// AddExtractWarnings counts extraction warnings for a document kind.
func AddExtractWarnings(kind string, n int) {
	if n <= 0 {
		return
	}
	extractWarnings.WithLabelValues(kind).Add(float64(n))
}

// ObservePublish records one Drive publish outcome.
func ObservePublish(outcome string) {
	publishTotal.WithLabelValues(outcome).Inc()
}

// Middleware records request counts and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		requestTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return gin.WrapH(h)
}
