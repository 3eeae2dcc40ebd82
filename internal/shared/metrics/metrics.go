package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce sync.Once

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "resumeparser",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumeparser",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests served.",
		},
		[]string{"method", "path", "status"},
	)

	resumesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumeparser",
			Subsystem: "pipeline",
			Name:      "resumes_processed_total",
			Help:      "Resume pipeline runs by outcome.",
		},
		[]string{"outcome"},
	)

	llmAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "resumeparser",
			Subsystem: "llm",
			Name:      "attempts_total",
			Help:      "LLM call attempts by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	pipelineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "resumeparser",
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "End-to-end per-file pipeline duration.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)
)

func register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(requestDuration, requestTotal, resumesProcessed, llmAttempts, pipelineDuration)
	})
}

// GinMiddleware records request counters and latency per route.
func GinMiddleware() gin.HandlerFunc {
	register()

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		labels := prometheus.Labels{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		}
		requestDuration.With(labels).Observe(time.Since(start).Seconds())
		requestTotal.With(labels).Inc()
	}
}

// Handler serves the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	register()
	return gin.WrapH(promhttp.Handler())
}

// IncResumeProcessed counts one pipeline run; outcome is "ok" or "failed".
func IncResumeProcessed(outcome string) {
	register()
	resumesProcessed.WithLabelValues(outcome).Inc()
}

// IncLLMAttempt counts one LLM call attempt for an operation.
func IncLLMAttempt(operation, outcome string) {
	register()
	llmAttempts.WithLabelValues(operation, outcome).Inc()
}

// ObservePipelineDuration records one per-file pipeline duration.
func ObservePipelineDuration(d time.Duration) {
	register()
	pipelineDuration.Observe(d.Seconds())
}
