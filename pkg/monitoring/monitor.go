package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// RenderTotal counts render calls by output format, mode and outcome.
	RenderTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_render_total",
			Help: "Total number of exam renders",
		},
		[]string{"format", "mode", "status"},
	)

	RenderDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "exam_render_duration_seconds",
			Help:    "Duration of exam renders that missed the cache",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2},
		},
		[]string{"format"},
	)

	RenderCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_render_cache_hits_total",
			Help: "Renders served from the cache",
		},
		[]string{"format"},
	)

	GridOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_grid_operations_total",
			Help: "Table grid edits by operation and outcome",
		},
		[]string{"op", "status"},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter, RequestDuration)
		prometheus.MustRegister(RenderTotal, RenderDuration, RenderCacheHits, GridOperations)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
