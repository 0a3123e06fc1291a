// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file instruments site traffic for Prometheus. Labels:
//
//   - method: request verb
//   - route:  the registered route template, e.g. /api/inquiries/:id. The
//     static pages, SPA deep links and unknown paths all go through NoRoute
//     and share the "unmatched" value so crawlers cannot grow the series set.
//   - status: numeric response code
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricsNamespace = "flexai_site"
	unmatchedRoute   = "unmatched"
)

var (
	siteRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Site requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	// No status label: inquiry POSTs and page loads are few enough that the
	// per-route latency split is what matters.
	siteLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "Site request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	siteInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_inflight",
			Help:      "Site requests currently being served.",
		},
	)

	// Buckets span small JSON envelopes up to the bundled images.
	siteResponseBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_response_size_bytes",
			Help:      "Site response body size in bytes.",
			Buckets: []float64{
				128, 512, 2 << 10, 8 << 10, // API envelopes
				32 << 10, 128 << 10, // HTML, CSS and app.js
				512 << 10, 2 << 20, // images
			},
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(siteRequests, siteLatency, siteInflight, siteResponseBytes)
}

// Metrics records every request under its route template. Mount it before the
// routes and expose promhttp.Handler on /metrics.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		siteInflight.Inc()
		defer siteInflight.Dec()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		method := c.Request.Method

		siteRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		siteLatency.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		// Size is -1 when only a status was written.
		if size := c.Writer.Size(); size >= 0 {
			siteResponseBytes.WithLabelValues(method, route).Observe(float64(size))
		}
	}
}
