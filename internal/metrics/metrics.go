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
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rior_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "rior_http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"method", "route"},
	)

	DesignRequestsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rior_design_requests_created_total",
			Help: "Total number of design requests persisted",
		},
	)

	SlugCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rior_slug_collisions_total",
			Help: "Slug unique-constraint violations that triggered a retry",
		},
	)

	UnresolvedProductIDs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rior_unresolved_product_ids_total",
			Help: "Recommendation payload product ids with no catalog match",
		},
	)
)

// Middleware records request counts and latency labelled by the matched route
// pattern, so slugs and ids do not explode label cardinality.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		route := c.Route().Path
		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		HTTPDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler exposes the default registry in Prometheus text format.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
