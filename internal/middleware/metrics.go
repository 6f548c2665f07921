package middleware

import (
	"strconv"
	"time"

	"github.com/deppfellow/tv-shows/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequests counts requests by route template, method and status.
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvshows_http_requests_total",
		Help: "HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	// httpDuration tracks handler latency by route template.
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tvshows_http_request_duration_seconds",
		Help:    "HTTP request duration by route",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	rateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tvshows_http_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	}, []string{"route"})
)

// Metrics records request counts and latencies. Routes are labelled by
// their template so /app/:id stays a single series.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			status := statusOf(c, err)
			httpRequests.WithLabelValues(route, c.Request().Method, strconv.Itoa(status)).Inc()
			httpDuration.WithLabelValues(route, c.Request().Method).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// statusOf derives the final status before the error handler has written
// the response.
func statusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}

	var httpErr *errs.HTTPError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status
	case errors.As(err, &echoErr):
		return echoErr.Code
	}
	return 500
}
