// Package middleware holds the echo middleware shared by every route:
// request IDs, the request-scoped logger, tracing, rate limiting, request
// metrics, and the global error handler.
package middleware
