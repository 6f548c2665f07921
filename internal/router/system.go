package router

import (
	"github.com/deppfellow/tv-shows/internal/handler"
	"github.com/deppfellow/tv-shows/internal/lib/view"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerSystemRoutes mounts the endpoints that sit outside the catalog:
// health, metrics, docs and static assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	r.StaticFS("/static", view.StaticFS())
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
