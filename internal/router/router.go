// Package router builds the echo instance: renderer, error handler,
// middleware chain and routes.
package router

import (
	"net/http"

	"github.com/deppfellow/tv-shows/internal/handler"
	"github.com/deppfellow/tv-shows/internal/lib/view"
	"github.com/deppfellow/tv-shows/internal/middleware"
	"github.com/deppfellow/tv-shows/internal/model"
	"github.com/deppfellow/tv-shows/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// NewRouter wires every route. It fails only if the page templates do not
// parse.
func NewRouter(s *server.Server, h *handler.Handlers) (*echo.Echo, error) {
	renderer, err := view.New()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load views")
	}

	middlewares := middleware.NewMiddlewares(s)

	r := echo.New()
	r.HideBanner = true
	r.HidePort = true
	r.Renderer = renderer
	r.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	r.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.Metrics(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.RateLimit.Limit(),
	)

	registerSystemRoutes(r, h)

	shows := h.Shows
	r.GET("/", handler.HandlePage(shows.Handler, shows.ListShows, http.StatusOK, view.TemplateIndex, newListShowsRequest))
	r.GET("/app/:id", handler.HandlePage(shows.Handler, shows.GetShow, http.StatusOK, view.TemplateDetails, newGetShowRequest))

	api := r.Group("/api")
	api.GET("/shows", handler.Handle(shows.Handler, shows.ListShows, http.StatusOK, newListShowsRequest))
	api.GET("/shows/:id", handler.Handle(shows.Handler, shows.GetShow, http.StatusOK, newGetShowRequest))

	return r, nil
}

func newListShowsRequest() *model.ListShowsRequest { return &model.ListShowsRequest{} }

func newGetShowRequest() *model.GetShowRequest { return &model.GetShowRequest{} }
