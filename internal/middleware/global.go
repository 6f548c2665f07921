package middleware

import (
	"net/http"

	"github.com/deppfellow/tv-shows/internal/errs"
	"github.com/deppfellow/tv-shows/internal/lib/view"
	"github.com/deppfellow/tv-shows/internal/server"
	"github.com/deppfellow/tv-shows/internal/sqlerr"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// GlobalMiddlewares groups the middleware applied to every route and the
// global error handler.
type GlobalMiddlewares struct {
	server *server.Server
}

func NewGlobalMiddlewares(s *server.Server) *GlobalMiddlewares {
	return &GlobalMiddlewares{
		server: s,
	}
}

func (global *GlobalMiddlewares) CORS() echo.MiddlewareFunc {
	return middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: global.server.Config.Server.CORSAllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodHead},
	})
}

// RequestLogger writes one "API" line per request, leveled by status.
func (global *GlobalMiddlewares) RequestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogError:   true,
		LogLatency: true,
		LogHost:    true,
		LogMethod:  true,
		LogURIPath: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			// The error handler has not written the response yet when a
			// handler returns an error, so v.Status may still read 200.
			// See https://github.com/labstack/echo/issues/2310
			statusCode := v.Status
			if v.Error != nil {
				statusCode = statusOf(c, v.Error)
			}

			logger := GetLogger(c)

			var e *zerolog.Event
			switch {
			case statusCode >= 500:
				e = logger.Error().Err(v.Error).Str("error_class", string(sqlerr.Classify(v.Error)))
			case statusCode >= 400:
				e = logger.Warn()
			default:
				e = logger.Info()
			}

			e.
				Dur("latency", v.Latency).
				Int("status", statusCode).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("host", v.Host).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent()).
				Msg("API")

			return nil
		},
	})
}

func (global *GlobalMiddlewares) Recover() echo.MiddlewareFunc {
	return middleware.Recover()
}

func (global *GlobalMiddlewares) Secure() echo.MiddlewareFunc {
	return middleware.Secure()
}

// GlobalErrorHandler is the single place errors become responses.
//
// Not found outcomes become a 404, every other failure a generic 500 that
// never carries the underlying cause. Clients that ask for JSON get the
// errs.HTTPError shape, everyone else the error page.
func (global *GlobalMiddlewares) GlobalErrorHandler(err error, c echo.Context) {
	originalErr := err

	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			httpErr = fromEcho(echoErr)
		} else {
			httpErr = sqlerr.HandleError(err)
		}
	}

	logger := GetLogger(c)

	event := logger.Warn()
	if httpErr.Status >= http.StatusInternalServerError {
		event = logger.Error().Stack().Str("error_class", string(sqlerr.Classify(originalErr)))
	}
	event.
		Err(originalErr).
		Int("status", httpErr.Status).
		Str("error_code", httpErr.Code).
		Msg(httpErr.Message)

	if c.Response().Committed {
		return
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(httpErr.Status)
		return
	}

	if view.WantsJSON(c.Request()) || c.Echo().Renderer == nil {
		_ = c.JSON(httpErr.Status, httpErr)
		return
	}

	if err := c.Render(httpErr.Status, string(view.TemplateError), view.NewErrorPage(httpErr.Status, httpErr.Message)); err != nil {
		logger.Error().Err(err).Msg("failed to render error page")
		_ = c.HTML(httpErr.Status, "<h2>"+http.StatusText(httpErr.Status)+"</h2>")
	}
}

// fromEcho converts echo's own errors (unknown route, wrong method) into
// the errs shape.
func fromEcho(echoErr *echo.HTTPError) *errs.HTTPError {
	status := echoErr.Code
	message := http.StatusText(status)
	if status == http.StatusNotFound {
		message = "Route not found"
	}
	if status >= http.StatusInternalServerError {
		return errs.NewInternalServerError()
	}

	return &errs.HTTPError{
		Code:    errs.MakeUpperCaseWithUnderscores(http.StatusText(status)),
		Message: message,
		Status:  status,
	}
}
