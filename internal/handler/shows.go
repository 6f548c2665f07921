package handler

import (
	"github.com/deppfellow/tv-shows/internal/model"
	"github.com/deppfellow/tv-shows/internal/pagination"
	"github.com/deppfellow/tv-shows/internal/server"
	"github.com/deppfellow/tv-shows/internal/service"
	"github.com/labstack/echo/v4"
)

// ShowHandler serves the list and detail flows.
type ShowHandler struct {
	Handler
	shows *service.ShowService
}

func NewShowHandler(s *server.Server, shows *service.ShowService) *ShowHandler {
	return &ShowHandler{
		Handler: NewHandler(s),
		shows:   shows,
	}
}

// ListShows serves GET /?offset=&btnPressed=. The request context is handed
// down so a client that goes away cancels the lease wait and the query.
func (h *ShowHandler) ListShows(c echo.Context, req *model.ListShowsRequest) (*model.ShowPage, error) {
	return h.shows.Browse(c.Request().Context(), req.Offset, pagination.ParseIntent(req.BtnPressed))
}

// GetShow serves GET /app/:id.
func (h *ShowHandler) GetShow(c echo.Context, req *model.GetShowRequest) (*model.Show, error) {
	return h.shows.Detail(c.Request().Context(), req.ID)
}
