package handler

import (
	"github.com/deppfellow/tv-shows/internal/server"
	"github.com/deppfellow/tv-shows/internal/service"
)

// Handlers groups every HTTP handler so the router receives a single value.
type Handlers struct {
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
	Shows   *ShowHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		Shows:   NewShowHandler(s, services.Shows),
	}
}
