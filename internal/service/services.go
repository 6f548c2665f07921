// Package service contains the business logic.
//
// It sits between the handler and repository layers: it turns navigation
// state into pages and calls repository methods to read the catalog.
package service

import (
	"github.com/deppfellow/tv-shows/internal/repository"
	"github.com/deppfellow/tv-shows/internal/server"
)

type Services struct {
	Shows *ShowService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Shows: NewShowService(repos.Shows, s.Config.Pagination.PageSize),
	}, nil
}
