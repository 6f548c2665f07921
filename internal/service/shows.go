package service

import (
	"context"

	"github.com/deppfellow/tv-shows/internal/model"
	"github.com/deppfellow/tv-shows/internal/pagination"
)

// ShowStore is the catalog the service reads from.
type ShowStore interface {
	ListShows(ctx context.Context, page pagination.Page) ([]model.ShowSummary, error)
	GetShow(ctx context.Context, id string) (*model.Show, error)
}

// ShowService serves the list and detail flows.
type ShowService struct {
	store    ShowStore
	pageSize int
}

func NewShowService(store ShowStore, pageSize int) *ShowService {
	return &ShowService{
		store:    store,
		pageSize: pageSize,
	}
}

// PageSize returns the fixed number of rows per page.
func (s *ShowService) PageSize() int {
	return s.pageSize
}

// Browse derives the page from offset and intent and fetches it. The rows
// come back verbatim together with the offset that was used.
func (s *ShowService) Browse(ctx context.Context, offset int, intent pagination.Intent) (*model.ShowPage, error) {
	page := pagination.Navigate(offset, intent, s.pageSize)

	shows, err := s.store.ListShows(ctx, page)
	if err != nil {
		return nil, err
	}

	return &model.ShowPage{
		Shows:      shows,
		HasShows:   len(shows) > 0,
		Offset:     page.Offset,
		Limit:      page.Limit,
		PrevOffset: page.PrevOffset(),
		NextOffset: page.NextOffset(),
		IsFirst:    page.IsFirst(),
	}, nil
}

// Detail returns one show. A missing show surfaces as
// repository.ErrShowNotFound, any other failure as a query error.
func (s *ShowService) Detail(ctx context.Context, id string) (*model.Show, error) {
	return s.store.GetShow(ctx, id)
}
