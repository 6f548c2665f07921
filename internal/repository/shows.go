package repository

import (
	"context"
	"errors"

	"github.com/deppfellow/tv-shows/internal/database"
	"github.com/deppfellow/tv-shows/internal/model"
	"github.com/deppfellow/tv-shows/internal/pagination"
	"github.com/jackc/pgx/v5"
)

const (
	listShowsSQL = `select tvid, name from tv_shows order by name desc limit $1 offset $2`

	// tvid is compared as text so any identifier string is a valid lookup.
	getShowSQL = `select tvid, name, rating, image, summary, official_site from tv_shows where tvid::text = $1`
)

// ErrShowNotFound is returned when the detail query matches no row.
// It is an expected outcome, distinct from a *database.QueryError.
var ErrShowNotFound = errors.New("show not found")

// ShowRepository reads the tv_shows catalog.
type ShowRepository struct {
	list   *database.Executor[model.ShowSummary]
	detail *database.Executor[model.Show]
}

// NewShowRepository binds the list and detail statements to pool.
func NewShowRepository(pool *database.Pool) *ShowRepository {
	return &ShowRepository{
		list:   database.NewExecutor(pool, "list_shows", listShowsSQL, pgx.RowToStructByName[model.ShowSummary]),
		detail: database.NewExecutor(pool, "get_show", getShowSQL, pgx.RowToStructByName[model.Show]),
	}
}

// ListShows returns one page of shows ordered by name descending.
// An empty slice past the last page is not an error.
func (r *ShowRepository) ListShows(ctx context.Context, page pagination.Page) ([]model.ShowSummary, error) {
	return r.list.Execute(ctx, page.Args()...)
}

// GetShow returns the show with the given identifier or ErrShowNotFound.
func (r *ShowRepository) GetShow(ctx context.Context, id string) (*model.Show, error) {
	rows, err := r.detail.Execute(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrShowNotFound
	}
	return &rows[0], nil
}
