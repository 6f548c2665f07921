// Package model holds the catalog types shared by the repository, service
// and handler layers, and the request payloads the handlers bind.
package model

import (
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their query or path parameter name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"query", "param"} {
			if name := f.Tag.Get(tag); name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// ShowSummary is one row of the list view.
type ShowSummary struct {
	ID   int64  `db:"tvid" json:"id"`
	Name string `db:"name" json:"name"`
}

// Show is the full record behind the detail view.
type Show struct {
	ID           int64    `db:"tvid" json:"id"`
	Name         string   `db:"name" json:"name"`
	Rating       *float64 `db:"rating" json:"rating"`
	Image        *string  `db:"image" json:"image"`
	Summary      *string  `db:"summary" json:"summary"`
	OfficialSite *string  `db:"official_site" json:"official_site"`
}

// ShowPage is the list view: the rows of one page and the offsets the
// navigation controls lead to.
type ShowPage struct {
	Shows      []ShowSummary `json:"shows"`
	HasShows   bool          `json:"has_shows"`
	Offset     int           `json:"offset"`
	Limit      int           `json:"limit"`
	PrevOffset int           `json:"prev_offset"`
	NextOffset int           `json:"next_offset"`
	IsFirst    bool          `json:"is_first"`
}

// ListShowsRequest is bound from GET /?offset=&btnPressed=.
// The offset bound matches pagination.MaxOffset.
type ListShowsRequest struct {
	Offset     int    `query:"offset" validate:"min=0,max=1000000000"`
	BtnPressed string `query:"btnPressed" validate:"omitempty,oneof=prev next"`
}

func (r *ListShowsRequest) Validate() error {
	return validate.Struct(r)
}

// GetShowRequest is bound from GET /app/:id.
type GetShowRequest struct {
	ID string `param:"id" validate:"required,max=64"`
}

func (r *GetShowRequest) Validate() error {
	return validate.Struct(r)
}
