// Package view renders the HTML pages of the catalog.
//
// Templates are embedded into the binary and parsed once at startup.
// Renderer satisfies echo.Renderer, so handlers render with c.Render.
package view

import (
	"embed"
	"html/template"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template is a string-based enum naming page templates.
type Template string

const (
	// TemplateIndex corresponds to templates/index.html
	TemplateIndex Template = "index"

	// TemplateDetails corresponds to templates/details.html
	TemplateDetails Template = "details"

	// TemplateError corresponds to templates/error.html
	TemplateError Template = "error"
)

// Renderer executes the embedded page templates.
type Renderer struct {
	templates *template.Template
}

// New parses every embedded template. A parse failure is a build defect,
// so callers treat it as fatal.
func New() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse page templates")
	}
	return &Renderer{templates: tmpl}, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	if err := r.templates.ExecuteTemplate(w, name+".html", data); err != nil {
		return errors.Wrapf(err, "failed to execute page template %s", name)
	}
	return nil
}

var funcs = template.FuncMap{
	"str": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"rating": func(f *float64) string {
		if f == nil {
			return "n/a"
		}
		return strconv.FormatFloat(*f, 'f', 1, 64)
	},
}
