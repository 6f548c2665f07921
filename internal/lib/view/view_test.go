package view

import (
	"bytes"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deppfellow/tv-shows/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func render(t *testing.T, name Template, data interface{}) string {
	t.Helper()

	r, err := New()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, string(name), data, nil))
	return buf.String()
}

func TestRender_Index(t *testing.T) {
	out := render(t, TemplateIndex, model.ShowPage{
		Shows:    []model.ShowSummary{{ID: 7, Name: "Sherlock"}, {ID: 3, Name: "<Westworld>"}},
		HasShows: true,
		Offset:   20,
		Limit:    20,
	})

	assert.Contains(t, out, `<a href="/app/7">Sherlock</a>`)
	assert.Contains(t, out, "&lt;Westworld&gt;")
	assert.Contains(t, out, `name="offset" value="20"`)
	assert.NotContains(t, out, "No shows on this page.")
}

func TestRender_IndexEmpty(t *testing.T) {
	out := render(t, TemplateIndex, model.ShowPage{Shows: []model.ShowSummary{}, Offset: 0, IsFirst: true})

	assert.Contains(t, out, "No shows on this page.")
	assert.Contains(t, out, `value="prev" disabled`)
	assert.Contains(t, out, `value="next" disabled`)
}

func TestRender_Details(t *testing.T) {
	out := render(t, TemplateDetails, &model.Show{
		ID:           7,
		Name:         "Sherlock",
		Rating:       ptr(9.1),
		Image:        ptr("https://img/7.jpg"),
		OfficialSite: ptr("https://bbc.co.uk/sherlock"),
	})

	assert.Contains(t, out, "<h1>Sherlock</h1>")
	assert.Contains(t, out, "Rating: 9.1")
	assert.Contains(t, out, `src="https://img/7.jpg"`)
	assert.NotContains(t, out, `class="summary"`)
}

func TestRender_DetailsMissingRating(t *testing.T) {
	out := render(t, TemplateDetails, &model.Show{ID: 1, Name: "Pilot"})
	assert.Contains(t, out, "Rating: n/a")
}

func TestRender_Error(t *testing.T) {
	out := render(t, TemplateError, NewErrorPage(http.StatusNotFound, "Show not found"))

	assert.Contains(t, out, "<h2>Not Found</h2>")
	assert.Contains(t, out, "Show not found")
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	assert.Error(t, r.Render(&bytes.Buffer{}, "missing", nil, nil))
}

func TestWantsJSON(t *testing.T) {
	tests := map[string]bool{
		"":                                  false,
		"application/json":                  true,
		"text/html,application/xhtml+xml":   false,
		"application/json, text/plain":      true,
		"text/html, application/json;q=0.9": false,
		"*/*":                               false,
	}

	for accept, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if accept != "" {
			req.Header.Set("Accept", accept)
		}
		assert.Equal(t, want, WantsJSON(req), accept)
	}
}

func TestStaticFS(t *testing.T) {
	for _, name := range []string{"style.css", "openapi.html", "openapi.json"} {
		_, err := fs.Stat(StaticFS(), name)
		assert.NoError(t, err, name)
	}
}
