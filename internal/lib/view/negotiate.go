package view

import (
	"mime"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// WantsJSON reports whether the client asked for JSON rather than a page.
// Browsers send text/html first, so HTML wins whenever it is listed.
func WantsJSON(r *http.Request) bool {
	accept := r.Header.Get(echo.HeaderAccept)
	if accept == "" {
		return false
	}

	json := false
	for _, part := range strings.Split(accept, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		switch mediaType {
		case "text/html":
			return false
		case echo.MIMEApplicationJSON:
			json = true
		}
	}
	return json
}
