package view

import "net/http"

// ErrorPage is the data the error template expects.
type ErrorPage struct {
	Status  int
	Title   string
	Message string
}

// NewErrorPage builds an ErrorPage titled by the status text.
func NewErrorPage(status int, message string) ErrorPage {
	return ErrorPage{Status: status, Title: http.StatusText(status), Message: message}
}
