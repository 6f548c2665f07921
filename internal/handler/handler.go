// Package handler is the HTTP layer: it binds and validates requests, calls
// the service layer and writes the response.
package handler
