// Package repository handles all interactions with the database.
//
// It owns the parameterized SQL statements, binds each one to the shared
// pool once at startup, and maps result rows into model types.
package repository

import (
	"github.com/deppfellow/tv-shows/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Shows *ShowRepository
}

// NewRepositories binds every repository to the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Shows: NewShowRepository(s.DB.Pool),
	}
}
