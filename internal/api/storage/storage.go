package storage

import (
	"github.com/edulane/course-be/shared/postgresql"
	"github.com/jmoiron/sqlx"
)

// Storage handles all database operations for the API service
type Storage struct {
	db *sqlx.DB
}

// NewStorage creates a Storage over the shared PostgreSQL client
func NewStorage(pg *postgresql.Client) *Storage {
	return &Storage{db: pg.GetDB()}
}

// Page describes offset pagination for list queries
type Page struct {
	Number int
	Size   int
}

// Offset returns the SQL offset for the page
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}
