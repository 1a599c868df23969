package database

import "github.com/uptrace/bun"

// Store implements the app repositories on top of bun.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store {
	return &Store{db: db}
}

// DB exposes the handle for callers that run migrations or health checks.
func (s *Store) DB() *bun.DB { return s.db }
