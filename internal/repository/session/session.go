// Package session checks front-end session tokens against the shared store.
package session

import (
	"context"
	"fmt"
)

// store is the consumer interface for session lookup (ISP).
type store interface {
	Exists(ctx context.Context, key string) (bool, error)
}

// Repository resolves session tokens written by the web front-end.
type Repository struct {
	store  store
	prefix string
}

// New creates a session repository. Keys are prefix + token.
func New(s store, prefix string) *Repository {
	return &Repository{store: s, prefix: prefix}
}

// Validate reports whether token names a live session.
func (r *Repository) Validate(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	ok, err := r.store.Exists(ctx, r.prefix+token)
	if err != nil {
		return false, fmt.Errorf("lookup session: %w", err)
	}
	return ok, nil
}
