// Package store provides the conversation log interface and its SQLite implementation.
package store

import (
	"context"

	"github.com/rcliao/mhr-assist/internal/model"
)

// AppendParams holds parameters for appending a message.
type AppendParams struct {
	Role    model.Role
	Content string
}

// Store is an append-only conversation log. Messages come back in the
// order they were appended.
type Store interface {
	// Append records a new message and returns it with its id and timestamp.
	Append(ctx context.Context, p AppendParams) (*model.Message, error)

	// List returns every message in append order.
	List(ctx context.Context) ([]model.Message, error)

	// Last returns the most recent message with the given role, or nil.
	Last(ctx context.Context, role model.Role) (*model.Message, error)

	// Close closes the store.
	Close() error
}
