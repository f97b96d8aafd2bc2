// Package gamestate provides the interface for save document persistence.
// The whole game saves as one opaque JSON blob; the repository never looks
// inside it.
package gamestate

//go:generate mockgen -destination=mock/mock_repository.go -package=gamestatemock github.com/emberforge/wildlands/internal/repositories/gamestate Repository

import (
	"context"
	"time"
)

// Repository defines the interface for save document persistence
type Repository interface {
	// Get retrieves the save document
	// Returns errors.NotFound when no save exists
	// Returns errors.Unavailable for storage failures
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Set overwrites the save document
	// Returns errors.InvalidArgument for an empty document
	// Returns errors.Unavailable for storage failures
	Set(ctx context.Context, input SetInput) (*SetOutput, error)

	// Remove deletes the save document. Removing a missing save is not an
	// error.
	// Returns errors.Unavailable for storage failures
	Remove(ctx context.Context, input RemoveInput) (*RemoveOutput, error)
}

// GetInput defines the input for reading the save document
type GetInput struct{}

// GetOutput defines the output for reading the save document
type GetOutput struct {
	Data []byte
}

// SetInput defines the input for writing the save document
type SetInput struct {
	Data []byte
}

// SetOutput defines the output for writing the save document
type SetOutput struct {
	SavedAt time.Time
}

// RemoveInput defines the input for deleting the save document
type RemoveInput struct{}

// RemoveOutput defines the output for deleting the save document
type RemoveOutput struct {
	Removed bool
}
