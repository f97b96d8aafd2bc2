package gamestate

import (
	"context"
	"sync"

	"github.com/emberforge/wildlands/internal/errors"
	"github.com/emberforge/wildlands/internal/pkg/clock"
)

// memoryRepository keeps the save document in process memory. Used by the
// offline simulate command and as a harness double where miniredis is
// overkill.
type memoryRepository struct {
	mu    sync.RWMutex
	data  []byte
	clock clock.Clock
}

// NewMemory creates an in-memory save repository
func NewMemory(c clock.Clock) Repository {
	if c == nil {
		c = clock.New()
	}
	return &memoryRepository{clock: c}
}

func (r *memoryRepository) Get(_ context.Context, _ GetInput) (*GetOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.data == nil {
		return nil, errors.NotFound("no save document exists")
	}

	out := make([]byte, len(r.data))
	copy(out, r.data)
	return &GetOutput{Data: out}, nil
}

func (r *memoryRepository) Set(_ context.Context, input SetInput) (*SetOutput, error) {
	if len(input.Data) == 0 {
		return nil, errors.InvalidArgument(errDataEmpty)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.data = make([]byte, len(input.Data))
	copy(r.data, input.Data)
	return &SetOutput{SavedAt: r.clock.Now()}, nil
}

func (r *memoryRepository) Remove(_ context.Context, _ RemoveInput) (*RemoveOutput, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := r.data != nil
	r.data = nil
	return &RemoveOutput{Removed: removed}, nil
}
