// Package memory provides an in-memory storage adapter, useful for tests and
// for running the server without external dependencies.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tendant/content-registry/pkg/contentregistry"
)

// Store implements contentregistry.Storage using an in-memory map.
type Store struct {
	mu    sync.RWMutex
	items map[string]map[string]any
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		items: make(map[string]map[string]any),
	}
}

func (s *Store) Get(ctx context.Context, version contentregistry.VersionSpec, id string, options map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", contentregistry.ErrItemNotFound, id)
	}
	return copyItem(item), nil
}

func (s *Store) Create(ctx context.Context, version contentregistry.VersionSpec, id string, fields map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return nil, fmt.Errorf("item already exists: %s", id)
	}

	item := copyItem(fields)
	item["id"] = id
	s.items[id] = item
	return copyItem(item), nil
}

func (s *Store) Update(ctx context.Context, version contentregistry.VersionSpec, id string, fields map[string]any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return nil, fmt.Errorf("%w: %s", contentregistry.ErrItemNotFound, id)
	}

	item := copyItem(fields)
	item["id"] = id
	s.items[id] = item
	return copyItem(item), nil
}

func (s *Store) Delete(ctx context.Context, version contentregistry.VersionSpec, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("%w: %s", contentregistry.ErrItemNotFound, id)
	}

	delete(s.items, id)
	return nil
}

// copyItem shields stored items from external modification.
func copyItem(item map[string]any) map[string]any {
	out := make(map[string]any, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}
