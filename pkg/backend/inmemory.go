package backend

import (
	"context"
	"slices"
	"strings"

	"github.com/hyp3rd/binstat/internal/sentinel"
)

// InMemory is a snapshot backend that keeps encoded snapshots in process memory,
// leveraging a sharded concurrent map.
type InMemory struct {
	items shardedMap // map from store name to encoded snapshot
}

// NewInMemory creates a new in-memory backend with the given options.
func NewInMemory(opts ...Option[InMemory]) (*InMemory, error) {
	backendInstance := &InMemory{
		items: newShardedMap(),
	}
	// Apply the backend options
	ApplyOptions(backendInstance, opts...)

	return backendInstance, nil
}

// Save stores a copy of data under name.
func (cacheBackend *InMemory) Save(_ context.Context, name string, data []byte) error {
	if strings.TrimSpace(name) == "" {
		return sentinel.ErrParamCannotBeEmpty
	}

	cacheBackend.items.Set(name, slices.Clone(data))

	return nil
}

// Load returns a copy of the snapshot stored under name.
func (cacheBackend *InMemory) Load(_ context.Context, name string) ([]byte, error) {
	data, ok := cacheBackend.items.Get(name)
	if !ok {
		return nil, sentinel.ErrSnapshotNotFound
	}

	return slices.Clone(data), nil
}

// Delete removes the snapshots stored under names.
func (cacheBackend *InMemory) Delete(_ context.Context, names ...string) error {
	for _, name := range names {
		cacheBackend.items.Remove(name)
	}

	return nil
}

// List returns the stored names in ascending order.
func (cacheBackend *InMemory) List(_ context.Context) ([]string, error) {
	names := cacheBackend.items.Keys()
	slices.Sort(names)

	return names, nil
}

// Count returns the number of stored snapshots.
func (cacheBackend *InMemory) Count(_ context.Context) int {
	return cacheBackend.items.Count()
}
