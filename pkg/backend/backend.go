// Package backend provides persistence for encoded store snapshots.
// It defines the contract every snapshot backend must follow: saving, loading,
// deleting and listing opaque, already serialized snapshots by store name.
//
// Backend implementations must satisfy the IBackendConstrain type constraint,
// which currently supports InMemory, Redis and RedisCluster backend types.
package backend

import (
	"context"
)

// IBackendConstrain defines the type constraint for snapshot backend implementations.
// It restricts the generic type parameter to supported backend types, ensuring
// type safety and proper implementation at compile time.
type IBackendConstrain interface {
	InMemory | Redis | RedisCluster
}

// IBackend defines the contract that all snapshot backends must implement.
//
// All methods accept a context.Context parameter for cancellation and timeout
// control, enabling graceful handling of slow remote stores.
type IBackend interface {
	// Save stores data under name, replacing any previous snapshot.
	Save(ctx context.Context, name string, data []byte) error
	// Load returns the snapshot stored under name, or sentinel.ErrSnapshotNotFound.
	Load(ctx context.Context, name string) ([]byte, error)
	// Delete removes the snapshots stored under the given names. Unknown names are ignored.
	Delete(ctx context.Context, names ...string) error
	// List returns the stored snapshot names in ascending order.
	List(ctx context.Context) ([]string, error)
	// Count returns the number of stored snapshots.
	Count(ctx context.Context) int
}
