// Package store provides the persisted key-value store backing every
// collection in the system. Values are whole JSON documents; every write
// replaces the full value for its key. There is no versioning and no
// compare-and-swap: concurrent writers to the same key are last-writer-wins,
// matching the single-writer assumption of the data model.
package store

import "context"

// KV is the synchronous get/set contract all backends satisfy.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set replaces the full value for key.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Ping verifies backend connectivity.
	Ping(ctx context.Context) error
	// Close releases backend resources.
	Close()
}
