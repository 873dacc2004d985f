package kv

import "context"

// Store is a generic key-value document store. The timeline engine is its
// only writer; one key holds one whole document, there are no partial writes.
type Store interface {
	// Get returns the stored value for key. found is false when the key
	// has never been written.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set overwrites the value for key.
	Set(ctx context.Context, key, value string) error
}
