package port

import "context"

type KeyValueStore interface {
	// Get returns the value stored under key; found is false when the key
	// has never been written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set fully overwrites the value under key. There are no partial writes;
	// concurrent writers are last-writer-wins.
	Set(ctx context.Context, key string, value []byte) error
}
