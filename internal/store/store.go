// Package store abstracts the client-local persistent key/value store that
// survives restarts. Values are flat strings under fixed keys; every write is
// a full overwrite of the named value.
package store

import "context"

const (
	// KeyAuthToken holds the opaque bearer token for the current session.
	KeyAuthToken = "token"
	// KeyHistory holds the JSON-encoded ordered sequence of classification results.
	KeyHistory = "data"
)

type Store interface {
	// Get returns the named value, or serviceerr.ErrNotFound when absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes the named value. Deleting an absent value is a no-op.
	Delete(ctx context.Context, key string) error
}
