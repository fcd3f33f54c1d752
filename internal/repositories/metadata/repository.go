// Package metadata is a small key/value blob store over the local database.
// It plays the role browser local storage plays for the web client: the
// persisted identity and user settings live here under fixed keys.
package metadata

import "context"

// Well-known storage keys.
const (
	KeyIdentity = "identity"
	KeySettings = "settings"
)

type Repository interface {
	// Get returns the value for key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
