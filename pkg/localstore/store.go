// Package localstore provides the durable key-value store that session and
// cart state is persisted to. It defines the Store interface and the key
// namespace shared by its implementations (memory, sqlite, postgres).
package localstore

import "context"

// SessionKey is the key the current session entry is stored under.
const SessionKey = "session"

// CartKey returns the key an identity's cart is stored under. Carts are
// namespaced per identity so a user sees the same cart across logins.
func CartKey(identity string) string {
	return "cart/" + identity
}

// Store defines the interface for durable key-value persistence.
type Store interface {
	// Get retrieves the value stored under key. The second return value is
	// false when no entry exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any existing entry.
	Set(ctx context.Context, key, value string) error

	// Remove deletes the entry under key. Removing a missing key is not an
	// error.
	Remove(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}
