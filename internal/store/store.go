// Package store is the persistence port for per-session shopper state. Each
// collection is one opaque document stored under a fixed key, read once when
// a container opens and overwritten wholesale on every mutation.
package store

import (
	"context"
	"strings"
)

// Collection names. They match the storage keys the browser storefront used.
const (
	CartKey     = "sansli-cart"
	WishlistKey = "sansli-wishlist"
)

// Store persists documents by key.
type Store interface {
	// Get returns the document under key, or an apperrors NotFound error.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the document under key.
	Set(ctx context.Context, key string, data []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// Key namespaces a collection under a session: "session:<id>:<name>".
func Key(session, name string) string {
	var b strings.Builder
	b.Grow(len("session:") + len(session) + 1 + len(name))
	b.WriteString("session:")
	b.WriteString(session)
	b.WriteByte(':')
	b.WriteString(name)
	return b.String()
}
