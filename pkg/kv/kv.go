// Package kv provides the snapshot store behind the conversation and
// character repositories. Each key maps to one JSON document that is
// rewritten in full on every mutation; there is no incremental log.
package kv

import "errors"

// ErrNotFound is returned when a key has no snapshot.
var ErrNotFound = errors.New("kv: key not found")

// Store is a keyed snapshot store. Implementations must make Put replace
// the prior document atomically from the reader's point of view.
type Store interface {
	// Get returns the document stored under key, or ErrNotFound.
	Get(key string) ([]byte, error)

	// Put replaces the document stored under key.
	Put(key string, doc []byte) error

	// Delete removes the document stored under key. Deleting a missing
	// key is not an error.
	Delete(key string) error

	// List returns all keys with the given prefix.
	List(prefix string) ([]string, error)

	// Close releases any resources held by the store.
	Close() error
}
