// ABOUTME: Slot interface for durable key/value backends
// ABOUTME: Enables testability and storage backend swapping

package storage

// DefaultSlotKey names the slot holding the item collection.
const DefaultSlotKey = "items"

// Slot is a durable key/value store. Each key holds one opaque value that is
// always rewritten whole.
type Slot interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) ([]byte, error)
	// Set replaces the value for key.
	Set(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
	Close() error
}
