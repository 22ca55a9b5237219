// ABOUTME: In-process slot backend
// ABOUTME: Used for tests and the ephemeral "memory" backend

package storage

import "sync"

// MemorySlot keeps values in a map. Values are copied on the way in and out.
type MemorySlot struct {
	mu     sync.Mutex
	values map[string][]byte
}

// Compile-time check that MemorySlot implements Slot.
var _ Slot = (*MemorySlot)(nil)

// NewMemorySlot creates an empty in-memory slot.
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{values: make(map[string][]byte)}
}

// Get returns a copy of the value for key.
func (m *MemorySlot) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value.
func (m *MemorySlot) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key.
func (m *MemorySlot) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

// Close is a no-op.
func (m *MemorySlot) Close() error {
	return nil
}
