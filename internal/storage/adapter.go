// ABOUTME: Persistence adapter mirroring the item collection into one slot
// ABOUTME: Every write rewrites the whole JSON array; an id mark keeps ids from being reused

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/harper/tally/internal/models"
	"go.uber.org/zap"
)

// Adapter serializes the item collection to a single slot key.
// It holds no state besides the slot it writes to.
type Adapter struct {
	slot   Slot
	key    string
	logger *zap.Logger
}

// NewAdapter creates an adapter for key in slot. An empty key uses DefaultSlotKey.
func NewAdapter(slot Slot, key string, logger *zap.Logger) *Adapter {
	if key == "" {
		key = DefaultSlotKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Adapter{slot: slot, key: key, logger: logger}
}

// Key returns the slot key the adapter writes to.
func (a *Adapter) Key() string {
	return a.key
}

// LoadAll returns the persisted collection. An absent, unreadable or malformed
// slot is treated as an empty collection.
func (a *Adapter) LoadAll() []models.Item {
	items, err := a.read()
	if err != nil {
		a.logger.Warn("treating unreadable slot as empty",
			zap.String("key", a.key), zap.Error(err))
		return []models.Item{}
	}
	return items
}

// errMalformed marks a slot whose payload is not an item collection.
var errMalformed = errors.New("malformed item collection")

// read returns an empty slice for a missing slot and an error for anything else.
func (a *Adapter) read() ([]models.Item, error) {
	data, err := a.slot.Get(a.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return []models.Item{}, nil
		}
		return nil, fmt.Errorf("read slot %s: %w", a.key, err)
	}
	items, err := decodeItems(data)
	if err != nil {
		return nil, fmt.Errorf("decode slot %s: %w: %w", a.key, errMalformed, err)
	}
	return items, nil
}

// readForWrite is the starting point of every mutation. A malformed payload
// is replaced by a fresh collection; a failed read aborts the write so the
// stored items are not overwritten.
func (a *Adapter) readForWrite() ([]models.Item, error) {
	items, err := a.read()
	if errors.Is(err, errMalformed) {
		a.logger.Warn("overwriting malformed slot", zap.String("key", a.key), zap.Error(err))
		return []models.Item{}, nil
	}
	return items, err
}

// decodeItems parses the slot payload. Empty input and JSON null decode as an empty collection.
func decodeItems(data []byte) ([]models.Item, error) {
	var items []models.Item
	if len(data) > 0 {
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
	}
	if items == nil {
		items = []models.Item{}
	}
	return items, nil
}

func (a *Adapter) write(items []models.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	if err := a.slot.Set(a.key, data); err != nil {
		return fmt.Errorf("write slot %s: %w", a.key, err)
	}
	return nil
}

// Append adds item to the end of the persisted collection.
func (a *Adapter) Append(item models.Item) error {
	items, err := a.readForWrite()
	if err != nil {
		return err
	}
	if err := a.write(append(items, item)); err != nil {
		return err
	}
	return a.raiseNextID(item.ID + 1)
}

// Update overwrites the persisted entry with item's id. A missing entry is appended
// so the slot converges on the in-memory collection.
func (a *Adapter) Update(item models.Item) error {
	items, err := a.readForWrite()
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = item
			return a.write(items)
		}
	}
	return a.write(append(items, item))
}

// Remove drops the persisted entry with id.
func (a *Adapter) Remove(id int) error {
	items, err := a.readForWrite()
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	return a.write(kept)
}

// Replace writes items as the whole collection.
func (a *Adapter) Replace(items []models.Item) error {
	if items == nil {
		items = []models.Item{}
	}
	return a.write(items)
}

// Clear removes the slot and its id mark.
func (a *Adapter) Clear() error {
	for _, key := range []string{a.key, a.NextIDKey()} {
		if err := a.slot.Delete(key); err != nil {
			return fmt.Errorf("clear slot %s: %w", key, err)
		}
	}
	return nil
}

// NextIDKey names the slot holding the lowest id not yet handed out.
func (a *Adapter) NextIDKey() string {
	return NextIDKey(a.key)
}

// NextIDKey returns the id mark key stored alongside key.
func NextIDKey(key string) string {
	return key + ".next_id"
}

// LoadNextID returns the persisted id mark, or 0 when absent or unreadable.
func (a *Adapter) LoadNextID() int {
	data, err := a.slot.Get(a.NextIDKey())
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			a.logger.Warn("ignoring unreadable id mark", zap.String("key", a.NextIDKey()), zap.Error(err))
		}
		return 0
	}
	next, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || next < 0 {
		a.logger.Warn("ignoring malformed id mark", zap.String("key", a.NextIDKey()), zap.ByteString("value", data))
		return 0
	}
	return next
}

// raiseNextID stores next as the id mark unless a higher mark is already stored.
func (a *Adapter) raiseNextID(next int) error {
	if a.LoadNextID() >= next {
		return nil
	}
	if err := a.slot.Set(a.NextIDKey(), []byte(strconv.Itoa(next))); err != nil {
		return fmt.Errorf("write slot %s: %w", a.NextIDKey(), err)
	}
	return nil
}
