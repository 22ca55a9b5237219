// ABOUTME: Data migration between slot backends
// ABOUTME: Copies the item collection from a source slot to a destination slot

package storage

import (
	"errors"
	"fmt"
)

// MigrateSummary holds counts of migrated entities.
type MigrateSummary struct {
	Items int
	Bytes int
}

// MigrateData copies the value under key from src to dst.
// The payload must decode as an item collection; unreadable data is refused
// rather than copied. Destinations that already hold the key are refused unless
// overwrite is set.
func MigrateData(src, dst Slot, key string, overwrite bool) (*MigrateSummary, error) {
	if key == "" {
		key = DefaultSlotKey
	}

	data, err := src.Get(key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return &MigrateSummary{}, nil
		}
		return nil, fmt.Errorf("read source: %w", err)
	}

	items, err := decodeItems(data)
	if err != nil {
		return nil, fmt.Errorf("source slot is not an item collection: %w", err)
	}

	if !overwrite {
		if _, err := dst.Get(key); err == nil {
			return nil, fmt.Errorf("destination already has data under %q", key)
		} else if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("check destination: %w", err)
		}
	}

	if err := dst.Set(key, data); err != nil {
		return nil, fmt.Errorf("write destination: %w", err)
	}

	// The id mark travels with the collection when present.
	mark, err := src.Get(NextIDKey(key))
	switch {
	case err == nil:
		if err := dst.Set(NextIDKey(key), mark); err != nil {
			return nil, fmt.Errorf("write destination id mark: %w", err)
		}
	case !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("read source id mark: %w", err)
	}

	return &MigrateSummary{Items: len(items), Bytes: len(data)}, nil
}
