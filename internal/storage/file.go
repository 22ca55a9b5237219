// ABOUTME: File slot backend storing each key as a JSON file
// ABOUTME: Writes go through a temp file and rename so readers never see partial data

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// FileSlot stores each key as <dir>/<key>.json.
type FileSlot struct {
	dir string
}

// Compile-time check that FileSlot implements Slot.
var _ Slot = (*FileSlot)(nil)

var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// NewFileSlot creates the directory if needed.
func NewFileSlot(dir string) (*FileSlot, error) {
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}
	return &FileSlot{dir: dir}, nil
}

func (f *FileSlot) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid slot key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

// Get reads the file for key.
func (f *FileSlot) Get(key string) ([]byte, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, err
	}
	//#nosec G304 -- path is built from a validated key inside the data dir
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", p, err)
	}
	return data, nil
}

// Set atomically replaces the file for key.
func (f *FileSlot) Set(key string, value []byte) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	return AtomicWrite(p, value)
}

// Delete removes the file for key.
func (f *FileSlot) Delete(key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", p, err)
	}
	return nil
}

// Close is a no-op.
func (f *FileSlot) Close() error {
	return nil
}

// AtomicWrite writes data to a temp file in the same directory and renames it over path.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
