// ABOUTME: Badger slot backend for local durable storage
// ABOUTME: Default backend; each slot is one key in an embedded badger database

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// BadgerSlot implements Slot on an embedded badger database.
type BadgerSlot struct {
	db   *badger.DB
	path string
}

// Compile-time check that BadgerSlot implements Slot.
var _ Slot = (*BadgerSlot)(nil)

// badgerLogger routes badger's internal logging through zap.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

// NewBadgerSlot opens (or creates) a badger database in dir.
func NewBadgerSlot(dir string, logger *zap.Logger) (*BadgerSlot, error) {
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}
	return openBadger(badger.DefaultOptions(dir), dir, logger)
}

// NewInMemoryBadgerSlot opens a badger database that lives only in memory.
func NewInMemoryBadgerSlot(logger *zap.Logger) (*BadgerSlot, error) {
	return openBadger(badger.DefaultOptions("").WithInMemory(true), "", logger)
}

func openBadger(opts badger.Options, path string, logger *zap.Logger) (*BadgerSlot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts = opts.WithLogger(badgerLogger{logger.Named("badger").Sugar()})

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerSlot{db: db, path: path}, nil
}

// DefaultBadgerDir returns the badger directory inside dataDir.
func DefaultBadgerDir(dataDir string) string {
	return filepath.Join(dataDir, "badger")
}

// Get returns the value stored under key.
func (b *BadgerSlot) Get(key string) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return val, nil
}

// Set stores value under key.
func (b *BadgerSlot) Set(key string, value []byte) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (b *BadgerSlot) Delete(key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (b *BadgerSlot) Close() error {
	return b.db.Close()
}
