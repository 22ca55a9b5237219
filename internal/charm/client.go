// ABOUTME: Charm KV slot backend using transactional Do API
// ABOUTME: Short-lived connections to avoid lock contention with other tally processes

package charm

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/charm/kv"
	"github.com/harper/tally/internal/storage"
)

const (
	// DBName is the name of the Charm KV database for tally data.
	DBName = "tally"

	// DefaultCharmHost is the default Charm server to use.
	DefaultCharmHost = "charm.2389.dev"
)

// Client implements storage.Slot on Charm KV.
// It does NOT hold a persistent connection: each operation opens the
// database, performs the operation, and closes it.
type Client struct {
	dbName   string
	autoSync bool
}

// Compile-time check that Client implements storage.Slot.
var _ storage.Slot = (*Client)(nil)

// Config holds client configuration options.
type Config struct {
	// CharmHost is the Charm server to use (default: charm.2389.dev).
	CharmHost string
	// AutoSync enables automatic sync after writes.
	AutoSync bool
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *Config {
	host := os.Getenv("CHARM_HOST")
	if host == "" {
		host = DefaultCharmHost
	}
	return &Config{
		CharmHost: host,
		AutoSync:  true,
	}
}

// NewClient creates a new client with the given config.
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Set CHARM_HOST before any KV operations
	if err := os.Setenv("CHARM_HOST", cfg.CharmHost); err != nil {
		return nil, err
	}

	return &Client{
		dbName:   DBName,
		autoSync: cfg.AutoSync,
	}, nil
}

// NewTestClient creates a client for testing without network access.
func NewTestClient(dbName string) (*Client, error) {
	return &Client{
		dbName:   dbName,
		autoSync: false,
	}, nil
}

// Get retrieves a value by key (read-only, no lock contention).
func (c *Client) Get(key string) ([]byte, error) {
	var val []byte
	err := kv.DoReadOnly(c.dbName, func(k *kv.KV) error {
		var err error
		val, err = k.Get([]byte(key))
		return err
	})
	if err != nil {
		if errors.Is(err, kv.ErrMissingKey) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return val, nil
}

// Set stores a value with the given key.
func (c *Client) Set(key string, value []byte) error {
	return c.do(func(k *kv.KV) error {
		return k.Set([]byte(key), value)
	})
}

// Delete removes a key.
func (c *Client) Delete(key string) error {
	return c.do(func(k *kv.KV) error {
		return k.Delete([]byte(key))
	})
}

// do executes fn with write access and syncs afterwards when enabled.
func (c *Client) do(fn func(k *kv.KV) error) error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		if err := fn(k); err != nil {
			return err
		}
		if c.autoSync {
			return k.Sync()
		}
		return nil
	})
}

// Sync triggers a manual sync with the charm server.
func (c *Client) Sync() error {
	return kv.Do(c.dbName, func(k *kv.KV) error {
		return k.Sync()
	})
}

// Close is a no-op; connections are closed after each operation.
func (c *Client) Close() error {
	return nil
}
