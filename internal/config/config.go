// ABOUTME: Tally configuration management with backend selection
// ABOUTME: Handles settings, environment overrides, and the slot backend factory

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/tally/internal/charm"
	"github.com/harper/tally/internal/logging"
	"github.com/harper/tally/internal/storage"
	"go.uber.org/zap"
)

// Supported slot backends.
const (
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
	BackendCharm  = "charm"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Backends lists every backend name accepted by OpenSlot.
var Backends = []string{BackendBadger, BackendSQLite, BackendCharm, BackendFile, BackendMemory}

// Config stores tally configuration.
type Config struct {
	// Backend selects the slot backend: "badger" (default), "sqlite", "charm", "file" or "memory".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for data storage.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/tally.
	DataDir string `json:"data_dir,omitempty"`

	// SlotKey names the durable slot holding the collection. Defaults to "items".
	SlotKey string `json:"slot_key,omitempty"`

	// LogLevel is a zap level name. Defaults to "warn".
	LogLevel string `json:"log_level,omitempty"`

	// CharmHost overrides the Charm server for the charm backend.
	CharmHost string `json:"charm_host,omitempty"`
}

// GetBackend returns the configured backend, defaulting to badger.
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendBadger
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetSlotKey returns the slot key, defaulting to storage.DefaultSlotKey.
func (c *Config) GetSlotKey() string {
	if c.SlotKey == "" {
		return storage.DefaultSlotKey
	}
	return c.SlotKey
}

// GetLogLevel returns the log level, defaulting to logging.DefaultLevel.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return logging.DefaultLevel
	}
	return c.LogLevel
}

// defaultDataDir returns the default XDG data directory for tally.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "tally")
}

// defaultFirstRunConfig returns the appropriate default config for first-time runs.
// If an existing SQLite database is found, it preserves SQLite as the backend.
// Otherwise, it defaults to badger.
func defaultFirstRunConfig() *Config {
	dbPath := storage.DefaultDBPath(defaultDataDir())
	_, err := os.Stat(dbPath)
	switch {
	case err == nil:
		return &Config{Backend: BackendSQLite}
	case !os.IsNotExist(err):
		fmt.Fprintf(os.Stderr, "warning: could not check for existing database: %v\n", err)
	}
	return &Config{Backend: BackendBadger}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// applyEnv overrides fields from TALLY_* environment variables.
func (c *Config) applyEnv() {
	if v := os.Getenv("TALLY_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("TALLY_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("TALLY_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// OpenSlot creates the configured slot backend.
func (c *Config) OpenSlot(logger *zap.Logger) (storage.Slot, error) {
	return c.OpenBackend(c.GetBackend(), logger)
}

// OpenBackend creates a slot for the named backend using this config's data directory.
func (c *Config) OpenBackend(backend string, logger *zap.Logger) (storage.Slot, error) {
	dataDir := c.GetDataDir()

	switch backend {
	case BackendBadger:
		return storage.NewBadgerSlot(storage.DefaultBadgerDir(dataDir), logger)
	case BackendSQLite:
		return storage.NewSQLiteDB(storage.DefaultDBPath(dataDir))
	case BackendCharm:
		return charm.NewClient(c.CharmConfig())
	case BackendFile:
		return storage.NewFileSlot(filepath.Join(dataDir, "slots"))
	case BackendMemory:
		return storage.NewMemorySlot(), nil
	default:
		return nil, fmt.Errorf("unknown backend: %q (want one of %s)", backend, strings.Join(Backends, ", "))
	}
}

// CharmConfig returns the Charm client settings, honouring charm_host.
func (c *Config) CharmConfig() *charm.Config {
	charmCfg := charm.DefaultConfig()
	if c.CharmHost != "" {
		charmCfg.CharmHost = c.CharmHost
	}
	return charmCfg
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "tally", "config.json")
}

// Load reads config from disk and applies environment overrides.
// A missing file is created with first-run defaults.
func Load() (*Config, error) {
	path := GetConfigPath()
	//#nosec G304 -- path is derived from the user's config directory
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := defaultFirstRunConfig()
			if saveErr := cfg.Save(); saveErr != nil {
				fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
			}
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.applyEnv()
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return storage.AtomicWrite(path, data)
}
