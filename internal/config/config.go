// ABOUTME: Configuration management for breather with YAML config loading.
// ABOUTME: Handles storage backend settings, logging, time zone, env overrides, and ~ expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends understood by kv.Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Backends lists the valid storage backend names.
var Backends = []string{BackendFile, BackendSQLite, BackendRedis, BackendMemory}

// Config stores breather configuration loaded from ~/.config/breather/config.yaml.
type Config struct {
	Storage  StorageConfig `yaml:"storage"`
	Log      LogConfig     `yaml:"log"`
	Timezone string        `yaml:"timezone,omitempty"`
}

// StorageConfig selects and locates the key-value backend.
type StorageConfig struct {
	Backend        string `yaml:"backend,omitempty"`
	Path           string `yaml:"path,omitempty"` // data dir for file, db file for sqlite
	RedisURL       string `yaml:"redis_url,omitempty"`
	RedisNamespace string `yaml:"redis_namespace,omitempty"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"` // text or json
}

// IsValidBackend returns true if name is a known storage backend.
func IsValidBackend(name string) bool {
	for _, b := range Backends {
		if b == name {
			return true
		}
	}
	return false
}

// GetBackend returns the configured backend, defaulting to file.
func (s StorageConfig) GetBackend() string {
	if s.Backend == "" {
		return BackendFile
	}
	return strings.ToLower(s.Backend)
}

// GetPath returns the storage location for file and sqlite backends.
// File defaults to the data dir; sqlite defaults to breather.db inside it.
func (s StorageConfig) GetPath() (string, error) {
	if s.Path != "" {
		return ExpandPath(s.Path)
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if s.GetBackend() == BackendSQLite {
		return filepath.Join(dir, "breather.db"), nil
	}
	return dir, nil
}

// GetRedisURL returns the Redis URL, defaulting to a local server.
func (s StorageConfig) GetRedisURL() string {
	if s.RedisURL == "" {
		return "redis://localhost:6379/0"
	}
	return s.RedisURL
}

// GetRedisNamespace returns the key prefix used in Redis.
func (s StorageConfig) GetRedisNamespace() string {
	if s.RedisNamespace == "" {
		return "breather"
	}
	return s.RedisNamespace
}

// Location resolves the configured time zone, defaulting to time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// DataDir returns the default data directory.
func DataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "breather"), nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "breather", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Load reads config from disk, then applies environment overrides.
// Returns default config if the file doesn't exist.
func Load() (*Config, error) {
	cfg, err := loadFile()
	if err != nil {
		return nil, err
	}
	// .env is optional
	_ = godotenv.Load()
	cfg.applyEnv()
	return cfg, nil
}

// LoadFile reads config from disk without environment overrides, for callers
// that write the file back.
func LoadFile() (*Config, error) {
	return loadFile()
}

func loadFile() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		key    string
		target *string
	}{
		{"BREATHER_STORAGE_BACKEND", &c.Storage.Backend},
		{"BREATHER_STORAGE_PATH", &c.Storage.Path},
		{"BREATHER_REDIS_URL", &c.Storage.RedisURL},
		{"BREATHER_REDIS_NAMESPACE", &c.Storage.RedisNamespace},
		{"BREATHER_LOG_LEVEL", &c.Log.Level},
		{"BREATHER_LOG_FORMAT", &c.Log.Format},
		{"BREATHER_TIMEZONE", &c.Timezone},
	}
	for _, o := range overrides {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			*o.target = v
		}
	}
}

// Save writes config to disk.
func (c *Config) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
