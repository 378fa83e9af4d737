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

// DefaultBaseURL is the admin API the client talks to when nothing else is configured.
const DefaultBaseURL = "http://localhost:2002"

// Config holds all takeoff admin client configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Admin API connection
	API APIConfig `yaml:"api"`

	// Durable client storage (session markers, language preference)
	Storage StorageConfig `yaml:"storage"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the admin REST API client.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// StorageConfig configures durable client storage.
type StorageConfig struct {
	Driver string `yaml:"driver"` // sqlite3 (cgo), sqlite (pure Go), file, memory
	Path   string `yaml:"path"`
}

// UIConfig holds terminal interface configuration.
type UIConfig struct {
	DarkMode bool   `yaml:"dark_mode"`
	PageSize int    `yaml:"page_size"` // verified-member list page size
	Language string `yaml:"language"`  // default language before a preference is stored
}

// DefaultDataDir returns ~/.takeoff, falling back to ./.takeoff.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".takeoff"
	}
	return filepath.Join(home, ".takeoff")
}

// DefaultConfigPath returns the default path to config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "takeoff",
		Version: "1.0.0",

		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: "30s",
		},

		Storage: StorageConfig{
			Driver: "sqlite3",
			Path:   filepath.Join(DefaultDataDir(), "storage.db"),
		},

		UI: UIConfig{
			DarkMode: false,
			PageSize: 10,
			Language: "English",
		},

		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			DebugMode: false,
		},
	}
}

// Load loads configuration from a YAML file.
// A .env file in the working directory is loaded first so its variables take part in env overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("TAKEOFF_API_URL"); url != "" {
		c.API.BaseURL = url
	}
	if timeout := os.Getenv("TAKEOFF_API_TIMEOUT"); timeout != "" {
		c.API.Timeout = timeout
	}
	if driver := os.Getenv("TAKEOFF_STORAGE_DRIVER"); driver != "" {
		c.Storage.Driver = driver
	}
	if path := os.Getenv("TAKEOFF_STORAGE_PATH"); path != "" {
		c.Storage.Path = path
	}
	if debug := os.Getenv("TAKEOFF_DEBUG"); debug != "" {
		c.Logging.DebugMode = debug == "1" || strings.EqualFold(debug, "true")
	}
	if os.Getenv("TAKEOFF_DARK_MODE") == "1" {
		c.UI.DarkMode = true
	}
}

// GetAPITimeout returns the API timeout as a duration.
func (c *Config) GetAPITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// GetPageSize returns the member list page size, defaulting to 10.
func (c *Config) GetPageSize() int {
	if c.UI.PageSize <= 0 {
		return 10
	}
	return c.UI.PageSize
}

// DataDir returns the directory holding storage and logs.
func (c *Config) DataDir() string {
	if c.Storage.Path == "" {
		return DefaultDataDir()
	}
	return filepath.Dir(c.Storage.Path)
}

// ValidStorageDrivers lists all supported storage drivers.
var ValidStorageDrivers = []string{"sqlite3", "sqlite", "file", "memory"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url not configured (set TAKEOFF_API_URL)")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("invalid api.base_url: %s (must start with http:// or https://)", c.API.BaseURL)
	}

	validDriver := false
	for _, d := range ValidStorageDrivers {
		if c.Storage.Driver == d {
			validDriver = true
			break
		}
	}
	if !validDriver {
		return fmt.Errorf("invalid storage driver: %s (valid: %v)", c.Storage.Driver, ValidStorageDrivers)
	}
	if c.Storage.Driver != "memory" && c.Storage.Path == "" {
		return fmt.Errorf("storage.path required for driver %s", c.Storage.Driver)
	}

	return nil
}
