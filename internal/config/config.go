// Package config loads OurTime client configuration from YAML with local
// overrides and environment variables layered on top.
//
// Resolution order, later wins:
//
//	built-in defaults
//	config.yaml
//	config.local.yaml
//	OURTIME_* environment variables
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// TYPES
// =============================================================================

// Config is the full client configuration.
type Config struct {
	// API is the backend base URL, including the /api prefix.
	API APIConfig `yaml:"api"`

	// Map configures the map surface.
	Map MapConfig `yaml:"map"`

	// UI holds presentation preferences.
	UI UIConfig `yaml:"ui"`

	// Logging controls the category log files.
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the HTTP client.
type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// MapConfig configures the map surface. ClientID is the map provider key;
// when it is empty the map cannot initialize and the UI shows a persistent
// error panel instead.
type MapConfig struct {
	ClientID   string  `yaml:"client_id"`
	CenterLat  float64 `yaml:"center_lat"`
	CenterLng  float64 `yaml:"center_lng"`
	ShowRoutes bool    `yaml:"show_routes"`
}

// UIConfig holds presentation preferences.
type UIConfig struct {
	Theme string `yaml:"theme"`
}

// LoggingConfig controls the category log files written under the config
// directory.
type LoggingConfig struct {
	Debug bool   `yaml:"debug"`
	Level string `yaml:"level"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// DefaultConfig returns the built-in defaults. The map centers on Seoul,
// matching the service's home market.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8080/api",
			TimeoutSeconds: 30,
		},
		Map: MapConfig{
			CenterLat:  37.5665,
			CenterLng:  126.9780,
			ShowRoutes: true,
		},
		UI: UIConfig{
			Theme: "dark",
		},
		Logging: LoggingConfig{
			Debug: false,
			Level: "info",
		},
	}
}

// =============================================================================
// LOADING
// =============================================================================

// Dir returns the configuration directory, ~/.ourtime, creating it if
// missing. OURTIME_CONFIG_DIR overrides the location.
func Dir() (string, error) {
	if dir := os.Getenv("OURTIME_CONFIG_DIR"); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating config dir: %w", err)
		}
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home dir: %w", err)
	}
	dir := filepath.Join(home, ".ourtime")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}
	return dir, nil
}

// Load resolves the config directory and loads configuration from it.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(dir)
}

// LoadFrom loads configuration from a specific directory. Missing files are
// not errors; a malformed file is.
func LoadFrom(dir string) (*Config, error) {
	cfg := DefaultConfig()

	for _, name := range []string{"config.yaml", "config.local.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides layers OURTIME_* environment variables over the file
// values. Unparseable numeric or boolean values are ignored.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OURTIME_API_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv("OURTIME_API_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.API.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("OURTIME_MAP_CLIENT_ID"); v != "" {
		cfg.Map.ClientID = v
	}
	if v := os.Getenv("OURTIME_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("OURTIME_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Logging.Debug = b
		}
	}
	if v := os.Getenv("OURTIME_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the loaded configuration for values that would only fail
// later and less clearly.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL)
	}
	if c.API.TimeoutSeconds <= 0 {
		return fmt.Errorf("api.timeout_seconds must be positive, got %d", c.API.TimeoutSeconds)
	}
	switch c.UI.Theme {
	case "dark", "light":
	default:
		return fmt.Errorf("ui.theme must be dark or light, got %q", c.UI.Theme)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}

// Save writes the configuration to config.yaml in the given directory.
func (c *Config) Save(dir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
