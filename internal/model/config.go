package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// APIConfig holds settings for the visit-tracking HTTP API.
type APIConfig struct {
	// BaseURL is the root URL of the API, e.g. "https://api.example.com/v1".
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec is the per-request HTTP timeout.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// ReadRetries is how many times a failed read query is retried.
	// Mutations are never retried automatically.
	ReadRetries int `mapstructure:"read_retries" yaml:"read_retries"`
}

// CacheConfig holds query-cache settings.
type CacheConfig struct {
	// FreshForSec is the staleness window for cached query results.
	FreshForSec int `mapstructure:"fresh_for_sec" yaml:"fresh_for_sec"`
}

// GeoConfig holds device-location settings.
type GeoConfig struct {
	// Provider selects how a position fix is acquired: "static" uses
	// the configured coordinates, "exec" runs LocatorCommand.
	Provider string `mapstructure:"provider" yaml:"provider"`

	// TimeoutMS bounds a single location acquisition.
	TimeoutMS int `mapstructure:"timeout_ms" yaml:"timeout_ms"`

	// LocatorCommand is an external command printing "lat lon" to
	// stdout, used when Provider is "exec".
	LocatorCommand string `mapstructure:"locator_command" yaml:"locator_command"`

	Latitude  float64 `mapstructure:"latitude" yaml:"latitude"`
	Longitude float64 `mapstructure:"longitude" yaml:"longitude"`
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	PageSize int `mapstructure:"page_size" yaml:"page_size"`

	// Timezone is the IANA zone used for display-derived shift fields.
	// Empty means the process-local zone.
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Cache   CacheConfig   `mapstructure:"cache" yaml:"cache"`
	Geo     GeoConfig     `mapstructure:"geo" yaml:"geo"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns the default path for the configuration
// file, located at ~/.config/visit-tracker/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "visit-tracker", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			TimeoutSec:  30,
			ReadRetries: 2,
		},
		Cache: CacheConfig{
			FreshForSec: 300,
		},
		Geo: GeoConfig{
			Provider:  "static",
			TimeoutMS: 5000,
		},
		Display: DisplayConfig{
			PageSize: 5,
		},
		Log: LogConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using
// Viper, with VISIT_TRACKER_* environment variables taking precedence
// (e.g. VISIT_TRACKER_API_BASE_URL). A missing file yields defaults.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("VISIT_TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.timeout_sec", 30)
	v.SetDefault("api.read_retries", 2)
	v.SetDefault("cache.fresh_for_sec", 300)
	v.SetDefault("geo.provider", "static")
	v.SetDefault("geo.timeout_ms", 5000)
	v.SetDefault("display.page_size", 5)
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return envOnlyConfig(v), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return envOnlyConfig(v), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	applyEnvOverrides(v, cfg)
	return cfg, nil
}

// envOnlyConfig builds a configuration from defaults plus environment
// variables when no config file is present.
func envOnlyConfig(v *viper.Viper) *AppConfig {
	cfg := defaultAppConfig()
	applyEnvOverrides(v, cfg)
	return cfg
}

// applyEnvOverrides copies bound environment values over the loaded
// configuration. Viper's AutomaticEnv does not feed Unmarshal, so the
// keys we care about are read back explicitly.
func applyEnvOverrides(v *viper.Viper, cfg *AppConfig) {
	if s := v.GetString("api.base_url"); s != "" {
		cfg.API.BaseURL = s
	}
	if n := v.GetInt("api.timeout_sec"); n > 0 {
		cfg.API.TimeoutSec = n
	}
	if n := v.GetInt("cache.fresh_for_sec"); n > 0 {
		cfg.Cache.FreshForSec = n
	}
	if n := v.GetInt("geo.timeout_ms"); n > 0 {
		cfg.Geo.TimeoutMS = n
	}
	if s := v.GetString("log.file"); s != "" {
		cfg.Log.File = s
	}
	if s := v.GetString("log.level"); s != "" {
		cfg.Log.Level = s
	}
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("cache", cfg.Cache)
	v.Set("geo", cfg.Geo)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
