// Package config provides configuration loading and validation for the
// tracker service and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Default values applied by Defaults and MergeWithDefaults.
const (
	DefaultPort           = 8080
	DefaultLogLevel       = "info"
	DefaultProbeTimeout   = 5 * time.Second
	DefaultFetchTimeout   = 10 * time.Second
	DefaultLookupCacheTTL = 24 * time.Hour
)

// Duration is a time.Duration that reads from JSON as a Go duration string
// ("5s", "24h") or as a number of seconds.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*d = Duration(time.Duration(v * float64(time.Second)))
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config holds service settings. It can be loaded from a JSON file and then
// overlaid with environment variables and CLI flags.
type Config struct {
	Port        int    `json:"port,omitempty"`
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key
	RedisURL    string `json:"redis_url,omitempty"`    // optional lookup cache
	LogLevel    string `json:"log_level,omitempty"`

	UseBrowser     bool     `json:"use_browser,omitempty"` // headless browser fallback for JS-rendered pages
	ProbeTimeout   Duration `json:"probe_timeout,omitempty"`
	FetchTimeout   Duration `json:"fetch_timeout,omitempty"`
	LookupCacheTTL Duration `json:"lookup_cache_ttl,omitempty"`
}

// Defaults returns a configuration with every default filled in.
func Defaults() Config {
	return Config{
		Port:           DefaultPort,
		LogLevel:       DefaultLogLevel,
		ProbeTimeout:   Duration(DefaultProbeTimeout),
		FetchTimeout:   Duration(DefaultFetchTimeout),
		LookupCacheTTL: Duration(DefaultLookupCacheTTL),
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// ApplyEnv overlays values from the environment. Unset variables leave the
// current value alone.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		c.Port = port
	}
	if v := getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv("GEMINI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("USE_BROWSER"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid USE_BROWSER: %w", err)
		}
		c.UseBrowser = b
	}

	durations := []struct {
		env string
		dst *Duration
	}{
		{"PROBE_TIMEOUT", &c.ProbeTimeout},
		{"FETCH_TIMEOUT", &c.FetchTimeout},
		{"LOOKUP_CACHE_TTL", &c.LookupCacheTTL},
	}
	for _, d := range durations {
		v := getenv(d.env)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.env, err)
		}
		*d.dst = Duration(parsed)
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Required fields are checked separately by RequireServe.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.ProbeTimeout < 0 {
		return fmt.Errorf("config error: 'probe_timeout' must be non-negative")
	}
	if c.FetchTimeout < 0 {
		return fmt.Errorf("config error: 'fetch_timeout' must be non-negative")
	}
	if c.LookupCacheTTL < 0 {
		return fmt.Errorf("config error: 'lookup_cache_ttl' must be non-negative")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config error: unknown 'log_level' %q", c.LogLevel)
	}
	return nil
}

// RequireServe checks the fields the HTTP server cannot start without.
func (c *Config) RequireServe() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "database_url (DATABASE_URL)")
	}
	if c.APIKey == "" {
		missing = append(missing, "api_key (GEMINI_API_KEY)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config error: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.ProbeTimeout == 0 {
		result.ProbeTimeout = defaults.ProbeTimeout
	}
	if result.FetchTimeout == 0 {
		result.FetchTimeout = defaults.FetchTimeout
	}
	if result.LookupCacheTTL == 0 {
		result.LookupCacheTTL = defaults.LookupCacheTTL
	}

	// Bools cannot distinguish unset from false; flags and env win.

	return result
}

// Load reads the optional file at path, overlays the environment and fills
// defaults. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := &Config{}
	if path != "" {
		loaded, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return Config{}, err
	}
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}
