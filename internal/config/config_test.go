package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeConfig(t, `{
		"port": 9000,
		"database_url": "postgres://localhost/jobhunt",
		"redis_url": "redis://localhost:6379/0",
		"use_browser": true,
		"probe_timeout": "3s",
		"fetch_timeout": 15,
		"lookup_cache_ttl": "12h"
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "postgres://localhost/jobhunt", cfg.DatabaseURL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.True(t, cfg.UseBrowser)
	assert.Equal(t, 3*time.Second, cfg.ProbeTimeout.Std())
	assert.Equal(t, 15*time.Second, cfg.FetchTimeout.Std())
	assert.Equal(t, 12*time.Hour, cfg.LookupCacheTTL.Std())
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{ invalid json }`))
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidDuration(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `{"probe_timeout": "soon"}`))
	assert.Error(t, err)
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestDuration_MarshalRoundTrip(t *testing.T) {
	data, err := json.Marshal(Duration(90 * time.Second))
	require.NoError(t, err)
	assert.Equal(t, `"1m30s"`, string(data))
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":             "3000",
		"DATABASE_URL":     "postgres://env/db",
		"GEMINI_API_KEY":   "key",
		"LOG_LEVEL":        "debug",
		"USE_BROWSER":      "true",
		"PROBE_TIMEOUT":    "2s",
		"LOOKUP_CACHE_TTL": "1h",
	}
	cfg := Config{Port: 8000, RedisURL: "redis://file"}

	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, 3000, cfg.Port)
	assert.Equal(t, "postgres://env/db", cfg.DatabaseURL)
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "redis://file", cfg.RedisURL, "unset env keeps file value")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.UseBrowser)
	assert.Equal(t, 2*time.Second, cfg.ProbeTimeout.Std())
	assert.Equal(t, time.Hour, cfg.LookupCacheTTL.Std())
}

func TestApplyEnv_InvalidValues(t *testing.T) {
	tests := map[string]string{
		"PORT":          "eighty",
		"USE_BROWSER":   "maybe",
		"FETCH_TIMEOUT": "10",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			cfg := Config{}
			err := cfg.ApplyEnv(func(k string) string {
				if k == key {
					return value
				}
				return ""
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"defaults", Defaults(), ""},
		{"port too high", Config{Port: 70000}, "port"},
		{"negative probe timeout", Config{ProbeTimeout: Duration(-time.Second)}, "probe_timeout"},
		{"negative fetch timeout", Config{FetchTimeout: Duration(-time.Second)}, "fetch_timeout"},
		{"negative ttl", Config{LookupCacheTTL: Duration(-time.Second)}, "lookup_cache_ttl"},
		{"bad log level", Config{LogLevel: "loud"}, "log_level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequireServe(t *testing.T) {
	cfg := Config{}
	err := cfg.RequireServe()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	cfg = Config{DatabaseURL: "postgres://x", APIKey: "k"}
	assert.NoError(t, cfg.RequireServe())
}

func TestMergeWithDefaults(t *testing.T) {
	partial := Config{Port: 9000, APIKey: "custom"}
	merged := partial.MergeWithDefaults(Defaults())

	assert.Equal(t, 9000, merged.Port)
	assert.Equal(t, "custom", merged.APIKey)
	assert.Equal(t, DefaultLogLevel, merged.LogLevel)
	assert.Equal(t, DefaultProbeTimeout, merged.ProbeTimeout.Std())
	assert.Equal(t, DefaultFetchTimeout, merged.FetchTimeout.Std())
	assert.Equal(t, DefaultLookupCacheTTL, merged.LookupCacheTTL.Std())
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Port: 1234}
	merged := cfg.MergeWithDefaults(Config{})
	assert.Equal(t, 1234, merged.Port)
	assert.Empty(t, merged.LogLevel)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := writeConfig(t, `{"port": 9000, "log_level": "warn"}`)
	t.Setenv("PORT", "9100")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("PROBE_TIMEOUT", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, DefaultProbeTimeout, cfg.ProbeTimeout.Std())
}
