// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig_DefaultsOnly(t *testing.T) {
	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, uint64(4), cfg.Retry.MaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Retry.BaseDelay)
	assert.Equal(t, 30*time.Second, cfg.Retry.MaxElapsed)
	assert.Equal(t, uint64(20), cfg.Retry.JitterPercent)
	assert.Equal(t, 3, cfg.Retry.ConflictRetries)
	assert.Equal(t, 15*time.Second, cfg.Store.Timeout)
}

func TestGetConfig_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("STORE_BASE_URL", "https://docs.example.com")
	t.Setenv("RETRY_MAX_ATTEMPTS", "7")
	t.Setenv("RETRY_BASE_DELAY", "250ms")
	t.Setenv("COLLECTIONS", "user:users,order:orders")

	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://docs.example.com", cfg.Store.BaseURL)
	assert.Equal(t, uint64(7), cfg.Retry.MaxAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Retry.BaseDelay)
	assert.Equal(t, map[string]string{"user": "users", "order": "orders"}, cfg.Collections)

	// Untouched fields keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.Retry.MaxElapsed)
}

func TestGetConfig_JSONFileFillsGaps(t *testing.T) {
	jsonPath := filepath.Join(t.TempDir(), "config.json")
	payload := `{
		"store": {"base_url": "https://json.example.com", "timeout": "5s"},
		"retry": {"max_attempts": 9, "base_delay": "1s", "max_elapsed": "1m", "jitter_percent": 10, "conflict_retries": 2},
		"collections": {"user": "users"}
	}`
	require.NoError(t, os.WriteFile(jsonPath, []byte(payload), 0o600))

	t.Setenv("CONFIG", jsonPath)
	// Env beats JSON for fields present in both.
	t.Setenv("STORE_BASE_URL", "https://env.example.com")

	cfg, err := GetConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.Store.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Store.Timeout)
	assert.Equal(t, uint64(9), cfg.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Retry.BaseDelay)
	assert.Equal(t, time.Minute, cfg.Retry.MaxElapsed)
	assert.Equal(t, map[string]string{"user": "users"}, cfg.Collections)
}

func TestGetConfig_MissingJSONFile(t *testing.T) {
	t.Setenv("CONFIG", filepath.Join(t.TempDir(), "does-not-exist.json"))

	_, err := GetConfig()
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "ZeroMaxAttempts", mutate: func(c *Config) { c.Retry.MaxAttempts = 0 }},
		{name: "ZeroBaseDelay", mutate: func(c *Config) { c.Retry.BaseDelay = 0 }},
		{name: "ZeroMaxElapsed", mutate: func(c *Config) { c.Retry.MaxElapsed = 0 }},
		{name: "NegativeConflictRetries", mutate: func(c *Config) { c.Retry.ConflictRetries = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)

			err := cfg.validate()
			assert.ErrorIs(t, err, ErrInvalidRetryConfigs)
		})
	}
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    time.Duration
	}{
		{name: "String", payload: `"1h30m"`, want: 90 * time.Minute},
		{name: "Nanoseconds", payload: `1000000000`, want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			require.NoError(t, d.UnmarshalJSON([]byte(tt.payload)))
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}
