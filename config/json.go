package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// JSONConfig mirrors [Config] with JSON tags and string-friendly durations.
// It exists so the file format can evolve independently of the env layout.
type JSONConfig struct {
	Store struct {
		BaseURL string   `json:"base_url"`
		Token   string   `json:"token"`
		DSN     string   `json:"dsn"`
		Timeout Duration `json:"timeout"`
	} `json:"store,omitempty"`

	Retry struct {
		MaxAttempts     uint64   `json:"max_attempts"`
		BaseDelay       Duration `json:"base_delay"`
		MaxElapsed      Duration `json:"max_elapsed"`
		JitterPercent   uint64   `json:"jitter_percent"`
		ConflictRetries int      `json:"conflict_retries"`
	} `json:"retry,omitempty"`

	Collections map[string]string `json:"collections,omitempty"`
}

func parseJSON(jsonFilePath string) (*Config, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg JSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &Config{
		Store: Store{
			BaseURL: jsonCfg.Store.BaseURL,
			Token:   jsonCfg.Store.Token,
			DSN:     jsonCfg.Store.DSN,
			Timeout: time.Duration(jsonCfg.Store.Timeout),
		},
		Retry: Retry{
			MaxAttempts:     jsonCfg.Retry.MaxAttempts,
			BaseDelay:       time.Duration(jsonCfg.Retry.BaseDelay),
			MaxElapsed:      time.Duration(jsonCfg.Retry.MaxElapsed),
			JitterPercent:   jsonCfg.Retry.JitterPercent,
			ConflictRetries: jsonCfg.Retry.ConflictRetries,
		},
		Collections: jsonCfg.Collections,
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON
// unmarshaling from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
