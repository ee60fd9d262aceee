// Package config loads CLI configuration from memocoach.json and the
// environment.
//
// Resolution order: defaults, then the config file if present, then
// MEMOCOACH_* environment variables. Credentials are deliberately not part
// of the file: the session token lives only in process memory, and the
// password comes from flags or the environment per invocation.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "memocoach.json"

	// DefaultBackendURL matches the service's development default.
	DefaultBackendURL = "http://localhost:8000"

	// DefaultTimeout is the per-request budget.
	DefaultTimeout = 30 * time.Second
)

// Config is the resolved CLI configuration.
type Config struct {
	// BackendURL is the Memo AI service URL.
	BackendURL string `json:"backend_url,omitempty"`

	// TimeoutSeconds is the per-request budget in seconds.
	TimeoutSeconds int `json:"timeout_seconds,omitempty"`

	// TokenHeader overrides the credential header name.
	TokenHeader string `json:"token_header,omitempty"`
}

// Timeout returns the request budget as a duration.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load resolves configuration from the given file path (empty means
// ConfigFileName in the working directory), then applies environment
// overrides. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := &Config{
		BackendURL: DefaultBackendURL,
	}

	if path == "" {
		path = ConfigFileName
	}
	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults + env only.
	case err != nil:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	default:
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MEMOCOACH_BACKEND_URL"); v != "" {
		cfg.BackendURL = v
	}
	if v := os.Getenv("MEMOCOACH_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutSeconds = n
		}
	}
	if v := os.Getenv("MEMOCOACH_TOKEN_HEADER"); v != "" {
		cfg.TokenHeader = v
	}
}
