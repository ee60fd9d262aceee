package service

import (
	"context"
	"log/slog"

	"github.com/memoai-dev/memocoach/pkg/gateway"
)

// FrontendConfig is the client tuning the service publishes for its
// frontends. Values are in seconds unless noted.
type FrontendConfig struct {
	SessionWarningThreshold int `json:"session_warning_threshold"`
	SessionRefreshInterval  int `json:"session_refresh_interval"`
	DebugConsoleLogLimit    int `json:"debug_console_log_limit"`
	LLMTimeoutExpectation   int `json:"llm_timeout_expectation"`
	DefaultResponseTime     int `json:"default_response_time"` // milliseconds
}

// DefaultFrontendConfig returns the values used when the service cannot be
// asked.
func DefaultFrontendConfig() FrontendConfig {
	return FrontendConfig{
		SessionWarningThreshold: 10,
		SessionRefreshInterval:  60,
		DebugConsoleLogLimit:    50,
		LLMTimeoutExpectation:   15,
		DefaultResponseTime:     1000,
	}
}

// Config fetches service-published client configuration.
type Config struct {
	api    *gateway.Client
	logger *slog.Logger
}

// NewConfig creates the config service over the shared gateway client.
func NewConfig(api *gateway.Client, logger *slog.Logger) *Config {
	if logger == nil {
		logger = slog.Default()
	}
	return &Config{api: api, logger: logger}
}

// Frontend returns the published frontend configuration, falling back to
// defaults on any failure. Configuration is tuning, not correctness, so a
// dead endpoint never blocks the client.
func (c *Config) Frontend(ctx context.Context) FrontendConfig {
	res, err := c.api.Get(ctx, "/api/v1/config/frontend")
	if err != nil || !res.Success {
		c.logger.Warn("service: frontend config unavailable, using defaults",
			"error", err, "message", res.Error)
		return DefaultFrontendConfig()
	}
	var cfg FrontendConfig
	if err := res.Decode(&cfg); err != nil {
		c.logger.Warn("service: malformed frontend config, using defaults", "error", err)
		return DefaultFrontendConfig()
	}
	return cfg
}
