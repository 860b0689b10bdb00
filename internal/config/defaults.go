package config

import "github.com/bobmcallan/opsgate/internal/common"

// NewDefaultConfig creates a configuration with default values.
// The gateway defaults to the stdio transport; when the http transport is
// selected the listener defaults to all interfaces on port 3456.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 3456,
		},
		Gateway: GatewayConfig{
			Transport:   TransportStdio,
			SessionMode: SessionStateful,
		},
		OpenAPI: OpenAPIConfig{
			Title:       "Opsgate REST API",
			Description: "REST surface of the opsgate tool gateway",
		},
		Prompts: PromptsConfig{
			Path: "config/prompts.toml",
		},
		Logging: common.LoggingConfig{
			Level: "info",
		},
	}
}
