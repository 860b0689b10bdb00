package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/opsgate/internal/common"
)

// Transport values accepted by Gateway.Transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Session mode values accepted by Gateway.SessionMode.
const (
	SessionStateful  = "stateful"
	SessionStateless = "stateless"
)

// Config represents the application configuration.
type Config struct {
	Server  ServerConfig         `toml:"server"`
	Gateway GatewayConfig        `toml:"gateway"`
	OpenAPI OpenAPIConfig        `toml:"openapi"`
	Prompts PromptsConfig        `toml:"prompts"`
	Logging common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains settings for the shared HTTP listener
// (used only when the gateway transport is "http").
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// GatewayConfig contains MCP transport and session settings.
// Transport and session mode are evaluated once at startup and are
// immutable for the process lifetime.
type GatewayConfig struct {
	Transport   string `toml:"transport"`    // "stdio" (default) or "http"
	SessionMode string `toml:"session_mode"` // "stateful" (default) or "stateless"
}

// OpenAPIConfig contains metadata embedded in the generated API document.
type OpenAPIConfig struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
	ServerURL   string `toml:"server_url"`
}

// PromptsConfig contains the static prompt catalog location.
type PromptsConfig struct {
	Path string `toml:"path"`
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies OPSGATE_* environment variable overrides to config.
func applyEnvOverrides(config *Config) {
	if port := os.Getenv("OPSGATE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("OPSGATE_HOST"); host != "" {
		config.Server.Host = host
	}
	if transport := os.Getenv("OPSGATE_TRANSPORT"); transport != "" {
		config.Gateway.Transport = strings.ToLower(transport)
	}
	if mode := os.Getenv("OPSGATE_SESSION_MODE"); mode != "" {
		config.Gateway.SessionMode = strings.ToLower(mode)
	}
	if path := os.Getenv("OPSGATE_PROMPTS_PATH"); path != "" {
		config.Prompts.Path = path
	}
	if level := os.Getenv("OPSGATE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config.
// Flags have the highest priority: file and environment values lose.
func ApplyFlagOverrides(config *Config, port int, host, transport string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
	if transport != "" {
		config.Gateway.Transport = strings.ToLower(transport)
	}
}

// Validate checks mandatory configuration and returns a list of issues.
// An empty list means the configuration is usable.
func (c *Config) Validate() []string {
	var issues []string

	switch c.Gateway.Transport {
	case TransportStdio, TransportHTTP:
	default:
		issues = append(issues, fmt.Sprintf("gateway.transport must be %q or %q, got %q",
			TransportStdio, TransportHTTP, c.Gateway.Transport))
	}

	switch c.Gateway.SessionMode {
	case SessionStateful, SessionStateless:
	default:
		issues = append(issues, fmt.Sprintf("gateway.session_mode must be %q or %q, got %q",
			SessionStateful, SessionStateless, c.Gateway.SessionMode))
	}

	if c.Gateway.Transport == TransportHTTP {
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			issues = append(issues, fmt.Sprintf("server.port must be between 1 and 65535, got %d", c.Server.Port))
		}
	}

	return issues
}
