// Package config manages configuration for the almanac server. Configuration
// is read from a TOML file and validated before the server starts.
package config

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// ConfigFormatVersion is the current version of the configuration file format
const ConfigFormatVersion = "0.1.0"

// MCPConfig holds settings for the MCP endpoint.
type MCPConfig struct {
	MaxBodyBytes int64  `toml:"max_body_bytes"` // request body cap in bytes
	MaxPending   int    `toml:"max_pending"`    // max outstanding requests; 0 means unbounded
	IdleTimeout  string `toml:"idle_timeout"`   // per-request wait timeout; empty means no timeout
}

// GetIdleTimeout returns the per-request idle timeout as a time.Duration.
// A zero duration disables the timeout.
func (m *MCPConfig) GetIdleTimeout() (time.Duration, error) {
	if m.IdleTimeout == "" {
		return 0, nil
	}
	return time.ParseDuration(m.IdleTimeout)
}

// ConfigParam holds all configuration parameters for the almanac server
type ConfigParam struct {
	// Configuration version
	FormatVersion string `toml:"format_version"` // Version of this configuration file format

	// Server configuration
	ServerHostName string `toml:"server_hostname" validate:"required,hostname"` // Hostname for the server
	ServerPort     string `toml:"server_port" validate:"required,numeric"`      // Port for the server
	HandleCORS     bool   `toml:"handle_cors"`                                  // Whether to handle CORS

	// MCP endpoint configuration
	MCP MCPConfig `toml:"mcp"`
}

var cfg *ConfigParam

// Config returns the current configuration
func Config() *ConfigParam {
	return cfg
}

// GetURL returns the base URL the server is reachable at.
func GetURL() string {
	return "http://" + Config().ServerHostName + ":" + Config().ServerPort
}

// defaultBodyCap bounds memory use under adversarial input.
const defaultBodyCap = 1 << 20 // 1 MiB

// ValidateConfig checks required values, applies defaults, and validates
// field formats with the struct validator.
func ValidateConfig(cfg *ConfigParam) error {
	if cfg.FormatVersion != ConfigFormatVersion {
		return fmt.Errorf("unsupported config file format version: %s", cfg.FormatVersion)
	}

	if cfg.ServerHostName == "" {
		cfg.ServerHostName = "127.0.0.1"
	}
	if cfg.ServerPort == "" {
		return fmt.Errorf("server_port is required")
	}

	if cfg.MCP.MaxBodyBytes == 0 {
		cfg.MCP.MaxBodyBytes = defaultBodyCap
	}
	if cfg.MCP.MaxBodyBytes < 0 {
		return fmt.Errorf("mcp.max_body_bytes must be positive")
	}
	if cfg.MCP.MaxPending < 0 {
		return fmt.Errorf("mcp.max_pending must not be negative")
	}
	if _, err := cfg.MCP.GetIdleTimeout(); err != nil {
		return fmt.Errorf("invalid mcp.idle_timeout: %v", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	return nil
}

// LoadConfig loads configuration from a file
func LoadConfig(filename string) error {
	if filename == "" {
		return fmt.Errorf("config filename is required")
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	c := &ConfigParam{}
	if _, err := toml.Decode(string(content), c); err != nil {
		return fmt.Errorf("error parsing config file: %v", err)
	}

	if err := ValidateConfig(c); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}

	cfg = c
	return nil
}

// TestInit installs a ready-to-use configuration for tests.
func TestInit(t *testing.T) {
	t.Helper()
	cfg = &ConfigParam{
		FormatVersion:  ConfigFormatVersion,
		ServerHostName: "127.0.0.1",
		ServerPort:     "8678",
		MCP: MCPConfig{
			MaxBodyBytes: defaultBodyCap,
		},
	}
}
