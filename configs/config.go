package configs

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/i2y/mcpmock/internal/domain"
)

const envPrefix = "mcpmock"

// FileConfig defines the structure loaded from the YAML configuration file.
type FileConfig struct {
	Toolset string `yaml:"toolset"`
	Server  struct {
		Name            string `yaml:"name"`
		Version         string `yaml:"version"`
		ProtocolVersion string `yaml:"protocol_version"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		File   string `yaml:"file"`
	} `yaml:"log"`
}

// Config holds the final application configuration, merged from file and environment variables.
// Fields are loaded from environment variables with the prefix "MCPMOCK_". A variable that is
// set always wins over the file; the file wins over defaults.
type Config struct {
	ConfigFilePath string `envconfig:"CONFIG_FILE"`

	Toolset string `envconfig:"TOOLSET" default:"simple"`

	// Identity overrides. Empty means the toolset's own identity.
	ServerName      string `envconfig:"SERVER_NAME"`
	ServerVersion   string `envconfig:"SERVER_VERSION"`
	ProtocolVersion string `envconfig:"PROTOCOL_VERSION"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"` // text or json
	LogFile   string `envconfig:"LOG_FILE"`                  // Empty means stderr

	OtelExporterOtlpEndpoint string        `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OtelExporterOtlpInsecure bool          `envconfig:"OTEL_EXPORTER_OTLP_INSECURE" default:"true"`
	ShutdownTimeout          time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
}

// ParsedLogLevel returns the slog.Level based on the configured LogLevel string.
func (c *Config) ParsedLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info":
		fallthrough
	default:
		return slog.LevelInfo
	}
}

// ServerIdentity applies the configured overrides to base.
func (c *Config) ServerIdentity(base domain.ServerIdentity) domain.ServerIdentity {
	if c.ServerName != "" {
		base.Name = c.ServerName
	}
	if c.ServerVersion != "" {
		base.Version = c.ServerVersion
	}
	if c.ProtocolVersion != "" {
		base.ProtocolVersion = c.ProtocolVersion
	}
	return base
}

// Validate reports settings that cannot be used.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q: must be text or json", c.LogFormat)
	}
	if c.Toolset == "" {
		return fmt.Errorf("toolset must not be empty")
	}
	return nil
}

// Load loads configuration from environment variables, then from the YAML file named by
// MCPMOCK_CONFIG_FILE if any, and lets explicitly set environment variables override the file.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if cfg.ConfigFilePath != "" {
		yamlFile, err := os.ReadFile(cfg.ConfigFilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", cfg.ConfigFilePath, err)
		}

		var fileCfg FileConfig
		if err := yaml.Unmarshal(yamlFile, &fileCfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file '%s': %w", cfg.ConfigFilePath, err)
		}
		cfg.merge(&fileCfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge copies non-empty file values into c unless the matching
// environment variable is set.
func (c *Config) merge(f *FileConfig) {
	fields := []struct {
		env   string
		value string
		dst   *string
	}{
		{"TOOLSET", f.Toolset, &c.Toolset},
		{"SERVER_NAME", f.Server.Name, &c.ServerName},
		{"SERVER_VERSION", f.Server.Version, &c.ServerVersion},
		{"PROTOCOL_VERSION", f.Server.ProtocolVersion, &c.ProtocolVersion},
		{"LOG_LEVEL", f.Log.Level, &c.LogLevel},
		{"LOG_FORMAT", f.Log.Format, &c.LogFormat},
		{"LOG_FILE", f.Log.File, &c.LogFile},
	}
	for _, field := range fields {
		if field.value == "" {
			continue
		}
		if _, set := os.LookupEnv(strings.ToUpper(envPrefix) + "_" + field.env); set {
			continue
		}
		*field.dst = field.value
	}
}
