// Package config loads and validates service configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/spice-ledger/internal/auth"
	"github.com/Veraticus/spice-ledger/internal/common"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config holds every setting the service reads at startup.
type Config struct {
	Users   map[string]string
	Server  ServerConfig
	Storage StorageConfig
	Logging LoggingConfig
	Metrics bool
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string
	Realm           string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// StorageConfig selects the record store backend.
type StorageConfig struct {
	Driver string
	DSN    string
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.realm", "ledger")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.dsn", ":memory:")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads configuration from v, falling back to defaults.
// It follows this precedence:
// 1. Values set on v (flags, LEDGER_ env vars, config file)
// 2. Default values
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			Realm:           v.GetString("server.realm"),
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("storage.driver")),
			DSN:    ExpandPath(v.GetString("storage.dsn")),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Metrics: v.GetBool("metrics.enabled"),
		Users:   v.GetStringMapString("auth.users"),
	}

	if len(cfg.Users) == 0 {
		cfg.Users = auth.DefaultUsers()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("%w: server.addr", common.ErrMissingConfig)
	}

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return fmt.Errorf("%w: storage.dsn", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage.driver %q", common.ErrInvalidConfig, c.Storage.Driver)
	}

	for name := range c.Users {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty username in auth.users", common.ErrInvalidConfig)
		}
	}

	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("%w: server.shutdown_timeout must not be negative", common.ErrInvalidConfig)
	}

	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}
	return nil
}

// ExpandPath expands ~ and environment variables in a file path.
// SQLite in-memory DSNs are returned unchanged.
func ExpandPath(path string) string {
	if path == "" || strings.HasPrefix(path, ":memory:") || strings.HasPrefix(path, "file:") {
		return path
	}

	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}

	return os.ExpandEnv(path)
}
