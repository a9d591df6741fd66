// Package config loads process settings from defaults, an optional YAML file
// and the environment, in that order.
package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "fanbase.config"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

// Driver names the relational dialect of the remote backend.
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

func (d Driver) Valid() bool { return d == DriverPostgres || d == DriverSQLite }

// Config is read once at startup and not changed afterwards. Environment
// variables may carry a FANBASE_ prefix; the bare names also work.
type Config struct {
	// UseMockData selects the in-memory fixture backend.
	UseMockData    bool   `yaml:"useMockData"    envconfig:"USE_MOCK_DATA"`
	DatabaseURL    string `yaml:"databaseUrl"    envconfig:"DATABASE_URL"`
	DatabaseDriver Driver `yaml:"databaseDriver" envconfig:"DATABASE_DRIVER"`
	ListenAddress  string `yaml:"listenAddress"  envconfig:"LISTEN_ADDRESS"`
	LogLevel       string `yaml:"logLevel"       envconfig:"LOG_LEVEL"`
	LogFormat      string `yaml:"logFormat"      envconfig:"LOG_FORMAT"`
	// DevSeed loads the fixture dataset into an empty relational store.
	DevSeed bool `yaml:"devSeed" envconfig:"DEV_SEED"`
	Tracing bool `yaml:"tracing" envconfig:"TRACING"`

	JWTSecret   string `yaml:"jwtSecret"   envconfig:"JWT_HS256_SECRET"`
	JWTIssuer   string `yaml:"jwtIssuer"   envconfig:"JWT_ISSUER"`
	JWTAudience string `yaml:"jwtAudience" envconfig:"JWT_AUDIENCE"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	return &Config{
		UseMockData:    true,
		DatabaseDriver: DriverPostgres,
		ListenAddress:  ":8080",
		LogLevel:       "info",
		LogFormat:      "json",
	}
}

// Load applies the YAML file at path, if any, then the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}
	if err := envconfig.Process("fanbase", cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the provider cannot act on.
func (c *Config) Validate() error {
	if c.DatabaseDriver == "" {
		c.DatabaseDriver = DriverPostgres
	}
	if !c.DatabaseDriver.Valid() {
		return fmt.Errorf("unknown database driver %q", c.DatabaseDriver)
	}
	if !c.UseMockData && strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required when USE_MOCK_DATA is false")
	}
	return nil
}

// LogLevelValue maps LogLevel onto slog. Unknown values mean info.
func (c *Config) LogLevelValue() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "err":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger builds the process logger writing to w.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevelValue()}
	if strings.EqualFold(strings.TrimSpace(c.LogFormat), "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
