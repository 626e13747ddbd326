package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the settings read from the optional config file and the
// DBRESTRICT_ environment
type Config struct {
	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Postgres struct {
		Image    string `mapstructure:"image"`
		Database string `mapstructure:"database"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
	} `mapstructure:"postgres"`

	Output struct {
		Format string `mapstructure:"format"`
	} `mapstructure:"output"`
}

// LoadConfig reads the YAML file at path, if any, on top of the defaults.
// Environment variables such as DBRESTRICT_LOG_LEVEL override both.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("postgres.image", "postgres:16-alpine")
	v.SetDefault("postgres.database", "testdb")
	v.SetDefault("postgres.username", "testuser")
	v.SetDefault("postgres.password", "testpass")
	v.SetDefault("output.format", "info")

	v.SetEnvPrefix("DBRESTRICT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// newLogger builds the process logger described by cfg
func newLogger(w io.Writer, cfg *Config) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch cfg.Log.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", cfg.Log.Format)
	}
}
