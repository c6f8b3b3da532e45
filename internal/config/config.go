// Package config loads the service configuration from a YAML file with
// environment-variable overrides for secrets and connection strings.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      LogConfig      `yaml:"log"`
	Sifu     SifuConfig     `yaml:"sifu"`
}

// ServerConfig contains the HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Address returns the host:port listen address.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig contains the database connection settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// JWTConfig contains token signing material for the two auth surfaces.
type JWTConfig struct {
	Secret      string `yaml:"secret"`
	AdminSecret string `yaml:"admin_secret"`
	ExpiryHours int    `yaml:"expiry_hours"`
}

// LogConfig contains logging output and rotation settings.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// SifuConfig contains the question-answering subsystem settings.
type SifuConfig struct {
	EngineURL            string `yaml:"engine_url"`
	EngineTimeoutSeconds int    `yaml:"engine_timeout_seconds"`
	EngineMaxRetries     int    `yaml:"engine_max_retries"`
	SweepIntervalMinutes int    `yaml:"sweep_interval_minutes"`
}

// Load reads the YAML file at path, applies environment overrides, and
// validates the result. A missing file is not an error when the required
// values are all supplied through the environment.
func Load(path string) (*Config, error) {
	var cfg Config

	data, errRead := os.ReadFile(path)
	switch {
	case errRead == nil:
		if errParse := yaml.Unmarshal(data, &cfg); errParse != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, errParse)
		}
	case errors.Is(errRead, os.ErrNotExist):
		// fall through to env-only configuration
	default:
		return nil, fmt.Errorf("read config %s: %w", path, errRead)
	}

	applyEnvOverrides(&cfg)
	cfg.applyDefaults()

	if errValidate := cfg.validate(); errValidate != nil {
		return nil, errValidate
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("DATABASE_DSN")); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("JWT_SECRET")); v != "" {
		cfg.JWT.Secret = v
	}
	if v := strings.TrimSpace(os.Getenv("JWT_ADMIN_SECRET")); v != "" {
		cfg.JWT.AdminSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("SIFU_ENGINE_URL")); v != "" {
		cfg.Sifu.EngineURL = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8317
	}
	if c.JWT.ExpiryHours <= 0 {
		c.JWT.ExpiryHours = 24
	}
	if c.JWT.AdminSecret == "" {
		c.JWT.AdminSecret = c.JWT.Secret
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Sifu.EngineTimeoutSeconds <= 0 {
		c.Sifu.EngineTimeoutSeconds = 30
	}
	if c.Sifu.EngineMaxRetries <= 0 {
		c.Sifu.EngineMaxRetries = 2
	}
	if c.Sifu.SweepIntervalMinutes <= 0 {
		c.Sifu.SweepIntervalMinutes = 60
	}
}

func (c *Config) validate() error {
	if c.Database.DSN == "" {
		return errors.New("config: database.dsn is required (or set DATABASE_DSN)")
	}
	if c.JWT.Secret == "" {
		return errors.New("config: jwt.secret is required (or set JWT_SECRET)")
	}
	if c.Sifu.EngineURL == "" {
		return errors.New("config: sifu.engine_url is required (or set SIFU_ENGINE_URL)")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server.port %d", c.Server.Port)
	}
	return nil
}
