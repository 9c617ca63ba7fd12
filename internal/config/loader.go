// Package config loads agent configuration from an optional YAML file and the
// process environment. Environment variables win over file values.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/example/hotel-staff-agent/internal/role"
)

// FileEnvVar names the environment variable pointing at the YAML config file.
const FileEnvVar = "HOTEL_CONFIG_FILE"

// Config captures the runtime settings of the staff agent.
type Config struct {
	BaseURL      string        `env:"HOTEL_BASE_URL" yaml:"base_url"`
	StatePath    string        `env:"HOTEL_STATE_PATH" yaml:"state_path"`
	Role         string        `env:"HOTEL_ROLE" yaml:"role"`
	DisplayName  string        `env:"HOTEL_DISPLAY_NAME" yaml:"display_name"`
	PollInterval time.Duration `env:"HOTEL_POLL_INTERVAL" yaml:"poll_interval"`
	LogLevel     string        `env:"HOTEL_LOG_LEVEL" yaml:"log_level"`
}

// StaffRole parses the configured role, including its historical aliases.
func (c Config) StaffRole() (role.Role, error) {
	return role.Parse(c.Role)
}

// Load builds the effective configuration. Precedence, lowest to highest:
// built-in defaults, the YAML file named by HOTEL_CONFIG_FILE, then
// environment variables.
func Load() (Config, error) {
	cfg := Config{
		BaseURL:      "http://localhost:8080",
		StatePath:    "hotel-agent.db",
		PollInterval: 30 * time.Second,
		LogLevel:     "info",
	}

	if path := strings.TrimSpace(os.Getenv(FileEnvVar)); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.Role) == "" {
		return fmt.Errorf("missing required setting: role (HOTEL_ROLE)")
	}
	if _, err := role.Parse(c.Role); err != nil {
		return fmt.Errorf("invalid role %q: %w", c.Role, err)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("base URL must not be empty")
	}
	return nil
}
