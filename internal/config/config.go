// Package config provides configuration management for the simulation server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Market MarketConfig `mapstructure:"market"`
	UI     UIConfig     `mapstructure:"ui"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// MarketConfig holds simulation market configuration.
type MarketConfig struct {
	ClockStart   string  `mapstructure:"clock_start"`   // simulated clock origin, YYYY-MM-DD
	StartingCash float64 `mapstructure:"starting_cash"` // cash for new accounts
	DataDir      string  `mapstructure:"data_dir"`      // SQLite database directory
}

// UIConfig holds UI-related configuration.
type UIConfig struct {
	ColorEnabled bool   `mapstructure:"color_enabled"`
	DateFormat   string `mapstructure:"date_format"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/stockfake"
	}
	return filepath.Join(home, ".config", "stockfake")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := &Config{}

	if err := loadConfigFile(configDir, "config", cfg); err != nil {
		return nil, fmt.Errorf("loading config.toml: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	if cfg.Market.DataDir == "" {
		cfg.Market.DataDir = configDir
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadConfigFile(configDir, name string, target interface{}) error {
	v := viper.New()
	v.SetConfigName(name)
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	// Set defaults
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("market.clock_start", "2000-01-03")
	v.SetDefault("market.starting_cash", 100000.0)
	v.SetDefault("market.data_dir", configDir)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "02-Jan-2006")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, create template
			return createTemplateConfig(configDir, name)
		}
		return err
	}

	return v.Unmarshal(target)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STOCKFAKE_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("STOCKFAKE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("STOCKFAKE_CLOCK_START"); v != "" {
		cfg.Market.ClockStart = v
	}
	if v := os.Getenv("STOCKFAKE_DATA_DIR"); v != "" {
		cfg.Market.DataDir = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}

	if _, err := time.Parse("2006-01-02", c.Market.ClockStart); err != nil {
		return fmt.Errorf("invalid clock_start %q (must be YYYY-MM-DD): %w", c.Market.ClockStart, err)
	}

	if c.Market.StartingCash < 0 {
		return fmt.Errorf("starting_cash must be non-negative")
	}

	return nil
}

// ClockStartTime returns the parsed simulated clock origin.
func (c *Config) ClockStartTime() time.Time {
	t, err := time.Parse("2006-01-02", c.Market.ClockStart)
	if err != nil {
		// Validate rejects unparseable values; fall back to the default origin.
		return time.Date(2000, time.January, 3, 0, 0, 0, 0, time.UTC)
	}
	return t
}

// DatabasePath returns the SQLite database file path.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Market.DataDir, "stockfake.db")
}
