package main

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	storeMemory   = "memory"
	storeDynamoDB = "dynamodb"
)

type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Log     LogConfig     `mapstructure:"log"`
	Server  ServerConfig  `mapstructure:"server"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	// Output is stdout, stderr or a file path. Empty means the default
	// log file for the console and stderr for the server.
	Output string `mapstructure:"output"`
}

type ServerConfig struct {
	Addr    string `mapstructure:"addr"`
	Store   string `mapstructure:"store"`
	Table   string `mapstructure:"table"`
	Region  string `mapstructure:"region"`
	MaxBulk int    `mapstructure:"max_bulk"`
	Seed    int    `mapstructure:"seed"`
}

var configDefaults = map[string]any{
	"base_url":        "http://localhost:5000",
	"timeout":         "10s",
	"log.level":       "info",
	"log.format":      "text",
	"log.output":      "",
	"server.addr":     ":5000",
	"server.store":    storeMemory,
	"server.table":    "",
	"server.region":   "us-east-1",
	"server.max_bulk": 200,
	"server.seed":     0,
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	// Use ~/.config/datatui following XDG standard roughly
	return filepath.Join(home, ".config", "datatui"), nil
}

// LoadConfig resolves configuration from defaults, the config file, DATATUI_*
// environment variables and any flags already bound to v, in increasing
// priority. An explicit path must exist; the default file is optional.
func LoadConfig(v *viper.Viper, path string) (*Config, error) {
	for k, val := range configDefaults {
		v.SetDefault(k, val)
	}
	v.SetEnvPrefix("DATATUI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		if dir, err := getConfigDir(); err == nil {
			candidate := filepath.Join(dir, "config.yaml")
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// Validate checks the settings the console needs.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

// ValidateServer checks the settings of the reference backend.
func (c *Config) ValidateServer() error {
	s := c.Server
	if s.Addr == "" {
		return errors.New("server.addr is required")
	}
	if s.MaxBulk <= 0 {
		return errors.New("server.max_bulk must be positive")
	}
	if s.Seed < 0 {
		return errors.New("server.seed cannot be negative")
	}
	switch s.Store {
	case storeMemory:
	case storeDynamoDB:
		if s.Table == "" {
			return errors.New("server.table is required for the dynamodb store")
		}
	default:
		return fmt.Errorf("unknown server.store %q", s.Store)
	}
	return nil
}

// consoleLogFile is where the console logs when no output is configured;
// the terminal itself belongs to the UI.
func consoleLogFile() (string, error) {
	dir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "datatui.log"), nil
}
