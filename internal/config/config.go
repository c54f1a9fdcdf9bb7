// Package config loads the bot configuration. Values come from built-in
// defaults, then an optional TOML or YAML file named by CONFIG_FILE, then the
// environment (including a .env file), each layer overriding the previous one.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// EnvDevelopment turns on development mode when set as APP_ENV or NODE_ENV
const EnvDevelopment = "development"

// DiscordConfig contains bot connection settings
type DiscordConfig struct {
	Token   string `yaml:"token" toml:"token" env:"DISCORD_TOKEN"`
	Prefix  string `yaml:"prefix" toml:"prefix" env:"BOT_PREFIX"`
	OwnerID string `yaml:"owner_id" toml:"owner_id" env:"OWNER_ID"`
}

// MinehutConfig contains API client settings
type MinehutConfig struct {
	APIURL  string        `yaml:"api_url" toml:"api_url" env:"MINEHUT_API_URL"`
	Timeout time.Duration `yaml:"timeout" toml:"timeout" env:"MINEHUT_TIMEOUT"`
}

// EmojiConfig contains the emoji used in status messages
type EmojiConfig struct {
	Loading string `yaml:"loading" toml:"loading" env:"EMOJI_LOADING"`
	Cross   string `yaml:"cross" toml:"cross" env:"EMOJI_CROSS"`
}

// LoggerConfig contains logging configuration
type LoggerConfig struct {
	Level string `yaml:"level" toml:"level" env:"LOG_LEVEL"`
	File  string `yaml:"file" toml:"file" env:"LOG_FILE"`
}

// DatabaseConfig contains log persistence settings
type DatabaseConfig struct {
	URL           string        `yaml:"url" toml:"url" env:"DATABASE_URL"`
	Retention     time.Duration `yaml:"retention" toml:"retention" env:"LOG_RETENTION"`
	PruneSchedule string        `yaml:"prune_schedule" toml:"prune_schedule" env:"LOG_PRUNE_SCHEDULE"`
}

// Config represents the complete configuration structure for YAML/TOML files
type Config struct {
	Environment   string         `yaml:"environment" toml:"environment"`
	Discord       DiscordConfig  `yaml:"discord" toml:"discord"`
	Minehut       MinehutConfig  `yaml:"minehut" toml:"minehut"`
	Emoji         EmojiConfig    `yaml:"emoji" toml:"emoji"`
	Logger        LoggerConfig   `yaml:"logger" toml:"logger"`
	Database      DatabaseConfig `yaml:"database" toml:"database"`
	HealthAddr    string         `yaml:"health_addr" toml:"health_addr"`
	SentryDSN     string         `yaml:"sentry_dsn" toml:"sentry_dsn"`
	PromptTimeout time.Duration  `yaml:"prompt_timeout" toml:"prompt_timeout"`
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	return &Config{
		Environment: "production",
		Discord: DiscordConfig{
			Prefix: "!",
		},
		Minehut: MinehutConfig{
			APIURL:  "https://api.minehut.com",
			Timeout: 10 * time.Second,
		},
		Emoji: EmojiConfig{
			Loading: "⏳",
			Cross:   "❌",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Database: DatabaseConfig{
			Retention:     30 * 24 * time.Hour,
			PruneSchedule: "@daily",
		},
		HealthAddr:    ":8080",
		PromptTimeout: 30 * time.Second,
	}
}

// Load reads .env, the optional config file and the environment, then validates
// the result
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile merges a TOML or YAML file into the configuration, picked by extension
func (c *Config) LoadFile(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, c); err != nil {
			return fmt.Errorf("failed to parse TOML config: %w", err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read YAML config: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config file extension %q", filepath.Ext(path))
	}
	return nil
}

// ApplyEnv overrides the configuration with every variable that is set
func (c *Config) ApplyEnv() error {
	var errs error

	if env := firstEnv("APP_ENV", "NODE_ENV"); env != "" {
		c.Environment = env
	}

	setString(&c.Discord.Token, "DISCORD_TOKEN")
	setString(&c.Discord.Prefix, "BOT_PREFIX")
	setString(&c.Discord.OwnerID, "OWNER_ID")
	setString(&c.Minehut.APIURL, "MINEHUT_API_URL")
	setString(&c.Emoji.Loading, "EMOJI_LOADING")
	setString(&c.Emoji.Cross, "EMOJI_CROSS")
	setString(&c.Logger.Level, "LOG_LEVEL")
	setString(&c.Logger.File, "LOG_FILE")
	setString(&c.Database.URL, "DATABASE_URL")
	setString(&c.Database.PruneSchedule, "LOG_PRUNE_SCHEDULE")
	setString(&c.HealthAddr, "HEALTH_ADDR")
	setString(&c.SentryDSN, "SENTRY_DSN")

	errs = multierr.Append(errs, setDuration(&c.Minehut.Timeout, "MINEHUT_TIMEOUT"))
	errs = multierr.Append(errs, setDuration(&c.Database.Retention, "LOG_RETENTION"))
	errs = multierr.Append(errs, setDuration(&c.PromptTimeout, "PROMPT_TIMEOUT"))

	return errs
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs error

	if c.Discord.Token == "" {
		errs = multierr.Append(errs, fmt.Errorf("DISCORD_TOKEN is required"))
	}
	if strings.TrimSpace(c.Discord.Prefix) == "" {
		errs = multierr.Append(errs, fmt.Errorf("BOT_PREFIX must not be empty"))
	}

	if u, err := url.Parse(c.Minehut.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = multierr.Append(errs, fmt.Errorf("MINEHUT_API_URL must be an http(s) URL, got %q", c.Minehut.APIURL))
	}
	if c.Minehut.Timeout <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("MINEHUT_TIMEOUT must be positive"))
	}
	if c.PromptTimeout <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("PROMPT_TIMEOUT must be positive"))
	}

	if !isValidLogLevel(c.Logger.Level) {
		errs = multierr.Append(errs, fmt.Errorf("invalid log level: %s", c.Logger.Level))
	}

	if c.Database.URL != "" {
		if c.Database.Retention <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("LOG_RETENTION must be positive"))
		}
		if _, err := cron.ParseStandard(c.Database.PruneSchedule); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("invalid LOG_PRUNE_SCHEDULE %q: %w", c.Database.PruneSchedule, err))
		}
	}

	return errs
}

// Development reports whether the bot runs in development mode
func (c *Config) Development() bool {
	return strings.EqualFold(c.Environment, EnvDevelopment)
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := os.Getenv(key); value != "" {
			return value
		}
	}
	return ""
}

func setString(dst *string, key string) {
	if value := os.Getenv(key); value != "" {
		*dst = value
	}
}

func setDuration(dst *time.Duration, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	*dst = d
	return nil
}

func isValidLogLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
