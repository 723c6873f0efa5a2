package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adhocore/gronx"
	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config root configuration
type Config struct {
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Session   SessionConfig   `mapstructure:"session"`
	Reminder  ReminderConfig  `mapstructure:"reminder"`
	Gateway   GatewayConfig   `mapstructure:"gateway"`
	Log       LogConfig       `mapstructure:"log"`
	Directory []DirectoryUser `mapstructure:"directory"`
}

// TelegramConfig telegram bot settings
type TelegramConfig struct {
	Token     string   `mapstructure:"token"`
	AllowFrom []string `mapstructure:"allow_from"`
}

// StorageConfig sqlite store settings
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// SessionConfig conversation session lifecycle settings
type SessionConfig struct {
	TTLMinutes   int `mapstructure:"ttl_minutes"`
	SweepMinutes int `mapstructure:"sweep_minutes"`
}

// ReminderConfig daily reminder job settings
type ReminderConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Cron    string `mapstructure:"cron"` // 5-field cron expression
}

// GatewayConfig ops HTTP server settings
type GatewayConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Token   string `mapstructure:"token"`
}

// LogConfig application logging settings
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// DirectoryUser is a seed entry for the principal directory.
type DirectoryUser struct {
	ID   string `mapstructure:"id"`
	Name string `mapstructure:"name"`
	Role string `mapstructure:"role"` // employee | team_leader | hr
}

// DefaultConfig returns config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			AllowFrom: []string{},
		},
		Storage: StorageConfig{
			Path: filepath.Join(ConfigDir(), "leavebot.db"),
		},
		Session: SessionConfig{
			TTLMinutes:   30,
			SweepMinutes: 5,
		},
		Reminder: ReminderConfig{
			Enabled: true,
			Cron:    "0 9 * * *",
		},
		Gateway: GatewayConfig{
			Enabled: false,
			Host:    "0.0.0.0",
			Port:    18890,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConfigDir returns the leavebot config directory
func ConfigDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".leavebot")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// Load loads config from file or returns defaults.
// A local .env file, when present, is read first so LEAVEBOT_*
// variables can live next to the binary instead of the shell profile.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	configPath := ConfigPath()
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := Save(cfg); err != nil {
			return cfg, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")
	v.SetEnvPrefix("LEAVEBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return cfg, err
	}

	if err := v.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.MatchName = func(mapKey, fieldName string) bool {
			return normalizeKey(mapKey) == normalizeKey(fieldName)
		}
	}); err != nil {
		return cfg, err
	}

	if token := os.Getenv("LEAVEBOT_TELEGRAM_TOKEN"); token != "" {
		cfg.Telegram.Token = token
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func normalizeKey(input string) string {
	input = strings.ReplaceAll(input, "_", "")
	input = strings.ReplaceAll(input, "-", "")
	return strings.ToLower(input)
}

// Save saves config to file
func Save(cfg *Config) error {
	configPath := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0600)
}

// Validate checks that the configuration values are within acceptable ranges.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Storage.Path) == "" {
		return fmt.Errorf("storage.path must not be empty")
	}

	if c.Session.TTLMinutes < 0 {
		return fmt.Errorf("session.ttl_minutes must not be negative, got %d", c.Session.TTLMinutes)
	}
	if c.Session.TTLMinutes == 0 {
		c.Session.TTLMinutes = 30
	}
	if c.Session.SweepMinutes <= 0 {
		c.Session.SweepMinutes = 5
	}

	expr := strings.TrimSpace(c.Reminder.Cron)
	if expr == "" {
		c.Reminder.Cron = "0 9 * * *"
	} else if !gronx.New().IsValid(expr) {
		return fmt.Errorf("reminder.cron is not a valid cron expression: %q", expr)
	}

	if c.Gateway.Port <= 0 || c.Gateway.Port > 65535 {
		return fmt.Errorf("gateway.port must be between 1 and 65535, got %d", c.Gateway.Port)
	}

	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	if level == "" {
		c.Log.Level = "info"
	} else {
		validLevels := map[string]bool{
			"debug": true,
			"info":  true,
			"warn":  true,
			"error": true,
		}
		if !validLevels[level] {
			return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
		}
		c.Log.Level = level
	}

	validRoles := map[string]bool{"employee": true, "team_leader": true, "hr": true}
	for i, u := range c.Directory {
		if strings.TrimSpace(u.ID) == "" {
			return fmt.Errorf("directory[%d].id must not be empty", i)
		}
		if !validRoles[u.Role] {
			return fmt.Errorf("directory[%d].role must be one of employee, team_leader, hr; got %q", i, u.Role)
		}
	}

	return nil
}
