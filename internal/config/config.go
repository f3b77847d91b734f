package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/rpggio/streaks/internal/calendar"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server" toml:"server"`
	Transport  TransportConfig  `yaml:"transport" toml:"transport"`
	Auth       AuthConfig       `yaml:"auth" toml:"auth"`
	DB         DBConfig         `yaml:"db" toml:"db"`
	Log        LogConfig        `yaml:"log" toml:"log"`
	Calendar   CalendarConfig   `yaml:"calendar" toml:"calendar"`
	Analytics  AnalyticsConfig  `yaml:"analytics" toml:"analytics"`
	Categories CategoriesConfig `yaml:"categories" toml:"categories"`
}

type ServerConfig struct {
	Host string `yaml:"host" toml:"host"`
	Port int    `yaml:"port" toml:"port" validate:"min=1,max=65535"`
}

type TransportConfig struct {
	Mode string `yaml:"mode" toml:"mode" validate:"oneof=stdio http"`
}

type AuthConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled"`
}

type DBConfig struct {
	Path string `yaml:"path" toml:"path" validate:"required"`
}

type LogConfig struct {
	Level      string `yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	Path       string `yaml:"path" toml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb" validate:"min=1"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups" validate:"min=0"`
}

type CalendarConfig struct {
	// Timezone is an IANA name; empty uses the system zone.
	Timezone string `yaml:"timezone" toml:"timezone"`
}

type AnalyticsConfig struct {
	// AMQPURL enables publishing events to RabbitMQ when set.
	AMQPURL  string `yaml:"amqp_url" toml:"amqp_url" validate:"omitempty,url"`
	Exchange string `yaml:"exchange" toml:"exchange"`
}

type CategoriesConfig struct {
	DefaultTitle string `yaml:"default_title" toml:"default_title" validate:"required,max=64"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{
			Mode: "stdio",
		},
		DB: DBConfig{
			Path: "streaks.db",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
		Analytics: AnalyticsConfig{
			Exchange: "streaks.analytics",
		},
		Categories: CategoriesConfig{
			DefaultTitle: "My trackers",
		},
	}
}

// Load reads configuration from an optional YAML or TOML file and
// environment variables, then validates it.
func Load() (Config, error) {
	return LoadFile(os.Getenv("STREAKS_CONFIG_PATH"))
}

// LoadFile is Load with an explicit config file path. Empty skips the file.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints and the timezone name.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := calendar.LoadLocation(c.Calendar.Timezone); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Location returns the configured timezone.
func (c Config) Location() *time.Location {
	loc, err := calendar.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("STREAKS_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("STREAKS_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid STREAKS_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if mode := os.Getenv("STREAKS_TRANSPORT_MODE"); mode != "" {
		cfg.Transport.Mode = strings.ToLower(mode)
	}
	if enabled := os.Getenv("STREAKS_AUTH_ENABLED"); enabled != "" {
		v, err := strconv.ParseBool(enabled)
		if err != nil {
			return fmt.Errorf("invalid STREAKS_AUTH_ENABLED: %w", err)
		}
		cfg.Auth.Enabled = v
	}
	if dbPath := os.Getenv("STREAKS_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("STREAKS_LOG_LEVEL"); level != "" {
		cfg.Log.Level = strings.ToLower(level)
	}
	if logPath := os.Getenv("STREAKS_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if tz := os.Getenv("STREAKS_TIMEZONE"); tz != "" {
		cfg.Calendar.Timezone = tz
	}
	if url := os.Getenv("STREAKS_ANALYTICS_AMQP_URL"); url != "" {
		cfg.Analytics.AMQPURL = url
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config file: %w", err)
		}
	}
	return nil
}
