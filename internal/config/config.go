package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"
)

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"

	DefaultHTTPAddr             = ":8080"
	DefaultRequestTimeout       = 15 * time.Second
	DefaultNotificationTimeout  = 10 * time.Second
	DefaultSeriesMaxOccurrences = 52
	envDatabaseURL              = "VOLUNTEER_DATABASE_URL"
	envMongoURI                 = "VOLUNTEER_MONGO_URI"
)

// EmailConfig controls delivery of notifications by Gmail
type EmailConfig struct {
	Enabled         bool   `yaml:"enabled"`
	GmailUserID     string `yaml:"gmailUserID,omitempty" validate:"required_if=Enabled true"`
	GmailSender     string `yaml:"gmailSender,omitempty" validate:"omitempty,email"`
	OAuthClientFile string `yaml:"oauthClientFile,omitempty"`
	LinkBaseURL     string `yaml:"linkBaseURL,omitempty" validate:"omitempty,url"`
}

// NotificationsConfig selects the notification sinks
type NotificationsConfig struct {
	StoreEnabled *bool         `yaml:"storeEnabled,omitempty"`
	Email        EmailConfig   `yaml:"email"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
}

// StoreSinkEnabled reports whether notifications are kept at rest. Defaults to true.
func (n NotificationsConfig) StoreSinkEnabled() bool {
	return n.StoreEnabled == nil || *n.StoreEnabled
}

// HistoryConfig points the history recorder at MongoDB. With no URI,
// history goes to the structured log.
type HistoryConfig struct {
	MongoURI   string `yaml:"mongoURI,omitempty"`
	Database   string `yaml:"database,omitempty"`
	Collection string `yaml:"collection,omitempty"`
}

// SeriesDefaults applies to CreateEventSeries when the caller leaves fields empty
type SeriesDefaults struct {
	MaxOccurrences int    `yaml:"maxOccurrences,omitempty" validate:"omitempty,min=1"`
	RRule          string `yaml:"rrule,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Storage        string              `yaml:"storage" validate:"required,oneof=postgres memory"`
	DatabaseURL    string              `yaml:"databaseURL,omitempty" validate:"required_if=Storage postgres"`
	HTTPAddr       string              `yaml:"httpAddr,omitempty"`
	RequestTimeout time.Duration       `yaml:"requestTimeout,omitempty"`
	Notifications  NotificationsConfig `yaml:"notifications"`
	History        HistoryConfig       `yaml:"history"`
	SeriesDefaults SeriesDefaults      `yaml:"seriesDefaults"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration for env. It looks for
// volunteer_config.<env>.yaml (or volunteer_config.yaml when env is empty)
// in the current directory first, then in the user's home directory.
func Load(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(&cfg)
	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.SeriesDefaults.RRule != "" {
		if _, err := rrule.StrToRRule(cfg.SeriesDefaults.RRule); err != nil {
			return fmt.Errorf("invalid rrule in seriesDefaults: %w", err)
		}
	}

	return nil
}

// applyEnv lets secrets come from the environment instead of the file
func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(envDatabaseURL)); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(envMongoURI)); v != "" {
		cfg.History.MongoURI = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Storage == "" {
		if cfg.DatabaseURL != "" {
			cfg.Storage = StoragePostgres
		} else {
			cfg.Storage = StorageMemory
		}
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = DefaultHTTPAddr
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Notifications.Timeout <= 0 {
		cfg.Notifications.Timeout = DefaultNotificationTimeout
	}
	if cfg.SeriesDefaults.MaxOccurrences == 0 {
		cfg.SeriesDefaults.MaxOccurrences = DefaultSeriesMaxOccurrences
	}
}

// findConfigFile looks for volunteer_config[.<env>].yaml
func findConfigFile(env string) (string, error) {
	return findFile(envFileName("volunteer_config", env, "yaml"))
}

// envFileName builds base.ext, or base.<env>.ext when env is set
func envFileName(base, env, ext string) string {
	if env == "" {
		return base + "." + ext
	}
	return base + "." + env + "." + ext
}

// findFile searches for name in the current directory, then the home directory
func findFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
