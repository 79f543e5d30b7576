package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config holds runtime settings for the Moodiary CLI.
type Config struct {
	APIBaseURL         string        `env:"MOODIARY_API_URL"`
	LoginRoute         string        `env:"MOODIARY_LOGIN_ROUTE"`
	RequestTimeout     time.Duration `env:"MOODIARY_REQUEST_TIMEOUT"`
	TokenCheckInterval time.Duration `env:"MOODIARY_TOKEN_CHECK_INTERVAL"`

	// StorageDriver selects the persistent scope: a local SQLite file at
	// StorageDSN or a Redis hash.
	StorageDriver string `env:"MOODIARY_STORAGE_DRIVER"`
	StorageDSN    string `env:"MOODIARY_STORAGE_DSN"`
	RedisAddr     string `env:"MOODIARY_REDIS_ADDR"`
	RedisPassword string `env:"MOODIARY_REDIS_PASSWORD"`
	RedisDB       int    `env:"MOODIARY_REDIS_DB"`

	LogLevel  string `env:"MOODIARY_LOG_LEVEL"`
	LogFormat string `env:"MOODIARY_LOG_FORMAT"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000"
	c.LoginRoute = "/auth"
	c.RequestTimeout = 15 * time.Second
	c.TokenCheckInterval = 30 * time.Second
	c.StorageDriver = DriverSQLite
	c.StorageDSN = "moodiary.db"
	c.RedisAddr = "127.0.0.1:6379"
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// Validate checks the combination of settings.
func (c *Config) Validate() error {
	var errs []error

	if c.APIBaseURL == "" {
		errs = append(errs, errors.New("api url is empty"))
	}
	if !strings.HasPrefix(c.LoginRoute, "/") {
		errs = append(errs, fmt.Errorf("login route %q must start with /", c.LoginRoute))
	}
	if c.RequestTimeout < 0 || c.TokenCheckInterval < 0 {
		errs = append(errs, errors.New("intervals must not be negative"))
	}

	switch c.StorageDriver {
	case DriverSQLite:
		if c.StorageDSN == "" {
			errs = append(errs, errors.New("sqlite storage needs a dsn"))
		}
	case DriverRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("redis storage needs an address"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.StorageDriver))
	}

	return errors.Join(errs...)
}

// LoadConfig builds a Config from defaults, then a dotenv file and the
// environment, then an optional JSON file, then command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg, args); err != nil {
		return nil, err
	}
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
