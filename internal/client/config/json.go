package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/moodiary/internal/flagx"
	"github.com/dmitrijs2005/moodiary/internal/timex"
)

// JSONConfig is a DTO used exclusively for JSON unmarshalling. Intervals are
// timex.Duration so they may be strings like "30s" or integer nanoseconds.
// Fields left out of the file keep their previous values.
type JSONConfig struct {
	APIBaseURL         string          `json:"api_base_url"`
	LoginRoute         string          `json:"login_route"`
	RequestTimeout     *timex.Duration `json:"request_timeout"`
	TokenCheckInterval *timex.Duration `json:"token_check_interval"`
	StorageDriver      string          `json:"storage_driver"`
	StorageDSN         string          `json:"storage_dsn"`
	RedisAddr          string          `json:"redis_addr"`
	RedisPassword      string          `json:"redis_password"`
	RedisDB            *int            `json:"redis_db"`
	LogLevel           string          `json:"log_level"`
	LogFormat          string          `json:"log_format"`
}

// parseJSON overlays cfg with the file named by -c or -config, if any.
func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("failed to parse config file %q: %w", path, err)
	}

	jc.apply(cfg)
	return nil
}

func (jc *JSONConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.LoginRoute, jc.LoginRoute)
	setString(&cfg.StorageDriver, jc.StorageDriver)
	setString(&cfg.StorageDSN, jc.StorageDSN)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisPassword, jc.RedisPassword)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)

	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.TokenCheckInterval != nil {
		cfg.TokenCheckInterval = jc.TokenCheckInterval.Duration
	}
	if jc.RedisDB != nil {
		cfg.RedisDB = *jc.RedisDB
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
