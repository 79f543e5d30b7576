// Package config loads runtime configuration for the Moodiary CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A dotenv file, ./.env or the one named by -env-file.
//  3. MOODIARY_* environment variables.
//  4. Optional JSON file selected via -c or -config.
//  5. Command-line flags.
//
// Supported flags
//
//	-a string   base URL of the diary API
//	-i int      token check interval (seconds)
//	-s string   storage DSN
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://127.0.0.1:8000",
//	  "login_route": "/auth",
//	  "request_timeout": "15s",
//	  "token_check_interval": "30s",
//	  "storage_driver": "sqlite",
//	  "storage_dsn": "moodiary.db",
//	  "redis_addr": "127.0.0.1:6379",
//	  "redis_db": 0,
//	  "log_level": "warn",
//	  "log_format": "text"
//	}
package config
