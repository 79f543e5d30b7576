package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/moodiary/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the diary API
//	-i int      token check interval in seconds
//	-s string   storage DSN (SQLite file path)
//	-l string   log level
//
// Only these flags are looked at; the rest of args belongs to other parsers.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-s", "-l"})

	fs := flag.NewFlagSet("moodiary", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the diary API")
	interval := fs.Int("i", int(cfg.TokenCheckInterval.Seconds()), "token check interval (in seconds)")
	fs.StringVar(&cfg.StorageDSN, "s", cfg.StorageDSN, "storage DSN")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.TokenCheckInterval = time.Duration(*interval) * time.Second
	return nil
}
