package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/retrorevive/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-d string   database file (":memory:" for a throwaway store)
//	-s int      stage delay in milliseconds (negative values are rejected)
//	-w int      auth delay in milliseconds
//	-l string   log level: debug, info, warn, error
//
// Only these flags are read from args; the rest are left to other parsers.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-d", "-s", "-w", "-l"})

	fs := flag.NewFlagSet("retrorevive", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "database file")
	stage := fs.Int64("s", cfg.StageDelay.Milliseconds(), "stage delay (ms)")
	auth := fs.Int64("w", cfg.AuthDelay.Milliseconds(), "auth delay (ms)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Only overwrite durations that were given so sub-millisecond values from
	// JSON survive.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "s":
			cfg.StageDelay = time.Duration(*stage) * time.Millisecond
		case "w":
			cfg.AuthDelay = time.Duration(*auth) * time.Millisecond
		}
	})
	return nil
}
