// Package config loads runtime configuration for the retrorevive client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-d string   database file
//	-s int      restoration stage delay (milliseconds)
//	-w int      login/signup delay (milliseconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so they may be strings like "1.5s" or
// integer nanoseconds:
//
//	{
//	  "db_path": "/home/me/.retrorevive/retrorevive.db",
//	  "stage_delay": "1.5s",
//	  "auth_delay": "800ms",
//	  "log_level": "debug"
//	}
package config
