package config

import (
	"fmt"
	"time"
)

// Config holds runtime settings for the retrorevive client.
//
// StageDelay is the wait after each simulated restoration stage; AuthDelay is
// the simulated latency of login and signup. Both may be zero.
type Config struct {
	DBPath     string
	StageDelay time.Duration
	AuthDelay  time.Duration
	LogLevel   string
}

// LoadDefaults populates c with defaults.
func (c *Config) LoadDefaults() {
	c.DBPath = "retrorevive.db"
	c.StageDelay = 1500 * time.Millisecond
	c.AuthDelay = time.Second
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the JSON file named by -c/-config (if
// any), then flags. args excludes the program name. Later sources win.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("config: empty database path")
	}
	if c.StageDelay < 0 {
		return fmt.Errorf("config: negative stage delay %s", c.StageDelay)
	}
	if c.AuthDelay < 0 {
		return fmt.Errorf("config: negative auth delay %s", c.AuthDelay)
	}
	return nil
}
