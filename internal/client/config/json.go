package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/retrorevive/internal/flagx"
	"github.com/dmitrijs2005/retrorevive/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept "1.5s" or
// integer nanoseconds. Absent fields keep their earlier value.
type JsonConfig struct {
	DBPath     *string         `json:"db_path"`
	StageDelay *timex.Duration `json:"stage_delay"`
	AuthDelay  *timex.Duration `json:"auth_delay"`
	LogLevel   *string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c or -config in args.
// Without such a flag it does nothing.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.DBPath != nil {
		cfg.DBPath = *jc.DBPath
	}
	if jc.StageDelay != nil {
		cfg.StageDelay = jc.StageDelay.Duration
	}
	if jc.AuthDelay != nil {
		cfg.AuthDelay = jc.AuthDelay.Duration
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	return nil
}
