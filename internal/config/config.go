// Package config holds runtime settings for captlog and loads them in the
// order defaults -> JSON file -> command-line flags, later sources taking
// precedence.
package config

import (
	"os"
	"path/filepath"
)

// Config holds runtime settings for captlog.
//
// Fields:
//   - DBPath: location of the encrypted store database file.
type Config struct {
	DBPath string
}

// LoadDefaults populates c with the per-user store location,
// ~/.captlog/captlog.db.
func (c *Config) LoadDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	c.DBPath = filepath.Join(home, ".captlog", "captlog.db")
}

// LoadConfig constructs a Config from defaults, an optional JSON file
// (-c path) and command-line flags (-d database path). It panics on
// malformed flags or JSON; there is no sane way to continue without a
// usable configuration.
func LoadConfig() *Config {
	cfg, err := load(os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	fv, err := parseFlags(args)
	if err != nil {
		return nil, err
	}

	if fv.configPath != "" {
		if err := applyJSON(cfg, fv.configPath); err != nil {
			return nil, err
		}
	}

	// flags win over the JSON file
	if fv.dbPath != "" {
		cfg.DBPath = fv.dbPath
	}

	return cfg, nil
}
