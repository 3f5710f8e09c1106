package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Absent
// fields leave the current Config values untouched.
type jsonConfig struct {
	DBPath string `json:"db_path"`
}

func applyJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if jc.DBPath != "" {
		cfg.DBPath = jc.DBPath
	}
	return nil
}
