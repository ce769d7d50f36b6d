// Package config loads application configuration from a YAML file with
// environment-variable overrides and baked defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds everything the binaries need to run.
type Config struct {
	// MasterData is the path to the reference-data YAML document.
	MasterData string `yaml:"master_data"`

	Save struct {
		// Backend is "file" or "sqlite".
		Backend    string `yaml:"backend"`
		FilePath   string `yaml:"file_path"`
		SQLitePath string `yaml:"sqlite_path"`
		// AutosaveCron schedules the daemon's autosave. Empty disables it.
		AutosaveCron string `yaml:"autosave_cron"`
	} `yaml:"save"`

	API struct {
		Port     int    `yaml:"port"`
		AdminKey string `yaml:"admin_key"`
	} `yaml:"api"`

	NewGame struct {
		PlayerID   int `yaml:"player_id"`
		WifeTypeID int `yaml:"wife_type_id"`
		HouseID    int `yaml:"house_id"`
	} `yaml:"new_game"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides, then defaults. A missing file is not an error; the defaults
// stand alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("AMBITION_MASTER_DATA"); v != "" {
		cfg.MasterData = v
	}
	if v := os.Getenv("AMBITION_SAVE_BACKEND"); v != "" {
		cfg.Save.Backend = v
	}
	if v := os.Getenv("AMBITION_SAVE_FILE"); v != "" {
		cfg.Save.FilePath = v
	}
	if v := os.Getenv("AMBITION_SQLITE_PATH"); v != "" {
		cfg.Save.SQLitePath = v
	}
	if v := os.Getenv("AMBITION_AUTOSAVE_CRON"); v != "" {
		cfg.Save.AutosaveCron = v
	}
	if v := os.Getenv("AMBITION_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.API.Port = port
		}
	}
	if v := os.Getenv("AMBITION_ADMIN_KEY"); v != "" {
		cfg.API.AdminKey = v
	}

	// Defaults
	if cfg.MasterData == "" {
		cfg.MasterData = "data/masterdata.yaml"
	}
	if cfg.Save.Backend == "" {
		cfg.Save.Backend = "file"
	}
	if cfg.Save.FilePath == "" {
		cfg.Save.FilePath = "data/save_data.json"
	}
	if cfg.Save.SQLitePath == "" {
		cfg.Save.SQLitePath = "data/ambition.db"
	}
	if cfg.Save.AutosaveCron == "" {
		cfg.Save.AutosaveCron = "@every 5m"
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 8080
	}
	if cfg.NewGame.PlayerID == 0 {
		cfg.NewGame.PlayerID = 1001
	}
	if cfg.NewGame.WifeTypeID == 0 {
		cfg.NewGame.WifeTypeID = 1
	}
	if cfg.NewGame.HouseID == 0 {
		cfg.NewGame.HouseID = 101
	}

	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Save.Backend != "file" && c.Save.Backend != "sqlite" {
		return fmt.Errorf("save.backend must be file or sqlite, got %q", c.Save.Backend)
	}
	if c.API.Port < 0 || c.API.Port > 65535 {
		return fmt.Errorf("api.port out of range: %d", c.API.Port)
	}
	return nil
}
