package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   Server   `yaml:"server" json:"server"`
	Storage  Storage  `yaml:"storage" json:"storage"`
	Profiles Profiles `yaml:"profiles" json:"profiles"`
	Rollover Rollover `yaml:"rollover" json:"rollover"`
}

type Server struct {
	Addr string `yaml:"addr" json:"addr"`
}

type Storage struct {
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

type Profiles struct {
	DefaultName string `yaml:"default_name" json:"default_name"`
}

type Rollover struct {
	// Schedule is a cron spec; the default hourly check is plenty since
	// the unit of rollover is a calendar day.
	Schedule   string `yaml:"schedule" json:"schedule"`
	RunOnStart bool   `yaml:"run_on_start" json:"run_on_start"`
}

func Default() *Config {
	return &Config{
		Server:   Server{Addr: ":8080"},
		Storage:  Storage{DataDir: "data"},
		Profiles: Profiles{DefaultName: "Personal"},
		Rollover: Rollover{Schedule: "@hourly", RunOnStart: true},
	}
}

// Load reads the YAML config at path, falling back to defaults when the
// file does not exist. Unset fields keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if cfg.Server.Addr == "" {
		cfg.Server.Addr = Default().Server.Addr
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = Default().Storage.DataDir
	}
	if cfg.Profiles.DefaultName == "" {
		cfg.Profiles.DefaultName = Default().Profiles.DefaultName
	}
	if cfg.Rollover.Schedule == "" {
		cfg.Rollover.Schedule = Default().Rollover.Schedule
	}

	return cfg, nil
}
