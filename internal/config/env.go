package config

import "os"

// ApplyEnv overlays environment variables on top of cfg.
// Falls back to the existing values if variables are not set.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("DAILYTASKS_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DAILYTASKS_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("DAILYTASKS_DEFAULT_PROFILE"); v != "" {
		cfg.Profiles.DefaultName = v
	}
	if v := os.Getenv("DAILYTASKS_ROLLOVER_SCHEDULE"); v != "" {
		cfg.Rollover.Schedule = v
	}
	if v := os.Getenv("DAILYTASKS_ROLLOVER_ON_START"); v != "" {
		cfg.Rollover.RunOnStart = v == "1" || v == "true" || v == "yes"
	}
}
