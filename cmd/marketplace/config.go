package main

import (
	"github.com/Jose-Tepaz/epicareplans-marketplace-sub001/internal/config"
)

// loadCLIConfig resolves the effective configuration for a subcommand: the
// optional JSON config file wins, the environment fills missing secrets, and
// the flag/env defaults fill whatever is still empty.
func loadCLIConfig(path string, defaults config.Config) (*config.Config, error) {
	cfg := &config.Config{}
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.FromEnv()
	merged := cfg.MergeWithDefaults(defaults)
	return &merged, nil
}
