package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagarc03/tinyweb/config"
)

// loadConfig resolves the configuration for cmd: --config file, TINYWEB_*
// environment and explicitly set flags on top of the defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var files []string
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		files = append(files, path)
	}

	cfg, err := config.Load(files, cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
