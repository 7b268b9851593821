package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sagarc03/tinyweb/config"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "tinyweb",
	Short:   "Step-driven HTTP engine for constrained devices",
	Long: `tinyweb runs the single-connection, one-step-per-poll HTTP engine a
device firmware would run, backed by filesystem, SQLite or PostgreSQL storage.

The dev command serves the same routes through net/http for desktop UI work.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		setupLogging(cfg.Env, cfg.Log.Level)
		cmd.SetContext(config.WithContext(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("storage-type", "", "storage type: filesystem, sqlite, postgres (default: filesystem, env: TINYWEB_STORAGE_TYPE)")
	rootCmd.PersistentFlags().String("storage-dsn", "", "database connection string for sqlite/postgres (env: TINYWEB_STORAGE_DSN)")
	rootCmd.PersistentFlags().String("storage-path", "", "storage directory for filesystem storage (default: ./data, env: TINYWEB_STORAGE_PATH)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (default: info, env: TINYWEB_LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
