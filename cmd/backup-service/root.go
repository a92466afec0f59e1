package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mysql-backup-service/internal/app"
	"mysql-backup-service/internal/config"
)

var (
	// Version is set at build time.
	Version = "dev"

	configPath string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "backup-service",
	Short: "Scheduled multi-target MySQL backup orchestrator",
	Long: `backup-service dumps every configured MySQL target to compressed
artifacts, enforces a retention window, and reports the outcome over the
configured notification channels.

Targets are defined as .env profiles in the configured env_directory; one
invocation of "backup" processes all of them. Designed to run one-shot from
cron or a systemd timer; "serve" schedules runs in-process instead.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "/etc/mysql-backup/config.json", "path to config file")

	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(authCmd)
}

// newApp loads the global config and wires the application. Every command
// except help goes through here.
func newApp() (*app.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	application, err := app.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize app: %w", err)
	}
	return application, nil
}
