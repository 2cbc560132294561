package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version info (set by ldflags)
	version = "dev"

	// Flags
	configPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "poolmon",
		Short: "Pool sensor monitor",
		Long: `poolmon ingests pool sensor readings, raises range alerts with a per-metric
cooldown and serves grouped, deduplicated alerts over HTTP and websockets.

  poolmon serve                            Run the API, monitor and simulator
  poolmon alerts [--show-suspicious]       Print the grouped alert view
  poolmon users set-role <user> <role>     Change an account's role`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default configs/config.yml)")

	rootCmd.AddCommand(
		newServeCmd(),
		newAlertsCmd(),
		newUsersCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		// Error already printed by cobra
		os.Exit(1)
	}
}
