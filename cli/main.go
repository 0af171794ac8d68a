// gcputil is a command line interface for working with GCS, BigQuery and Cloud Logging.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jlewi/gcputil/cli/commands"
	"github.com/jlewi/gcputil/config"
	"github.com/jlewi/gcputil/gcp/logging"
)

func newRootCmd() *cobra.Command {
	var level string
	var jsonLog bool
	rootCmd := &cobra.Command{
		Use:   "gcputil",
		Short: "helpers for GCS, BigQuery and Cloud Logging",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// GCP_LOG_LEVEL applies unless --level is passed explicitly.
			if !cmd.Flags().Changed("level") {
				if cfg, err := config.Load(); err == nil && cfg.LogLevel != "" {
					level = cfg.LogLevel
				}
			}
			_, err := logging.InitLogger(level, !jsonLog)
			if err != nil {
				panic(err)
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&level, "level", "", "info", "The logging level.")
	rootCmd.PersistentFlags().BoolVarP(&jsonLog, "json-logs", "", false, "Enable json logging.")
	return rootCmd
}

func main() {
	rootCmd := newRootCmd()
	rootCmd.AddCommand(commands.NewGCSCommands())
	rootCmd.AddCommand(commands.NewBQCommands())
	rootCmd.AddCommand(commands.NewLogsCommands())
	rootCmd.AddCommand(commands.NewConfigCommand())
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("Command failed with error: %+v", err)
		os.Exit(1)
	}
}
