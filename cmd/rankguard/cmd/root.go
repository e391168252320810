// Package cmd implements the CLI commands for the rankguard server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "rankguard",
	Short: "Track App Store keyword rankings and send alerts",
	Long:  "A service that polls the iTunes Search API for tracked keywords, records rank observations, classifies rank changes into prioritized alerts, detects batch-level patterns, and delivers grouped notifications and daily digests.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
