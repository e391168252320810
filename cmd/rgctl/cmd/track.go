package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func trackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "track",
		Short: "Trigger a tracking cycle now",
		Long: "Run a full tracking cycle immediately instead of waiting for the\n" +
			"schedule: look up every enabled keyword, record observations, and\n" +
			"send any resulting alerts.",
		Example: `  rgctl track`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			if err := c.TriggerTracking(context.Background()); err != nil {
				return err
			}
			fmt.Println("Tracking cycle completed.")
			return nil
		},
	}
}

func digestCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "digest",
		Short:   "Send the daily digest now",
		Example: `  rgctl digest`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			if err := c.TriggerDigest(context.Background()); err != nil {
				return err
			}
			fmt.Println("Digest sent.")
			return nil
		},
	}
}

func quotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show iTunes Search API quota usage",
		Example: `  rgctl quota
  rgctl quota --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			q, err := c.GetQuota(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(q)
			}
			return printQuota(q)
		},
	}
}
