package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func rankingsCmd() *cobra.Command {
	rankingsRoot := &cobra.Command{
		Use:   "rankings",
		Short: "Query rank observations",
		Long: "Query stored rank observations: the latest snapshot across all tracked\n" +
			"keywords, or the full history of one keyword/country pair.",
	}

	rankingsRoot.AddCommand(
		rankingsLatestCmd(),
		rankingsHistoryCmd(),
	)

	return rankingsRoot
}

func rankingsLatestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Show the latest rank for every tracked keyword",
		Example: `  rgctl rankings latest
  rgctl rankings latest --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			observations, err := c.LatestRankings(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(observations)
			}
			if len(observations) == 0 {
				fmt.Println("No observations found.")
				return nil
			}
			return printObservationsTable(observations)
		},
	}
}

func rankingsHistoryCmd() *cobra.Command {
	var (
		country string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "history <keyword>",
		Short: "Show rank history for one keyword",
		Example: `  rgctl rankings history "bible sleep stories"
  rgctl rankings history "prayer app" --country GB --limit 100`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			observations, err := c.RankingHistory(context.Background(), args[0], country, limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(observations)
			}
			if len(observations) == 0 {
				fmt.Printf("No observations found for %q.\n", args[0])
				return nil
			}
			return printObservationsTable(observations)
		},
	}
	cmd.Flags().StringVar(&country, "country", "US", "App Store storefront country code")
	cmd.Flags().IntVar(&limit, "limit", 0, "max observations to return (0 = server default)")

	return cmd
}
