package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	apiclient "github.com/asoguard/rankguard/internal/api/client"
)

func alertsCmd() *cobra.Command {
	var params apiclient.ListAlertsParams

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List recorded alerts",
		Long: "List the audit trail of surfaced alerts, filterable by priority,\n" +
			"keyword, country, and age.",
		Example: `  rgctl alerts
  rgctl alerts --priority CRITICAL --since 24
  rgctl alerts --keyword "prayer app" --order-by delta
  rgctl alerts --limit 100 --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			resp, err := c.ListAlerts(context.Background(), &params)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(resp)
			}
			if len(resp.Alerts) == 0 {
				fmt.Println("No alerts found.")
				return nil
			}
			if err := printAlertsTable(resp.Alerts); err != nil {
				return err
			}
			fmt.Printf("\nShowing %d of %d alerts.\n", len(resp.Alerts), resp.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&params.Priority, "priority", "",
		"filter by priority (CRITICAL, HIGH, MEDIUM, LOW, CELEBRATION)")
	cmd.Flags().StringVar(&params.Keyword, "keyword", "", "filter by keyword")
	cmd.Flags().StringVar(&params.Country, "country", "", "filter by country code")
	cmd.Flags().IntVar(&params.SinceHours, "since", 0, "only alerts from the last N hours")
	cmd.Flags().IntVar(&params.Limit, "limit", 0, "max alerts to return (0 = server default)")
	cmd.Flags().IntVar(&params.Offset, "offset", 0, "pagination offset")
	cmd.Flags().StringVar(&params.OrderBy, "order-by", "", "sort order (created_at, delta)")

	return cmd
}
