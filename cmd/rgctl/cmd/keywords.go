package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func keywordsCmd() *cobra.Command {
	keywordsRoot := &cobra.Command{
		Use:   "keywords",
		Short: "Manage tracked keywords",
		Long: "Manage the keyword/country pairs the tracker polls. Disabled keywords\n" +
			"keep their history but are skipped by the tracking cycle.",
	}

	keywordsRoot.AddCommand(
		keywordsListCmd(),
		keywordsGetCmd(),
		keywordsAddCmd(),
		keywordsEnableCmd(),
		keywordsDisableCmd(),
		keywordsDeleteCmd(),
	)

	return keywordsRoot
}

func keywordsListCmd() *cobra.Command {
	var enabledOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked keywords",
		Example: `  rgctl keywords list
  rgctl keywords list --enabled
  rgctl keywords list --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			keywords, err := c.ListKeywords(context.Background(), enabledOnly)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(keywords)
			}
			if len(keywords) == 0 {
				fmt.Println("No keywords found.")
				return nil
			}
			return printKeywordTable(keywords)
		},
	}
	cmd.Flags().BoolVar(&enabledOnly, "enabled", false, "only show enabled keywords")

	return cmd
}

func keywordsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show keyword details",
		Example: `  rgctl keywords get abc123
  rgctl keywords get abc123 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			kw, err := c.GetKeyword(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(kw)
			}
			return printKeywordDetail(kw)
		},
	}
}

func keywordsAddCmd() *cobra.Command {
	var (
		country  string
		disabled bool
	)

	cmd := &cobra.Command{
		Use:   "add <keyword>",
		Short: "Track a new keyword",
		Long: "Start tracking a keyword in one App Store storefront. The keyword is\n" +
			"enabled by default and gets its first rank observation on the next\n" +
			"tracking cycle.",
		Example: `  rgctl keywords add "bible sleep stories"
  rgctl keywords add "prayer app" --country GB
  rgctl keywords add "devotional" --disabled`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			created, err := c.CreateKeyword(context.Background(), args[0], country, !disabled)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(created)
			}
			fmt.Printf("Keyword created: %q [%s] (%s)\n", created.Keyword, created.Country, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&country, "country", "US", "App Store storefront country code")
	cmd.Flags().BoolVar(&disabled, "disabled", false, "create the keyword disabled")

	return cmd
}

func keywordsEnableCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "enable <id>",
		Short:   "Enable a keyword",
		Example: `  rgctl keywords enable abc123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runKeywordSetEnabled(args[0], true)
		},
	}
}

func keywordsDisableCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "disable <id>",
		Short:   "Disable a keyword",
		Example: `  rgctl keywords disable abc123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runKeywordSetEnabled(args[0], false)
		},
	}
}

func keywordsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a keyword and its history",
		Example: `  rgctl keywords delete abc123`,
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			if err := c.DeleteKeyword(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Keyword %s deleted.\n", args[0])
			return nil
		},
	}
}

func runKeywordSetEnabled(id string, enabled bool) error {
	c := newClient()
	if err := c.SetKeywordEnabled(context.Background(), id, enabled); err != nil {
		return err
	}

	action := "enabled"
	if !enabled {
		action = "disabled"
	}
	fmt.Printf("Keyword %s %s.\n", id, action)
	return nil
}
