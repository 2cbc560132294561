package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"pool_monitor/internal/models"
	"pool_monitor/internal/service"
)

func newAlertsCmd() *cobra.Command {
	var (
		showSuspicious bool
		limit          int
		jsonOutput     bool
	)
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Print the grouped alert view from the local database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			groups, err := a.services.AlertFeed.View(ctx, service.FeedOptions{
				ShowSuspicious: showSuspicious,
				Limit:          limit,
			})
			if err != nil {
				return fmt.Errorf("load alerts: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(groups)
			}
			printGroups(groups)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showSuspicious, "show-suspicious", false, "include implausible sensor readings")
	cmd.Flags().IntVar(&limit, "limit", 0, "how many log entries to group (0 selects the configured default)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	return cmd
}

func printGroups(groups []models.GroupedAlert) {
	if len(groups) == 0 {
		fmt.Println("No alerts.")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tTYPE\tCOUNT\tLATEST\tDESCRIPTION")
	for _, g := range groups {
		latest := time.UnixMilli(g.LatestTimestamp).Local().Format("2006-01-02 15:04:05")
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", g.Title, g.Type, g.Count, latest, g.Description)
	}
	_ = w.Flush()
}
