package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summaryDate string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the summary of a saved day",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, log, err := openApp(ctx, false)
		if err != nil {
			return err
		}
		defer closeApp(a, log)

		date, err := resolveDate(summaryDate, a.Config)
		if err != nil {
			return err
		}
		report, err := a.Reporting.BuildDailyReport(ctx, date)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), a.Reporting.Summary(report))
		return nil
	},
}

func init() {
	summaryCmd.Flags().StringVar(&summaryDate, "date", "", "day to summarize, YYYY-MM-DD (default today)")
}
