package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var publishDate string

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Send a saved day's summary to the configured sinks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, log, err := openApp(ctx, true)
		if err != nil {
			return err
		}
		defer closeApp(a, log)

		date, err := resolveDate(publishDate, a.Config)
		if err != nil {
			return err
		}
		if _, err := a.Reporting.PublishDay(ctx, date); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Published %s to %v\n", date, a.Reporting.SinkNames())
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishDate, "date", "", "day to publish, YYYY-MM-DD (default today)")
}
