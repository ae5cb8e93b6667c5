package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List the days with saved records, most recent first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, log, err := openApp(ctx, false)
		if err != nil {
			return err
		}
		defer closeApp(a, log)

		dates, err := a.Books.KnownDates(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(dates) == 0 {
			fmt.Fprintln(out, "No saved reports found.")
			return nil
		}
		for _, d := range dates {
			fmt.Fprintln(out, d)
		}
		return nil
	},
}
