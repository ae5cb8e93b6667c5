package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/pillars/internal/service/export"
)

var (
	exportDate   string
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a saved day as a spreadsheet or PDF file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(exportFormat)
		if format != "xlsx" && format != "pdf" {
			return fmt.Errorf("unsupported format %q, want xlsx or pdf", exportFormat)
		}

		ctx := cmd.Context()
		a, log, err := openApp(ctx, false)
		if err != nil {
			return err
		}
		defer closeApp(a, log)

		date, err := resolveDate(exportDate, a.Config)
		if err != nil {
			return err
		}
		report, err := a.Reporting.BuildDailyReport(ctx, date)
		if err != nil {
			return err
		}

		var data []byte
		switch format {
		case "xlsx":
			data, err = export.ToSpreadsheet(export.ReportSheets(report))
		case "pdf":
			data, err = export.ToDocument(export.DocumentFromReport(report, a.Reporting.Currency()))
		}
		if err != nil {
			return fmt.Errorf("export %s: %w", date, err)
		}

		out := exportOut
		if out == "" {
			out = fmt.Sprintf("pillars_report_%s.%s", date, format)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, len(data))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportDate, "date", "", "day to export, YYYY-MM-DD (default today)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "xlsx", "output format: xlsx or pdf")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default pillars_report_{date}.{format})")
}
