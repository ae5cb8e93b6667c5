package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/pillars/internal/domain/models"
)

var (
	importDate    string
	importSection string
	importFile    string
	importDryRun  bool
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Save a CSV file as a day's section table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		section, err := models.ParseSection(importSection)
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(importFile)
		if err != nil {
			return fmt.Errorf("read %s: %w", importFile, err)
		}

		ctx := cmd.Context()
		a, log, err := openApp(ctx, false)
		if err != nil {
			return err
		}
		defer closeApp(a, log)

		date, err := resolveDate(importDate, a.Config)
		if err != nil {
			return err
		}
		table, err := a.Books.ImportSection(section, string(raw))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if importDryRun {
			fmt.Fprintf(out, "Parsed %d %s rows for %s (dry run, nothing saved)\n", len(table.Rows), section, date)
			return nil
		}
		if err := a.Books.SaveSection(ctx, date, section, table); err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved %d %s rows for %s\n", len(table.Rows), section, date)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importDate, "date", "", "day to save into, YYYY-MM-DD (default today)")
	importCmd.Flags().StringVar(&importSection, "section", "", "stock, accommodation or expenses")
	importCmd.Flags().StringVar(&importFile, "file", "", "CSV file with a header row")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "parse without saving")
	_ = importCmd.MarkFlagRequired("section")
	_ = importCmd.MarkFlagRequired("file")
}
