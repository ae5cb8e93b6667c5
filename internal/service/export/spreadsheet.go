// Package export renders day tables as a spreadsheet workbook or a paginated
// PDF document. Output is returned as bytes and never written server-side.
package export

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/pillars/internal/domain/models"
)

var (
	// ErrNothingToExport is returned when every table given is empty.
	ErrNothingToExport = errors.New("nothing to export")
	// ErrInvalidSheetName rejects names a workbook cannot hold, including a
	// name repeated in another letter case.
	ErrInvalidSheetName = errors.New("invalid sheet name")
)

// maxSheetName is the workbook limit on sheet name length, in characters.
const maxSheetName = 31

// NamedTable pairs a sheet or section title with its table.
type NamedTable struct {
	Name  string       `json:"name"`
	Table models.Table `json:"table"`
}

// ToSpreadsheet builds an xlsx workbook with one sheet per non-empty table,
// in the order given. Headers are bold; numeric cells are stored as numbers.
func ToSpreadsheet(sheets []NamedTable) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	written := 0
	seen := make(map[string]bool, len(sheets))
	for _, sheet := range sheets {
		if sheet.Table.IsEmpty() {
			continue
		}
		if err := checkSheetName(sheet.Name); err != nil {
			return nil, err
		}
		// Workbooks compare sheet names case-insensitively.
		key := strings.ToLower(sheet.Name)
		if seen[key] {
			return nil, fmt.Errorf("%w: %q is used twice", ErrInvalidSheetName, sheet.Name)
		}
		seen[key] = true

		if written == 0 {
			err = f.SetSheetName(f.GetSheetName(0), sheet.Name)
		} else {
			_, err = f.NewSheet(sheet.Name)
		}
		if err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", sheet.Name, err)
		}
		if err := writeSheet(f, sheet.Name, sheet.Table, header); err != nil {
			return nil, err
		}
		written++
	}
	if written == 0 {
		return nil, ErrNothingToExport
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func checkSheetName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is blank", ErrInvalidSheetName)
	case utf8.RuneCountInString(name) > maxSheetName:
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidSheetName, name, maxSheetName)
	case strings.ContainsAny(name, `[]:*?/\`):
		return fmt.Errorf("%w: %q contains one of []:*?/\\", ErrInvalidSheetName, name)
	case strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'"):
		return fmt.Errorf("%w: %q starts or ends with an apostrophe", ErrInvalidSheetName, name)
	}
	return nil
}

// ReportSheets orders a report's tables as workbook sheets.
func ReportSheets(report models.DailyReport) []NamedTable {
	return []NamedTable{
		{Name: models.SectionStock.Title(), Table: report.Stock},
		{Name: models.SectionAccommodation.Title(), Table: report.Accommodation},
		{Name: models.SectionExpenses.Title(), Table: report.Expenses},
	}
}

func writeSheet(f *excelize.File, name string, t models.Table, headerStyle int) error {
	headerRow := make([]interface{}, len(t.Columns))
	for i, c := range t.Columns {
		headerRow[i] = c
	}
	if err := f.SetSheetRow(name, "A1", &headerRow); err != nil {
		return fmt.Errorf("write header of %q: %w", name, err)
	}
	if err := f.SetRowStyle(name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("style header of %q: %w", name, err)
	}

	for r, row := range t.Rectangular().Rows {
		values := make([]interface{}, len(row))
		for i, cell := range row {
			values[i] = cellValue(cell)
		}
		anchor, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, anchor, &values); err != nil {
			return fmt.Errorf("write row %d of %q: %w", r+1, name, err)
		}
	}

	for i, c := range t.Columns {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		width := float64(len([]rune(c))) + 4
		if width < 10 {
			width = 10
		}
		if err := f.SetColWidth(name, col, col, width); err != nil {
			return fmt.Errorf("size column %s of %q: %w", col, name, err)
		}
	}
	return nil
}

// cellValue keeps text as text and hands plain numbers to the workbook as
// numbers so they sum in a spreadsheet application.
func cellValue(cell string) interface{} {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" || trimmed != cell {
		return cell
	}
	if v, err := strconv.ParseInt(trimmed, 10, 64); err == nil && !hasLeadingZero(trimmed) {
		return v
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil && strings.ContainsAny(trimmed, ".") && !strings.ContainsAny(trimmed, "eEnNiI") {
		return v
	}
	return cell
}

func hasLeadingZero(s string) bool {
	s = strings.TrimPrefix(s, "-")
	return len(s) > 1 && s[0] == '0'
}
