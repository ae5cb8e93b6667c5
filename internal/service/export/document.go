package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/pillars/internal/domain/models"
)

const (
	fontFamily  = "Helvetica"
	rowHeight   = 6.0
	cellPadding = 1.0
)

// DocumentInput is everything printed on a day's PDF report.
type DocumentInput struct {
	Date          models.DateKey
	Stock         models.Table
	Accommodation models.Table
	Expenses      models.Table
	MoneyPaid     decimal.Decimal
	MoneyInvested decimal.Decimal
	Profit        decimal.Decimal
	Currency      string
}

// DocumentFromReport prints a built report with amounts in currency.
func DocumentFromReport(report models.DailyReport, currency string) DocumentInput {
	return DocumentInput{
		Date:          report.Date,
		Stock:         report.Stock,
		Accommodation: report.Accommodation,
		Expenses:      report.Expenses,
		MoneyPaid:     report.MoneyPaid,
		MoneyInvested: report.MoneyInvested,
		Profit:        report.Profit,
		Currency:      currency,
	}
}

// ToDocument renders an A4 report: a title carrying the date, one bordered
// grid per non-empty table, then the money summary. Every column of a grid is
// page width / (column count + 1) wide.
func ToDocument(in DocumentInput) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.SetTitle(fmt.Sprintf("Daily Report - %s", in.Date), true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Daily Report - %s", in.Date)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	sections := []NamedTable{
		{Name: models.SectionStock.Title(), Table: in.Stock},
		{Name: models.SectionAccommodation.Title(), Table: in.Accommodation},
		{Name: models.SectionExpenses.Title(), Table: in.Expenses},
	}
	for _, section := range sections {
		if section.Table.IsEmpty() {
			continue
		}
		writeGrid(pdf, tr, section)
	}

	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	lines := []string{
		fmt.Sprintf("%s: %s", models.MoneyPaid.Label(), models.FormatCurrency(in.Currency, in.MoneyPaid)),
		fmt.Sprintf("%s: %s", models.MoneyInvested.Label(), models.FormatCurrency(in.Currency, in.MoneyInvested)),
		fmt.Sprintf("Profit: %s", models.FormatCurrency(in.Currency, in.Profit)),
	}
	for _, line := range lines {
		pdf.CellFormat(0, rowHeight, tr(line), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeGrid(pdf *fpdf.Fpdf, tr func(string) string, section NamedTable) {
	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(section.Table.Columns)+1)

	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, 8, tr(section.Name), "", 1, "L", false, 0, "")

	pdf.SetFont(fontFamily, "B", 8)
	pdf.SetFillColor(225, 225, 225)
	for _, col := range section.Table.Columns {
		pdf.CellFormat(colWidth, rowHeight, fitText(pdf, tr(col), colWidth), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(fontFamily, "", 8)
	for _, row := range section.Table.Rectangular().Rows {
		for _, cell := range row[:len(section.Table.Columns)] {
			pdf.CellFormat(colWidth, rowHeight, fitText(pdf, tr(cell), colWidth), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

// fitText cuts text so it stays inside a cell of the given width. The text is
// already translated to the single-byte font encoding, so cutting bytes is safe.
func fitText(pdf *fpdf.Fpdf, text string, width float64) string {
	limit := width - 2*cellPadding
	if pdf.GetStringWidth(text) <= limit {
		return text
	}
	for len(text) > 0 && pdf.GetStringWidth(text+"..") > limit {
		text = text[:len(text)-1]
	}
	return text + ".."
}
