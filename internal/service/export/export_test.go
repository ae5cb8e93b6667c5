package export

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/pillars/internal/domain/models"
)

func stock() models.Table {
	tbl := models.NewTable(models.ColItem, models.ColOpeningStock, models.ColPurchases, models.ColClosingStock, models.ColSellingPrice)
	tbl.AppendRow("TUSKER", "10", "5", "3", "50.5")
	tbl.AppendRow("RICHOT ½", "2", "0", "1", "450")
	return tbl
}

func accommodation() models.Table {
	tbl := models.NewTable(models.ColRoomNumber, models.ColFirstFloor, models.ColGroundFloor, models.ColMoneyLendered, models.ColPaymentMethod)
	tbl.AppendRow("A", "101", "", "1500", "cash")
	return tbl
}

func readWorkbook(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestToSpreadsheetOneSheetPerTable(t *testing.T) {
	data, err := ToSpreadsheet([]NamedTable{
		{Name: "Stock", Table: stock()},
		{Name: "Accommodation", Table: accommodation()},
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	f := readWorkbook(t, data)
	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"Stock", "Accommodation"}) {
		t.Fatalf("unexpected sheets %v", got)
	}

	rows, err := f.GetRows("Stock")
	if err != nil {
		t.Fatal(err)
	}
	want := [][]string{
		stock().Columns,
		{"TUSKER", "10", "5", "3", "50.5"},
		{"RICHOT ½", "2", "0", "1", "450"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Fatalf("unexpected stock rows %v", rows)
	}

	rows, err = f.GetRows("Accommodation")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(rows[0], accommodation().Columns) || rows[1][0] != "A" || rows[1][1] != "101" || rows[1][4] != "cash" {
		t.Fatalf("unexpected accommodation rows %v", rows)
	}
}

func TestToSpreadsheetSkipsEmptyTables(t *testing.T) {
	data, err := ToSpreadsheet([]NamedTable{
		{Name: "Stock", Table: models.Table{}},
		{Name: "Expenses", Table: models.NewTable(models.ColDescription, models.ColAmount)},
	})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	f := readWorkbook(t, data)
	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"Expenses"}) {
		t.Fatalf("unexpected sheets %v", got)
	}

	if _, err := ToSpreadsheet([]NamedTable{{Name: "Stock"}}); !errors.Is(err, ErrNothingToExport) {
		t.Fatalf("expected ErrNothingToExport, got %v", err)
	}
}

func TestToSpreadsheetRejectsBadSheetNames(t *testing.T) {
	cases := map[string][]NamedTable{
		"duplicate":         {{Name: "A", Table: stock()}, {Name: "A", Table: stock()}},
		"duplicate by case": {{Name: "Stock", Table: stock()}, {Name: "stock", Table: accommodation()}},
		"blank":             {{Name: "  ", Table: stock()}},
		"too long":          {{Name: strings.Repeat("x", 32), Table: stock()}},
		"slash":             {{Name: "Stock/Bar", Table: stock()}},
		"bracket":           {{Name: "[Stock]", Table: stock()}},
		"apostrophe":        {{Name: "'Stock", Table: stock()}},
	}
	for name, sheets := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ToSpreadsheet(sheets); !errors.Is(err, ErrInvalidSheetName) {
				t.Fatalf("expected ErrInvalidSheetName, got %v", err)
			}
		})
	}

	if _, err := ToSpreadsheet([]NamedTable{{Name: strings.Repeat("é", 31), Table: stock()}}); err != nil {
		t.Fatalf("31 characters must be accepted: %v", err)
	}
}

func TestReportSheetsAndDocumentInput(t *testing.T) {
	report := models.DailyReport{
		Date:          "2024-01-01",
		Stock:         stock(),
		Accommodation: accommodation(),
		MoneyPaid:     decimal.NewFromInt(3000),
		Profit:        decimal.NewFromInt(42),
	}

	sheets := ReportSheets(report)
	names := make([]string, len(sheets))
	for i, s := range sheets {
		names[i] = s.Name
	}
	if !reflect.DeepEqual(names, []string{"Stock", "Accommodation", "Expenses"}) {
		t.Fatalf("unexpected sheet order %v", names)
	}

	data, err := ToSpreadsheet(sheets)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if got := readWorkbook(t, data).GetSheetList(); !reflect.DeepEqual(got, []string{"Stock", "Accommodation"}) {
		t.Fatalf("unexpected sheets %v", got)
	}

	in := DocumentFromReport(report, "UGX")
	if in.Date != report.Date || in.Currency != "UGX" || !in.Profit.Equal(report.Profit) || !in.MoneyPaid.Equal(report.MoneyPaid) {
		t.Fatalf("unexpected document input %+v", in)
	}
}

func TestCellValue(t *testing.T) {
	cases := []struct {
		in   string
		want interface{}
	}{
		{"12", int64(12)},
		{"-3", int64(-3)},
		{"50.5", 50.5},
		{"0712", "0712"},
		{"1e3", "1e3"},
		{"NaN", "NaN"},
		{" 5", " 5"},
		{"", ""},
		{"VAT 69", "VAT 69"},
	}
	for _, tc := range cases {
		if got := cellValue(tc.in); got != tc.want {
			t.Fatalf("%q: expected %#v, got %#v", tc.in, tc.want, got)
		}
	}
}

func TestToDocument(t *testing.T) {
	long := models.NewTable(models.ColDescription, models.ColAmount)
	long.AppendRow("A very long description that will never fit inside a single grid cell", "100")
	for i := 0; i < 80; i++ {
		long.AppendRow("Ice", "10")
	}

	data, err := ToDocument(DocumentInput{
		Date:          "2024-01-01",
		Stock:         stock(),
		Accommodation: accommodation(),
		Expenses:      long,
		MoneyPaid:     decimal.NewFromInt(3000),
		MoneyInvested: decimal.NewFromInt(500),
		Profit:        decimal.RequireFromString("1649.5"),
		Currency:      "KES",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
	if !bytes.Contains(data, []byte("/Count 2")) && !bytes.Contains(data, []byte("/Count 3")) {
		t.Fatalf("expected a multi-page document")
	}
}

func TestToDocumentWithoutTables(t *testing.T) {
	data, err := ToDocument(DocumentInput{Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF")
	}
}
