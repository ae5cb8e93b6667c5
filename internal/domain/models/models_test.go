package models

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseDateKey(t *testing.T) {
	cases := []struct {
		in   string
		want DateKey
		ok   bool
	}{
		{"2024-01-01", "2024-01-01", true},
		{" 2024-12-31 ", "2024-12-31", true},
		{"2024-02-30", "", false},
		{"2024-1-01", "", false},
		{"01/02/2024", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseDateKey(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("%q: expected %q, got %q (err=%v)", tc.in, tc.want, got, err)
			}
			continue
		}
		if !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("%q: expected ErrInvalidDate, got %v", tc.in, err)
		}
	}
}

func TestParseSectionAndMoneyKey(t *testing.T) {
	if s, err := ParseSection("Stock"); err != nil || s != SectionStock {
		t.Fatalf("unexpected section %q err=%v", s, err)
	}
	if _, err := ParseSection("rooms"); !errors.Is(err, ErrUnknownSection) {
		t.Fatalf("expected ErrUnknownSection, got %v", err)
	}
	if k, err := ParseMoneyKey("money_invested"); err != nil || k != MoneyInvested {
		t.Fatalf("unexpected key %q err=%v", k, err)
	}
	if _, err := ParseMoneyKey("money"); !errors.Is(err, ErrUnknownMoneyKey) {
		t.Fatalf("expected ErrUnknownMoneyKey, got %v", err)
	}
}

func TestTableWithColumnAndWithout(t *testing.T) {
	tbl := NewTable("A", "B")
	tbl.AppendRow("1", "2")
	tbl.AppendRow("3")

	added := tbl.WithColumn("C", []string{"x", "y"})
	want := [][]string{{"1", "2", "x"}, {"3", "", "y"}}
	if !reflect.DeepEqual(added.Rows, want) {
		t.Fatalf("unexpected rows: %v", added.Rows)
	}
	if len(tbl.Rows[1]) != 1 {
		t.Fatalf("WithColumn mutated the receiver: %v", tbl.Rows)
	}

	replaced := added.WithColumn("A", []string{"9"})
	if replaced.Value(0, "A") != "9" || replaced.Value(1, "A") != "" {
		t.Fatalf("unexpected replaced column: %v", replaced.Rows)
	}

	dropped := added.WithoutColumns("B", "missing")
	if !reflect.DeepEqual(dropped.Columns, []string{"A", "C"}) {
		t.Fatalf("unexpected columns: %v", dropped.Columns)
	}
	if !reflect.DeepEqual(dropped.Rows[1], []string{"3", "y"}) {
		t.Fatalf("unexpected row: %v", dropped.Rows[1])
	}
}

func TestTableCheckShape(t *testing.T) {
	tbl := NewTable("A")
	tbl.AppendRow("1", "2")
	if err := tbl.CheckShape(); !errors.Is(err, ErrRaggedRow) {
		t.Fatalf("expected ErrRaggedRow, got %v", err)
	}
}

func TestSchemaNormalizeAddsMissingColumns(t *testing.T) {
	schema, err := SchemaFor(SectionStock)
	if err != nil {
		t.Fatal(err)
	}
	legacy := NewTable(ColItem, ColOpeningStock, "Notes")
	legacy.AppendRow("TUSKER", "4", "fridge")

	got, upgraded := schema.Normalize(legacy)
	if !upgraded {
		t.Fatalf("expected upgrade")
	}
	wantCols := []string{ColItem, ColOpeningStock, "Notes", ColPurchases, ColClosingStock, ColSellingPrice}
	if !reflect.DeepEqual(got.Columns, wantCols) {
		t.Fatalf("unexpected columns: %v", got.Columns)
	}
	if !reflect.DeepEqual(got.Rows[0], []string{"TUSKER", "4", "fridge", "0", "0", "0.0"}) {
		t.Fatalf("unexpected row: %v", got.Rows[0])
	}

	again, upgraded := schema.Normalize(got)
	if upgraded || !reflect.DeepEqual(again, got) {
		t.Fatalf("normalize should be stable, got %v", again)
	}

	empty, upgraded := schema.Normalize(Table{})
	if upgraded || !empty.IsEmpty() {
		t.Fatalf("empty table must stay empty")
	}
}

func TestSchemaValidate(t *testing.T) {
	schema, _ := SchemaFor(SectionStock)
	cases := []struct {
		name string
		row  []string
		ok   bool
	}{
		{"valid", []string{"TUSKER", "10", "5", "3", "50.0"}, true},
		{"blank numbers", []string{"TUSKER", "", "", "", ""}, true},
		{"legacy float count", []string{"TUSKER", "10.0", "0", "0", "0"}, true},
		{"negative", []string{"TUSKER", "-1", "0", "0", "0"}, false},
		{"fractional count", []string{"TUSKER", "1.5", "0", "0", "0"}, false},
		{"text price", []string{"TUSKER", "1", "0", "0", "abc"}, false},
	}
	for _, tc := range cases {
		tbl := NewTable(schema.ColumnNames()...)
		tbl.AppendRow(tc.row...)
		err := schema.Validate(tbl)
		if tc.ok && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, ErrInvalidCell) {
			t.Fatalf("%s: expected ErrInvalidCell, got %v", tc.name, err)
		}
	}
}

func TestStockRowSalesAndAmount(t *testing.T) {
	row := StockRow{OpeningStock: 10, Purchases: 5, ClosingStock: 3, SellingPrice: decimal.NewFromFloat(50.0)}
	if row.Sales() != 12 {
		t.Fatalf("expected sales 12, got %d", row.Sales())
	}
	if !row.Amount().Equal(decimal.NewFromInt(600)) {
		t.Fatalf("expected amount 600, got %s", row.Amount())
	}

	over := StockRow{OpeningStock: 1, Purchases: 0, ClosingStock: 4, SellingPrice: decimal.NewFromFloat(2.5)}
	if over.Sales() != -3 || !over.Amount().Equal(decimal.NewFromFloat(-7.5)) {
		t.Fatalf("negative sales must not be clamped: sales=%d amount=%s", over.Sales(), over.Amount())
	}
}

func TestParseCells(t *testing.T) {
	if ParseIntCell("10.0") != 10 || ParseIntCell(" 7 ") != 7 || ParseIntCell("x") != 0 || ParseIntCell("") != 0 {
		t.Fatalf("unexpected integer parsing")
	}
	if !ParseDecimalCell("250.5").Equal(decimal.RequireFromString("250.5")) {
		t.Fatalf("unexpected decimal parsing")
	}
	if !ParseDecimalCell("nan").IsZero() {
		t.Fatalf("non-numeric cell must read as zero")
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "KES 0.00"},
		{"350.5", "KES 350.50"},
		{"1234567.891", "KES 1,234,567.89"},
		{"-12", "KES -12.00"},
		{"-0.5", "KES -0.50"},
		{"-0.001", "KES 0.00"},
		{"999.995", "KES 1,000.00"},
		{"12345678901234567.89", "KES 12,345,678,901,234,567.89"},
	}
	for _, tc := range cases {
		got := FormatCurrency("KES", decimal.RequireFromString(tc.in))
		if got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.in, tc.want, got)
		}
	}
	if got := FormatCurrency("", decimal.NewFromInt(1)); got != "KES 1.00" {
		t.Fatalf("blank code should default, got %q", got)
	}
}

func TestParseProfitFormula(t *testing.T) {
	if f, err := ParseProfitFormula(""); err != nil || f != ProfitFromSales {
		t.Fatalf("blank should mean sales, got %q err=%v", f, err)
	}
	if f, err := ParseProfitFormula("CASH"); err != nil || f != ProfitFromCash {
		t.Fatalf("unexpected formula %q err=%v", f, err)
	}
	if _, err := ParseProfitFormula("net"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in   string
		want CommandType
		args []string
	}{
		{"summary", CommandSummary, nil},
		{"  /Report 2024-01-01 ", CommandSummary, []string{"2024-01-01"}},
		{"DATES", CommandDates, nil},
		{"/start", CommandHelp, nil},
		{"eggs 10", CommandUnknown, []string{"10"}},
		{"   ", CommandUnknown, nil},
	}
	for _, tc := range cases {
		cmd := ParseCommand(tc.in)
		if cmd.Type != tc.want || !reflect.DeepEqual(cmd.Args, tc.args) || cmd.Raw != tc.in {
			t.Fatalf("ParseCommand(%q) = %+v", tc.in, cmd)
		}
	}
}
