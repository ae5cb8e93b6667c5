package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/pillars/internal/domain/models"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "nested", "data"), nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func mustWrite(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func sampleStock() models.Table {
	tbl := models.NewTable(models.ColItem, models.ColOpeningStock, models.ColPurchases, models.ColClosingStock, models.ColSellingPrice)
	tbl.AppendRow("TUSKER", "10", "5", "3", "50.0")
	tbl.AppendRow("RICHOT ½", "2", "0", "1", "450")
	return tbl
}

func TestNewCreatesRoot(t *testing.T) {
	s := newStore(t)
	info, err := os.Stat(s.Root())
	if err != nil || !info.IsDir() {
		t.Fatalf("expected root dir, err=%v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	singleColumn := models.NewTable("Note")
	singleColumn.AppendRow("a")
	singleColumn.AppendRow("")
	singleColumn.AppendRow("b")

	multiline := models.NewTable(models.ColDescription, models.ColAmount)
	multiline.AppendRow("line1\nline2", "10")
	multiline.AppendRow(`Quoted "ice", 2 bags`, "")

	blankHeader := models.NewTable("")
	blankHeader.AppendRow("")

	tables := map[models.Section]models.Table{
		models.SectionStock:         sampleStock(),
		models.SectionAccommodation: singleColumn,
		models.SectionExpenses:      multiline,
	}
	for section, tbl := range tables {
		if err := s.Save(ctx, "2024-01-01", section, tbl); err != nil {
			t.Fatalf("save %s: %v", section, err)
		}
		got, err := s.Load(ctx, "2024-01-01", section, models.Table{})
		if err != nil {
			t.Fatalf("load %s: %v", section, err)
		}
		if !reflect.DeepEqual(got, tbl) {
			t.Fatalf("%s round trip mismatch:\nwant %#v\ngot  %#v", section, tbl, got)
		}
	}

	if err := s.Save(ctx, "2024-01-02", models.SectionStock, blankHeader); err != nil {
		t.Fatalf("save blank header: %v", err)
	}
	if got, _ := s.Load(ctx, "2024-01-02", models.SectionStock, models.Table{}); !reflect.DeepEqual(got, blankHeader) {
		t.Fatalf("blank header round trip mismatch: %#v", got)
	}

	if _, err := os.Stat(filepath.Join(s.Root(), "stock_2024-01-01.csv")); err != nil {
		t.Fatalf("expected file at deterministic path: %v", err)
	}
}

func TestSaveRejectsCarriageReturn(t *testing.T) {
	s := newStore(t)
	tbl := models.NewTable(models.ColDescription)
	tbl.AppendRow("line1\r\nline2")
	if err := s.Save(context.Background(), "2024-01-01", models.SectionExpenses, tbl); !errors.Is(err, models.ErrInvalidCell) {
		t.Fatalf("expected ErrInvalidCell, got %v", err)
	}
	if _, err := os.Stat(s.SectionPath("2024-01-01", models.SectionExpenses)); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("rejected table must not be written, stat err=%v", err)
	}
}

func TestWriteLeavesNoTemporaryFiles(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	if err := s.Save(ctx, "2024-01-01", models.SectionStock, sampleStock()); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveMoney(ctx, "2024-01-01", models.MoneyPaid, decimal.NewFromInt(5)); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(s.Root())
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if !reflect.DeepEqual(names, []string{"money_paid_2024-01-01.txt", "stock_2024-01-01.csv"}) {
		t.Fatalf("unexpected directory content %v", names)
	}
	info, err := os.Stat(s.SectionPath("2024-01-01", models.SectionStock))
	if err != nil || info.Mode().Perm() != 0o644 {
		t.Fatalf("unexpected file mode %v, err=%v", info, err)
	}
}

func TestSaveTwiceIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	tbl := sampleStock()

	if err := s.Save(ctx, "2024-01-01", models.SectionStock, tbl); err != nil {
		t.Fatal(err)
	}
	once, _ := s.Load(ctx, "2024-01-01", models.SectionStock, models.Table{})
	if err := s.Save(ctx, "2024-01-01", models.SectionStock, tbl); err != nil {
		t.Fatal(err)
	}
	twice, _ := s.Load(ctx, "2024-01-01", models.SectionStock, models.Table{})
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("second save changed the result")
	}
}

func TestSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	if err := s.Save(ctx, "2024-01-01", models.SectionExpenses, sampleStock()); err != nil {
		t.Fatal(err)
	}
	smaller := models.NewTable(models.ColDescription, models.ColAmount)
	smaller.AppendRow("Ice", "20")
	if err := s.Save(ctx, "2024-01-01", models.SectionExpenses, smaller); err != nil {
		t.Fatal(err)
	}
	got, _ := s.Load(ctx, "2024-01-01", models.SectionExpenses, models.Table{})
	if !reflect.DeepEqual(got, smaller) {
		t.Fatalf("expected overwrite, got %#v", got)
	}
}

func TestLoadFallsBackToDefault(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	def := models.NewTable("Description", "Amount")
	def.AppendRow("", "0.0")

	mustWrite(t, s.Root(), "expenses_2024-01-02.csv", "")
	mustWrite(t, s.Root(), "expenses_2024-01-03.csv", "\n\n")
	mustWrite(t, s.Root(), "expenses_2024-01-04.csv", "A,B\n1,2,3\n")

	for name, date := range map[string]models.DateKey{
		"missing":   "2024-01-01",
		"empty":     "2024-01-02",
		"blank":     "2024-01-03",
		"malformed": "2024-01-04",
	} {
		got, err := s.Load(ctx, date, models.SectionExpenses, def)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", name, err)
		}
		if !reflect.DeepEqual(got, def) {
			t.Fatalf("%s: expected default, got %#v", name, got)
		}
	}
}

func TestLoadPropagatesReadErrors(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	// A directory in place of the file cannot be read as one.
	if err := os.Mkdir(s.SectionPath("2024-01-01", models.SectionStock), 0o755); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Load(ctx, "2024-01-01", models.SectionStock, models.Table{}); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestMoneyRoundTripAndDefaults(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	got, err := s.LoadMoney(ctx, "2024-01-01", models.MoneyPaid)
	if err != nil || !got.IsZero() {
		t.Fatalf("expected zero for missing value, got %s err=%v", got, err)
	}

	for _, v := range []string{"0", "1500", "1234.56", "0.1"} {
		value := decimal.RequireFromString(v)
		if err := s.SaveMoney(ctx, "2024-01-01", models.MoneyPaid, value); err != nil {
			t.Fatalf("save %s: %v", v, err)
		}
		got, err := s.LoadMoney(ctx, "2024-01-01", models.MoneyPaid)
		if err != nil || !got.Equal(value) {
			t.Fatalf("expected %s, got %s err=%v", value, got, err)
		}
	}

	mustWrite(t, s.Root(), "money_invested_2024-01-01.txt", "not a number")
	got, err = s.LoadMoney(ctx, "2024-01-01", models.MoneyInvested)
	if err != nil || !got.IsZero() {
		t.Fatalf("expected zero for unparsable value, got %s err=%v", got, err)
	}

	mustWrite(t, s.Root(), "money_invested_2024-01-02.txt", "2500.0")
	got, _ = s.LoadMoney(ctx, "2024-01-02", models.MoneyInvested)
	if !got.Equal(decimal.NewFromInt(2500)) {
		t.Fatalf("expected legacy float text to parse, got %s", got)
	}
}

func TestListKnownDates(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	mustWrite(t, s.Root(), "stock_2024-01-01.csv", "Item\nTUSKER\n")
	mustWrite(t, s.Root(), "expenses_2024-01-02.csv", "Description,Amount\n")
	mustWrite(t, s.Root(), "money_paid_2024-01-01.txt", "10")
	mustWrite(t, s.Root(), "notes.md", "ignored")
	mustWrite(t, s.Root(), "stock_latest.csv", "ignored")

	got, err := s.ListKnownDates(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []models.DateKey{"2024-01-02", "2024-01-01"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	records, _ := s.Records(ctx, "2024-01-01")
	wantRecords := map[models.RecordKey]bool{
		{Name: "stock", Kind: models.KindTable}:      true,
		{Name: "money_paid", Kind: models.KindMoney}: true,
	}
	if len(records) != 2 || !wantRecords[records[0]] || !wantRecords[records[1]] {
		t.Fatalf("unexpected records %v", records)
	}
}

func TestListKnownDatesSeesNewSaves(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	if dates, _ := s.ListKnownDates(ctx); len(dates) != 0 {
		t.Fatalf("expected no dates, got %v", dates)
	}
	if err := s.SaveMoney(ctx, "2024-03-05", models.MoneyInvested, decimal.NewFromInt(1)); err != nil {
		t.Fatal(err)
	}
	dates, _ := s.ListKnownDates(ctx)
	if !reflect.DeepEqual(dates, []models.DateKey{"2024-03-05"}) {
		t.Fatalf("cached manifest not invalidated: %v", dates)
	}
}

func TestManifestSkipsCacheWhenWriteOverlapsScan(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	if err := s.SaveMoney(ctx, "2024-01-01", models.MoneyPaid, decimal.NewFromInt(1)); err != nil {
		t.Fatal(err)
	}

	var once sync.Once
	s.afterScan = func() {
		once.Do(func() {
			if err := s.SaveMoney(ctx, "2024-01-02", models.MoneyPaid, decimal.NewFromInt(2)); err != nil {
				t.Errorf("save during scan: %v", err)
			}
		})
	}

	if _, err := s.ListKnownDates(ctx); err != nil {
		t.Fatal(err)
	}
	dates, err := s.ListKnownDates(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(dates, []models.DateKey{"2024-01-02", "2024-01-01"}) {
		t.Fatalf("write during the first scan was lost: %v", dates)
	}
}

func TestManifestSeesFilesFromOtherWriters(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	if _, err := s.ListKnownDates(ctx); err != nil {
		t.Fatal(err)
	}

	mustWrite(t, s.Root(), "expenses_2024-03-05.csv", "Description,Amount\nIce,10\n")
	// Coarse filesystem clocks may leave the mtime unchanged within a tick.
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(s.Root(), later, later); err != nil {
		t.Fatal(err)
	}

	dates, err := s.ListKnownDates(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(dates, []models.DateKey{"2024-03-05"}) {
		t.Fatalf("expected externally written day, got %v", dates)
	}
}

func TestConcurrentSavesSameDate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	tbl := sampleStock()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Save(ctx, "2024-01-01", models.SectionStock, tbl); err != nil {
				t.Errorf("save: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _ := s.Load(ctx, "2024-01-01", models.SectionStock, models.Table{})
	if !reflect.DeepEqual(got, tbl) {
		t.Fatalf("concurrent saves corrupted the file: %#v", got)
	}
}

func TestParseFileName(t *testing.T) {
	cases := []struct {
		name string
		date models.DateKey
		key  models.RecordKey
		ok   bool
	}{
		{"stock_2024-01-01.csv", "2024-01-01", models.RecordKey{Name: "stock", Kind: models.KindTable}, true},
		{"money_paid_2024-01-01.txt", "2024-01-01", models.RecordKey{Name: "money_paid", Kind: models.KindMoney}, true},
		{"_2024-01-01.csv", "", models.RecordKey{}, false},
		{"stock_2024-13-01.csv", "", models.RecordKey{}, false},
		{"stock_2024-01-01.xlsx", "", models.RecordKey{}, false},
		{"stock.csv", "", models.RecordKey{}, false},
	}
	for _, tc := range cases {
		date, key, ok := parseFileName(tc.name)
		if ok != tc.ok || date != tc.date || key != tc.key {
			t.Fatalf("%s: got (%q, %v, %v)", tc.name, date, key, ok)
		}
	}
}
