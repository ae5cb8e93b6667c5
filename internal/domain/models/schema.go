package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Column names shared by the stored CSV files and the exports.
const (
	ColItem          = "Item"
	ColOpeningStock  = "Opening Stock"
	ColPurchases     = "Purchases"
	ColClosingStock  = "Closing Stock"
	ColSellingPrice  = "Selling Price"
	ColSales         = "Sales"
	ColAmount        = "Amount"
	ColRoomNumber    = "Room Number"
	ColFirstFloor    = "1st Floor Rooms"
	ColGroundFloor   = "Ground Floor Rooms"
	ColMoneyLendered = "Money Lendered"
	ColPaymentMethod = "Payment Method"
	ColDescription   = "Description"
)

// ErrInvalidCell indicates a numeric cell that is negative or not a number.
var ErrInvalidCell = errors.New("invalid cell")

// ColumnKind drives validation and default cells.
type ColumnKind int

const (
	KindText ColumnKind = iota
	KindInteger
	KindDecimal
)

// SchemaColumn describes one column of a section.
type SchemaColumn struct {
	Name    string
	Kind    ColumnKind
	Default string
}

// Schema is the versioned column layout of a section.
type Schema struct {
	Section Section
	Version int
	Columns []SchemaColumn
	// Derived columns are computed for display and never stored.
	Derived []string
}

var schemas = map[Section]Schema{
	SectionStock: {
		Section: SectionStock,
		Version: 1,
		Columns: []SchemaColumn{
			{Name: ColItem, Kind: KindText},
			{Name: ColOpeningStock, Kind: KindInteger, Default: "0"},
			{Name: ColPurchases, Kind: KindInteger, Default: "0"},
			{Name: ColClosingStock, Kind: KindInteger, Default: "0"},
			{Name: ColSellingPrice, Kind: KindDecimal, Default: "0.0"},
		},
		Derived: []string{ColSales, ColAmount},
	},
	SectionAccommodation: {
		Section: SectionAccommodation,
		Version: 1,
		Columns: []SchemaColumn{
			{Name: ColRoomNumber, Kind: KindText},
			{Name: ColFirstFloor, Kind: KindText},
			{Name: ColGroundFloor, Kind: KindText},
			{Name: ColMoneyLendered, Kind: KindDecimal, Default: "0.0"},
			{Name: ColPaymentMethod, Kind: KindText},
		},
	},
	SectionExpenses: {
		Section: SectionExpenses,
		Version: 1,
		Columns: []SchemaColumn{
			{Name: ColDescription, Kind: KindText},
			{Name: ColAmount, Kind: KindDecimal, Default: "0.0"},
		},
	},
}

// SchemaFor returns the current schema of a section.
func SchemaFor(section Section) (Schema, error) {
	s, ok := schemas[section]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}
	return s, nil
}

// ColumnNames lists the stored columns in order.
func (s Schema) ColumnNames() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Name
	}
	return out
}

// DefaultRow returns one row of default cells.
func (s Schema) DefaultRow() []string {
	out := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		out[i] = c.Default
	}
	return out
}

// Normalize upgrades a table loaded from an older layout: schema columns it
// lacks are appended with their default cell, extra columns stay where they
// are. The bool reports whether anything was added. Empty tables are returned
// untouched.
func (s Schema) Normalize(t Table) (Table, bool) {
	if t.IsEmpty() {
		return t, false
	}
	out := t.Rectangular()
	upgraded := false
	for _, col := range s.Columns {
		if out.Index(col.Name) >= 0 {
			continue
		}
		values := make([]string, len(out.Rows))
		for i := range values {
			values[i] = col.Default
		}
		out = out.WithColumn(col.Name, values)
		upgraded = true
	}
	return out, upgraded
}

// Validate checks numeric columns: blank cells pass, anything else must be a
// non-negative number (whole for integer columns).
func (s Schema) Validate(t Table) error {
	if err := t.CheckShape(); err != nil {
		return err
	}
	for _, col := range s.Columns {
		if col.Kind == KindText {
			continue
		}
		for i, raw := range t.Column(col.Name) {
			value := strings.TrimSpace(raw)
			if value == "" {
				continue
			}
			d, err := decimal.NewFromString(value)
			if err != nil {
				return fmt.Errorf("%w: row %d %q: %q is not a number", ErrInvalidCell, i+1, col.Name, raw)
			}
			if d.IsNegative() {
				return fmt.Errorf("%w: row %d %q: %q is negative", ErrInvalidCell, i+1, col.Name, raw)
			}
			if col.Kind == KindInteger && !d.Equal(d.Truncate(0)) {
				return fmt.Errorf("%w: row %d %q: %q is not a whole number", ErrInvalidCell, i+1, col.Name, raw)
			}
		}
	}
	return nil
}

// ParseDecimalCell returns the value of a cell, zero when blank or not numeric.
func ParseDecimalCell(raw string) decimal.Decimal {
	value := strings.TrimSpace(raw)
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ParseIntCell returns the whole value of a cell, zero when blank or not
// numeric. Cells written as "10.0" by older tooling are accepted.
func ParseIntCell(raw string) int64 {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0
	}
	if v, err := strconv.ParseInt(value, 10, 64); err == nil {
		return v
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return 0
	}
	return d.IntPart()
}
