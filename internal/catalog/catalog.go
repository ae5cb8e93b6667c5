// Package catalog holds the ordered list of sellable items used to seed a
// day's stock table.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mamadbah2/pillars/internal/domain/models"
)

// ErrEmptyCatalog is returned when a catalog file lists no items.
var ErrEmptyCatalog = errors.New("catalog has no items")

// blankRows is the row count of the default accommodation and expense tables.
const blankRows = 10

// defaultItems is the bar's item list. Order and duplicates are kept as-is.
var defaultItems = []string{
	"TUSKER", "PILISNER", "TUSKER MALT", "TUSKER LITE", "GUINESS KUBWA",
	"GUINESS SMALL", "BALOZICAN", "WHITE CAP", "BALOZI", "SMIRNOFF ICE",
	"SAVANNAH", "SNAPP", "TUSKER CIDER", "KINGFISHER", "ALLSOPPS",
	"G.K CAN", "T.LITE CAN", "GUARANA", "REDBULL", "RICHOT ½",
	"RICHOT ¼", "VICEROY ½", "VICEROY ¼", "VODKA½", "VODKA¼",
	"KENYACANE ¾", "KENYACANE ½", "KENYACANE ¼", "GILBEYS ½", "GILBEYS ¼",
	"V&A 750ml", "CHROME", "TRIPLE ACE", "BLACK AND WHITE", "KIBAO½",
	"KIBAO¼", "HUNTERS ½", "HUNTERS ¼", "CAPTAIN MORGAN", "KONYAGI",
	"V&A", "COUNTY", "BEST 750ml", "WATER 1L", "WATER½",
	"LEMONADE", "CAPRICE", "FAXE", "C.MORGAN", "VAT 69",
	"SODA300ML", "SODA500ML", "BLACK AND WHITE", "BEST", "CHROME 750ml",
	"MANGO", "TRUST", "PUNCH", "VODKA 750ml", "KONYAGI 500ml",
	"GILBEYS 750ml",
}

// Catalog is an immutable ordered item list.
type Catalog struct {
	items []string
}

type catalogFile struct {
	Items []string `yaml:"items"`
}

// Default returns the built-in item list.
func Default() *Catalog {
	return &Catalog{items: append([]string(nil), defaultItems...)}
}

// New builds a catalog from items, trimming whitespace and skipping blanks.
func New(items []string) (*Catalog, error) {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil, ErrEmptyCatalog
	}
	return &Catalog{items: out}, nil
}

// Load reads a YAML document of the form "items: [...]". An empty path
// returns the built-in list.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	c, err := New(file.Items)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Items returns a copy of the item names in order.
func (c *Catalog) Items() []string {
	return append([]string(nil), c.items...)
}

// Len is the number of items.
func (c *Catalog) Len() int {
	return len(c.items)
}

// DefaultTable returns the table shown for a section with nothing stored
// yet: one zeroed row per item for stock, ten blank rows otherwise.
func (c *Catalog) DefaultTable(section models.Section) (models.Table, error) {
	schema, err := models.SchemaFor(section)
	if err != nil {
		return models.Table{}, err
	}

	table := models.NewTable(schema.ColumnNames()...)
	if section == models.SectionStock {
		for _, item := range c.items {
			row := schema.DefaultRow()
			row[0] = item
			table.AppendRow(row...)
		}
		return table, nil
	}

	for i := 0; i < blankRows; i++ {
		table.AppendRow(schema.DefaultRow()...)
	}
	return table, nil
}
