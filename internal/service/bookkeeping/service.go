// Package bookkeeping is the presentation-facing layer over the record store:
// it fills in defaults, upgrades older table layouts and validates what the
// form submits before it reaches disk.
package bookkeeping

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/pillars/internal/catalog"
	"github.com/mamadbah2/pillars/internal/domain/models"
	"github.com/mamadbah2/pillars/internal/service/derive"
	"github.com/mamadbah2/pillars/internal/tabular"
)

// ErrInvalidInput reports pasted or submitted data that cannot be used. It is
// recoverable: the caller shows it and keeps the previous table.
var ErrInvalidInput = errors.New("invalid input")

// Store is the persistence contract the service relies on.
type Store interface {
	Load(ctx context.Context, date models.DateKey, section models.Section, def models.Table) (models.Table, error)
	Save(ctx context.Context, date models.DateKey, section models.Section, table models.Table) error
	LoadMoney(ctx context.Context, date models.DateKey, key models.MoneyKey) (decimal.Decimal, error)
	SaveMoney(ctx context.Context, date models.DateKey, key models.MoneyKey, value decimal.Decimal) error
	ListKnownDates(ctx context.Context) ([]models.DateKey, error)
	Records(ctx context.Context, date models.DateKey) ([]models.RecordKey, error)
}

// Service coordinates the store, the item catalog and the section schemas.
type Service struct {
	store   Store
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewService wires a bookkeeping service. A nil catalog means the built-in one.
func NewService(store Store, cat *catalog.Catalog, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cat == nil {
		cat = catalog.Default()
	}
	return &Service{store: store, catalog: cat, logger: logger}
}

// Catalog returns the item catalog used for stock defaults.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// LoadSection returns the table to edit for a day: the stored one upgraded
// to the current layout, or the default table when nothing usable is stored.
// Stock tables carry freshly computed Sales and Amount columns.
func (s *Service) LoadSection(ctx context.Context, date models.DateKey, section models.Section) (models.Table, error) {
	def, err := s.catalog.DefaultTable(section)
	if err != nil {
		return models.Table{}, err
	}
	table, err := s.load(ctx, date, section, def)
	if err != nil {
		return models.Table{}, err
	}
	if section == models.SectionStock {
		table = derive.ComputeStockDerived(table)
	}
	return table, nil
}

// StoredSection returns what is stored for a day, upgraded to the current
// layout, or an empty table. Reports and past-day exports read through it.
func (s *Service) StoredSection(ctx context.Context, date models.DateKey, section models.Section) (models.Table, error) {
	return s.load(ctx, date, section, models.Table{})
}

func (s *Service) load(ctx context.Context, date models.DateKey, section models.Section, def models.Table) (models.Table, error) {
	schema, err := models.SchemaFor(section)
	if err != nil {
		return models.Table{}, err
	}
	table, err := s.store.Load(ctx, date, section, def)
	if err != nil {
		return models.Table{}, fmt.Errorf("load %s for %s: %w", section, date, err)
	}

	table, upgraded := schema.Normalize(table)
	if upgraded {
		s.logger.Debug("section upgraded to current layout",
			zap.String("date", date.String()),
			zap.String("section", string(section)),
			zap.Int("version", schema.Version),
		)
	}
	return table, nil
}

// SaveSection validates the table against the section schema and persists
// it. Derived stock columns are dropped first, they are recomputed on load.
// Line breaks inside cells are stored as "\n".
func (s *Service) SaveSection(ctx context.Context, date models.DateKey, section models.Section, table models.Table) error {
	schema, err := models.SchemaFor(section)
	if err != nil {
		return err
	}
	if table.IsEmpty() {
		return fmt.Errorf("%w: %s table has no columns", ErrInvalidInput, section)
	}
	if err := table.CheckShape(); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidInput, section, err)
	}
	table = normalizeLineBreaks(table)
	if len(schema.Derived) > 0 {
		table = table.WithoutColumns(schema.Derived...)
	}
	if err := schema.Validate(table); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidInput, section, err)
	}

	if err := s.store.Save(ctx, date, section, table); err != nil {
		return fmt.Errorf("save %s for %s: %w", section, date, err)
	}
	s.logger.Info("section saved",
		zap.String("date", date.String()),
		zap.String("section", string(section)),
		zap.Int("rows", len(table.Rows)),
	)
	return nil
}

// ImportSection parses pasted CSV text into a table for the given section.
// Nothing is saved; the caller decides what to do with the result.
func (s *Service) ImportSection(section models.Section, text string) (models.Table, error) {
	schema, err := models.SchemaFor(section)
	if err != nil {
		return models.Table{}, err
	}
	table, err := tabular.Decode(strings.NewReader(text))
	if err != nil {
		return models.Table{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	table, _ = schema.Normalize(table)
	if section == models.SectionStock {
		table = derive.ComputeStockDerived(table)
	}
	return table, nil
}

// LoadMoney returns the stored value, zero when absent.
func (s *Service) LoadMoney(ctx context.Context, date models.DateKey, key models.MoneyKey) (decimal.Decimal, error) {
	value, err := s.store.LoadMoney(ctx, date, key)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load %s for %s: %w", key, date, err)
	}
	return value, nil
}

// SaveMoney rejects negative values and persists the rest.
func (s *Service) SaveMoney(ctx context.Context, date models.DateKey, key models.MoneyKey, value decimal.Decimal) error {
	if err := models.ValidateAmount(value); err != nil {
		return err
	}
	if err := s.store.SaveMoney(ctx, date, key, value); err != nil {
		return fmt.Errorf("save %s for %s: %w", key, date, err)
	}
	s.logger.Info("money saved", zap.String("date", date.String()), zap.String("key", string(key)), zap.String("value", value.String()))
	return nil
}

// KnownDates lists the days with stored records, most recent first.
func (s *Service) KnownDates(ctx context.Context) ([]models.DateKey, error) {
	return s.store.ListKnownDates(ctx)
}

// Records lists which sections and money values a day has stored.
func (s *Service) Records(ctx context.Context, date models.DateKey) ([]models.RecordKey, error) {
	return s.store.Records(ctx, date)
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func normalizeLineBreaks(t models.Table) models.Table {
	out := t.Clone()
	for i, col := range out.Columns {
		out.Columns[i] = lineBreaks.Replace(col)
	}
	for _, row := range out.Rows {
		for i, cell := range row {
			row[i] = lineBreaks.Replace(cell)
		}
	}
	return out
}
