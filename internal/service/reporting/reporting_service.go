package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/pillars/internal/domain/models"
	"github.com/mamadbah2/pillars/internal/service/derive"
)

// ErrNoSinks is returned by Publish when no destination is configured.
var ErrNoSinks = errors.New("no report sinks configured")

// Days is the read side of the bookkeeping service used to assemble a report.
type Days interface {
	StoredSection(ctx context.Context, date models.DateKey, section models.Section) (models.Table, error)
	LoadMoney(ctx context.Context, date models.DateKey, key models.MoneyKey) (decimal.Decimal, error)
}

// Sink receives a published daily summary.
type Sink interface {
	Name() string
	Publish(ctx context.Context, summary models.DailySummary, text string) error
}

// Archive looks up the summary last published for a day.
type Archive interface {
	FindDailySummary(ctx context.Context, date models.DateKey) (models.DailySummary, bool, error)
}

// Options tunes how figures are computed and displayed.
type Options struct {
	Formula  models.ProfitFormula
	Currency string
	// Archive, when set, answers LastPublished.
	Archive Archive
}

// Service builds daily reports and ships them to the configured sinks.
type Service struct {
	days   Days
	opts   Options
	sinks  []Sink
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(days Days, opts Options, logger *zap.Logger, sinks ...Sink) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Formula == "" {
		opts.Formula = models.ProfitFromSales
	}
	if opts.Currency == "" {
		opts.Currency = models.DefaultCurrency
	}
	return &Service{days: days, opts: opts, sinks: sinks, logger: logger, now: time.Now}
}

// Currency is the code used when formatting amounts.
func (s *Service) Currency() string {
	return s.opts.Currency
}

// SinkNames lists the configured destinations.
func (s *Service) SinkNames() []string {
	names := make([]string, len(s.sinks))
	for i, sink := range s.sinks {
		names[i] = sink.Name()
	}
	return names
}

// LastPublished returns the archived summary of a day. ok is false when the
// day was never archived or no archive is configured.
func (s *Service) LastPublished(ctx context.Context, date models.DateKey) (models.DailySummary, bool, error) {
	if s.opts.Archive == nil {
		return models.DailySummary{}, false, nil
	}
	summary, ok, err := s.opts.Archive.FindDailySummary(ctx, date)
	if err != nil {
		return models.DailySummary{}, false, fmt.Errorf("look up published %s: %w", date, err)
	}
	return summary, ok, nil
}

// BuildDailyReport assembles the report of a saved day. Absent sections are
// empty and absent money values are zero.
func (s *Service) BuildDailyReport(ctx context.Context, date models.DateKey) (models.DailyReport, error) {
	tables := make(map[models.Section]models.Table, 3)
	for _, section := range models.Sections() {
		table, err := s.days.StoredSection(ctx, date, section)
		if err != nil {
			return models.DailyReport{}, fmt.Errorf("load %s: %w", section, err)
		}
		tables[section] = table
	}

	paid, err := s.days.LoadMoney(ctx, date, models.MoneyPaid)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("load %s: %w", models.MoneyPaid, err)
	}
	invested, err := s.days.LoadMoney(ctx, date, models.MoneyInvested)
	if err != nil {
		return models.DailyReport{}, fmt.Errorf("load %s: %w", models.MoneyInvested, err)
	}

	return s.BuildFromTables(date,
		tables[models.SectionStock],
		tables[models.SectionAccommodation],
		tables[models.SectionExpenses],
		paid, invested,
	), nil
}

// BuildFromTables computes a report from in-memory tables, saved or not.
func (s *Service) BuildFromTables(date models.DateKey, stock, accommodation, expenses models.Table, paid, invested decimal.Decimal) models.DailyReport {
	stock = derive.ComputeStockDerived(stock)
	sales := derive.ComputeStockTotal(stock)
	totalExpenses := derive.ComputeExpenseTotal(expenses)

	return models.DailyReport{
		Date:          date,
		Stock:         stock,
		Accommodation: accommodation,
		Expenses:      expenses,
		MoneyPaid:     paid,
		MoneyInvested: invested,
		SalesAmount:   sales,
		TotalExpenses: totalExpenses,
		Rooms:         derive.ComputeAccommodationTotals(accommodation),
		Profit:        derive.Profit(s.opts.Formula, sales, totalExpenses, paid, invested),
		ProfitFormula: s.opts.Formula,
	}
}

// SummaryLines renders the report figures, one line each.
func (s *Service) SummaryLines(report models.DailyReport) []string {
	money := func(d decimal.Decimal) string { return models.FormatCurrency(s.opts.Currency, d) }
	return []string{
		fmt.Sprintf("Total Sales Amount: %s", money(report.SalesAmount)),
		fmt.Sprintf("Total Expenses: %s", money(report.TotalExpenses)),
		fmt.Sprintf("%s: %s", models.MoneyPaid.Label(), money(report.MoneyPaid)),
		fmt.Sprintf("%s: %s", models.MoneyInvested.Label(), money(report.MoneyInvested)),
		fmt.Sprintf("Total 1st Floor Rooms Used: %d", report.Rooms.FirstFloorRooms),
		fmt.Sprintf("Total Ground Floor Rooms Used: %d", report.Rooms.GroundFloorRooms),
		fmt.Sprintf("Total Money Lendered: %s", money(report.Rooms.MoneyLendered)),
		fmt.Sprintf("Profit: %s", money(report.Profit)),
	}
}

// Summary is the plain-text message sent to sinks.
func (s *Service) Summary(report models.DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Daily Report - %s\n", report.Date)
	b.WriteString(strings.Join(s.SummaryLines(report), "\n"))
	return b.String()
}

// Publish sends the report to every sink concurrently. The first failure
// cancels the others and is returned.
func (s *Service) Publish(ctx context.Context, report models.DailyReport) error {
	if len(s.sinks) == 0 {
		return ErrNoSinks
	}

	summary := report.Summary(s.now().UTC())
	text := s.Summary(report)

	g, gctx := errgroup.WithContext(ctx)
	for _, sink := range s.sinks {
		sink := sink
		g.Go(func() error {
			if err := sink.Publish(gctx, summary, text); err != nil {
				s.logger.Error("publish daily summary failed",
					zap.String("sink", sink.Name()),
					zap.String("date", report.Date.String()),
					zap.Error(err),
				)
				return fmt.Errorf("%s: %w", sink.Name(), err)
			}
			s.logger.Info("daily summary published", zap.String("sink", sink.Name()), zap.String("date", report.Date.String()))
			return nil
		})
	}
	return g.Wait()
}

// PublishDay builds and publishes the report of a saved day.
func (s *Service) PublishDay(ctx context.Context, date models.DateKey) (models.DailyReport, error) {
	report, err := s.BuildDailyReport(ctx, date)
	if err != nil {
		return models.DailyReport{}, err
	}
	if err := s.Publish(ctx, report); err != nil {
		return report, err
	}
	return report, nil
}
