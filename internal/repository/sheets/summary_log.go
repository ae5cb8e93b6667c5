package sheets

import (
	"context"
	"fmt"
	"sync"

	"github.com/mamadbah2/pillars/internal/domain/models"
)

const defaultSummaryRange = "Summary!A:F"

var summaryHeader = []interface{}{"Date", "Sales Amount", "Expenses", "Money Paid", "Money Invested", "Profit"}

// SummaryLog appends one row per published day to a spreadsheet range:
// date, sales, expenses, money paid, money invested, profit. The header row is
// written with the first row when the range is still blank.
type SummaryLog struct {
	repo       Repository
	sheetRange string

	mu         sync.Mutex
	headerSeen bool
}

// NewSummaryLog wraps a repository. An empty range falls back to Summary!A:F.
func NewSummaryLog(repo Repository, sheetRange string) *SummaryLog {
	if sheetRange == "" {
		sheetRange = defaultSummaryRange
	}
	return &SummaryLog{repo: repo, sheetRange: sheetRange}
}

// AppendSummaryRow writes the summary as a new row. Appends are serialized
// so concurrent publishes cannot both add a header.
func (l *SummaryLog) AppendSummaryRow(ctx context.Context, summary models.DailySummary) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	rows := [][]interface{}{summaryRow(summary)}
	if !l.headerSeen {
		present, err := l.repo.HasHeader(ctx, l.sheetRange)
		if err != nil {
			return fmt.Errorf("check summary header: %w", err)
		}
		if !present {
			rows = append([][]interface{}{summaryHeader}, rows...)
		}
	}

	if err := l.repo.AppendRows(ctx, l.sheetRange, rows...); err != nil {
		return fmt.Errorf("append summary %s: %w", summary.DateKey, err)
	}
	l.headerSeen = true
	return nil
}

func summaryRow(summary models.DailySummary) []interface{} {
	return []interface{}{
		summary.DateKey,
		summary.SalesAmount,
		summary.Expenses,
		summary.MoneyPaid,
		summary.MoneyInvested,
		summary.Profit,
	}
}

// Name identifies the log among report sinks.
func (l *SummaryLog) Name() string { return "sheets" }

// Publish appends the summary row. The text form is not logged.
func (l *SummaryLog) Publish(ctx context.Context, summary models.DailySummary, _ string) error {
	return l.AppendSummaryRow(ctx, summary)
}
