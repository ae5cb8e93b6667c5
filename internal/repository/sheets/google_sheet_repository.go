package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/pillars/internal/config"
)

// Repository is the spreadsheet surface the summary log needs.
type Repository interface {
	// HasHeader reports whether the first row of the range holds any value.
	HasHeader(ctx context.Context, sheetRange string) (bool, error)
	// AppendRows adds rows below the last filled row of the range, in order.
	AppendRows(ctx context.Context, sheetRange string, rows ...[]interface{}) error
}

// GoogleSheetRepository implements Repository with the Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository authenticates with the service account file in cfg.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	service, err := sheetsapi.NewService(ctx, option.WithCredentialsFile(cfg.CredentialsPath), option.WithScopes(sheetsapi.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// HasHeader reads only the first row of the range.
func (r *GoogleSheetRepository) HasHeader(ctx context.Context, sheetRange string) (bool, error) {
	if sheetRange == "" {
		return false, errors.New("sheetRange must not be empty")
	}
	first := headerRange(sheetRange)

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, first).
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return false, fmt.Errorf("read header %s: %w", first, err)
	}
	return rowsHaveValue(resp.Values), nil
}

// AppendRows writes the values as given. RAW input keeps date keys as text
// instead of letting the sheet reinterpret them.
func (r *GoogleSheetRepository) AppendRows(ctx context.Context, sheetRange string, rows ...[]interface{}) error {
	if sheetRange == "" {
		return errors.New("sheetRange must not be empty")
	}
	if len(rows) == 0 {
		return nil
	}

	payload := &sheetsapi.ValueRange{MajorDimension: "ROWS", Values: rows}
	resp, err := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("append %d rows into range %s: %w", len(rows), sheetRange, err)
	}

	fields := []zap.Field{zap.String("range", sheetRange), zap.Int("rows", len(rows))}
	if resp.Updates != nil {
		fields = append(fields, zap.String("updated_range", resp.Updates.UpdatedRange))
	}
	r.logger.Debug("rows appended to sheet", fields...)
	return nil
}

func rowsHaveValue(rows [][]interface{}) bool {
	for _, row := range rows {
		for _, v := range row {
			if strings.TrimSpace(fmt.Sprint(v)) != "" {
				return true
			}
		}
	}
	return false
}

// headerRange turns a column range such as "Summary!A:F" into its first row,
// "Summary!A1:F1". Ranges that already carry row numbers are returned as-is.
func headerRange(sheetRange string) string {
	sheet, cols := "", sheetRange
	if idx := strings.LastIndex(sheetRange, "!"); idx >= 0 {
		sheet, cols = sheetRange[:idx+1], sheetRange[idx+1:]
	}
	from, to, ok := strings.Cut(cols, ":")
	if !ok || strings.ContainsAny(cols, "0123456789") {
		return sheetRange
	}
	return sheet + from + "1:" + to + "1"
}
