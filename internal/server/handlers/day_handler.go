package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/pillars/internal/domain/models"
	"github.com/mamadbah2/pillars/internal/service/bookkeeping"
)

// Bookkeeper is the record-keeping surface exposed over HTTP.
type Bookkeeper interface {
	KnownDates(ctx context.Context) ([]models.DateKey, error)
	Records(ctx context.Context, date models.DateKey) ([]models.RecordKey, error)
	LoadSection(ctx context.Context, date models.DateKey, section models.Section) (models.Table, error)
	SaveSection(ctx context.Context, date models.DateKey, section models.Section, table models.Table) error
	ImportSection(section models.Section, text string) (models.Table, error)
	LoadMoney(ctx context.Context, date models.DateKey, key models.MoneyKey) (decimal.Decimal, error)
	SaveMoney(ctx context.Context, date models.DateKey, key models.MoneyKey, value decimal.Decimal) error
}

// Reporter builds, renders and publishes daily reports.
type Reporter interface {
	BuildDailyReport(ctx context.Context, date models.DateKey) (models.DailyReport, error)
	BuildFromTables(date models.DateKey, stock, accommodation, expenses models.Table, paid, invested decimal.Decimal) models.DailyReport
	SummaryLines(report models.DailyReport) []string
	PublishDay(ctx context.Context, date models.DateKey) (models.DailyReport, error)
	LastPublished(ctx context.Context, date models.DateKey) (models.DailySummary, bool, error)
	Currency() string
}

// DayHandler serves the per-date records and their summary.
type DayHandler struct {
	books    Bookkeeper
	reporter Reporter
	logger   *zap.Logger
}

// NewDayHandler constructs the HTTP handler adapter.
func NewDayHandler(books Bookkeeper, reporter Reporter, logger *zap.Logger) *DayHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DayHandler{books: books, reporter: reporter, logger: logger}
}

type moneyRequest struct {
	Value *decimal.Decimal `json:"value" binding:"required"`
}

type moneyResponse struct {
	Date      models.DateKey  `json:"date"`
	Key       models.MoneyKey `json:"key"`
	Label     string          `json:"label"`
	Value     decimal.Decimal `json:"value"`
	Formatted string          `json:"formatted"`
}

type summaryResponse struct {
	Report models.DailyReport `json:"report"`
	Lines  []string           `json:"lines"`
}

// ListDates returns every day with saved records, most recent first.
func (h *DayHandler) ListDates(c *gin.Context) {
	dates, err := h.books.KnownDates(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if dates == nil {
		dates = []models.DateKey{}
	}
	c.JSON(http.StatusOK, gin.H{"dates": dates})
}

// GetDay returns which records a day has, its summary and, when an archive
// is configured, when it was last published.
func (h *DayHandler) GetDay(c *gin.Context) {
	date, ok := h.dateParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	records, err := h.books.Records(ctx, date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	report, err := h.reporter.BuildDailyReport(ctx, date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if records == nil {
		records = []models.RecordKey{}
	}

	// An unreachable archive only drops published_at.
	var publishedAt *time.Time
	if summary, ok, err := h.reporter.LastPublished(ctx, date); err != nil {
		h.logger.Warn("published state unavailable", zap.String("date", date.String()), zap.Error(err))
	} else if ok {
		publishedAt = &summary.CreatedAt
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         date,
		"records":      records,
		"summary":      h.reporter.SummaryLines(report),
		"published_at": publishedAt,
	})
}

// GetSection returns the editable table of a section, defaults included.
func (h *DayHandler) GetSection(c *gin.Context) {
	date, section, ok := h.sectionParams(c)
	if !ok {
		return
	}
	table, err := h.books.LoadSection(c.Request.Context(), date, section)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// PutSection saves the submitted table, replacing what was stored.
func (h *DayHandler) PutSection(c *gin.Context) {
	date, section, ok := h.sectionParams(c)
	if !ok {
		return
	}
	var table models.Table
	if err := c.ShouldBindJSON(&table); err != nil {
		h.logger.Warn("invalid table payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ctx := c.Request.Context()
	if err := h.books.SaveSection(ctx, date, section, table); err != nil {
		respondError(c, h.logger, err)
		return
	}
	saved, err := h.books.LoadSection(ctx, date, section)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// ImportSection parses a pasted CSV body into a table without saving it.
func (h *DayHandler) ImportSection(c *gin.Context) {
	_, section, ok := h.sectionParams(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable request body"})
		return
	}
	table, err := h.books.ImportSection(section, string(body))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// GetMoney returns a money value, zero when never saved.
func (h *DayHandler) GetMoney(c *gin.Context) {
	date, key, ok := h.moneyParams(c)
	if !ok {
		return
	}
	value, err := h.books.LoadMoney(c.Request.Context(), date, key)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.moneyResponse(date, key, value))
}

// PutMoney saves a money value.
func (h *DayHandler) PutMoney(c *gin.Context) {
	date, key, ok := h.moneyParams(c)
	if !ok {
		return
	}
	var req moneyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid money payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if err := h.books.SaveMoney(c.Request.Context(), date, key, *req.Value); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.moneyResponse(date, key, *req.Value))
}

// GetSummary returns the full report of a saved day.
func (h *DayHandler) GetSummary(c *gin.Context) {
	date, ok := h.dateParam(c)
	if !ok {
		return
	}
	report, err := h.reporter.BuildDailyReport(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summaryResponse{Report: report, Lines: h.reporter.SummaryLines(report)})
}

// Publish sends the saved day's summary to the configured sinks.
func (h *DayHandler) Publish(c *gin.Context) {
	date, ok := h.dateParam(c)
	if !ok {
		return
	}
	report, err := h.reporter.PublishDay(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusAccepted, summaryResponse{Report: report, Lines: h.reporter.SummaryLines(report)})
}

func (h *DayHandler) moneyResponse(date models.DateKey, key models.MoneyKey, value decimal.Decimal) moneyResponse {
	return moneyResponse{
		Date:      date,
		Key:       key,
		Label:     key.Label(),
		Value:     value,
		Formatted: models.FormatCurrency(h.reporter.Currency(), value),
	}
}

func (h *DayHandler) dateParam(c *gin.Context) (models.DateKey, bool) {
	date, err := models.ParseDateKey(c.Param("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return "", false
	}
	return date, true
}

func (h *DayHandler) sectionParams(c *gin.Context) (models.DateKey, models.Section, bool) {
	date, ok := h.dateParam(c)
	if !ok {
		return "", "", false
	}
	section, err := models.ParseSection(c.Param("section"))
	if err != nil {
		respondError(c, h.logger, err)
		return "", "", false
	}
	return date, section, true
}

func (h *DayHandler) moneyParams(c *gin.Context) (models.DateKey, models.MoneyKey, bool) {
	date, ok := h.dateParam(c)
	if !ok {
		return "", "", false
	}
	key, err := models.ParseMoneyKey(c.Param("key"))
	if err != nil {
		respondError(c, h.logger, err)
		return "", "", false
	}
	return date, key, true
}

var _ Bookkeeper = (*bookkeeping.Service)(nil)
