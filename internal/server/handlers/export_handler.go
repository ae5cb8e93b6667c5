package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/pillars/internal/domain/models"
	"github.com/mamadbah2/pillars/internal/service/export"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

// ExportHandler streams spreadsheet and PDF renditions of day data. Nothing
// is written server-side.
type ExportHandler struct {
	reporter Reporter
	logger   *zap.Logger
}

// NewExportHandler constructs the HTTP handler adapter.
func NewExportHandler(reporter Reporter, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{reporter: reporter, logger: logger}
}

type spreadsheetRequest struct {
	Date   string              `json:"date"`
	Sheets []export.NamedTable `json:"sheets" binding:"required"`
}

type documentRequest struct {
	Date          string          `json:"date" binding:"required"`
	Stock         models.Table    `json:"stock"`
	Accommodation models.Table    `json:"accommodation"`
	Expenses      models.Table    `json:"expenses"`
	MoneyPaid     decimal.Decimal `json:"money_paid"`
	MoneyInvested decimal.Decimal `json:"money_invested"`
}

// Spreadsheet builds a workbook from posted, possibly unsaved, tables.
func (h *ExportHandler) Spreadsheet(c *gin.Context) {
	var req spreadsheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid spreadsheet payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	data, err := export.ToSpreadsheet(req.Sheets)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.attach(c, fileName(req.Date, "xlsx"), xlsxContentType, data)
}

// Document renders a PDF from posted day data.
func (h *ExportHandler) Document(c *gin.Context) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid document payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	date, err := models.ParseDateKey(req.Date)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	for _, amount := range []decimal.Decimal{req.MoneyPaid, req.MoneyInvested} {
		if err := models.ValidateAmount(amount); err != nil {
			respondError(c, h.logger, err)
			return
		}
	}

	report := h.reporter.BuildFromTables(date, req.Stock, req.Accommodation, req.Expenses, req.MoneyPaid, req.MoneyInvested)
	h.renderDocument(c, report)
}

// SavedSpreadsheet exports a saved day as a workbook.
func (h *ExportHandler) SavedSpreadsheet(c *gin.Context) {
	report, ok := h.savedReport(c)
	if !ok {
		return
	}
	data, err := export.ToSpreadsheet(export.ReportSheets(report))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.attach(c, fileName(report.Date.String(), "xlsx"), xlsxContentType, data)
}

// SavedDocument exports a saved day as a PDF.
func (h *ExportHandler) SavedDocument(c *gin.Context) {
	report, ok := h.savedReport(c)
	if !ok {
		return
	}
	h.renderDocument(c, report)
}

func (h *ExportHandler) savedReport(c *gin.Context) (models.DailyReport, bool) {
	date, err := models.ParseDateKey(c.Param("date"))
	if err != nil {
		respondError(c, h.logger, err)
		return models.DailyReport{}, false
	}
	report, err := h.reporter.BuildDailyReport(c.Request.Context(), date)
	if err != nil {
		respondError(c, h.logger, err)
		return models.DailyReport{}, false
	}
	if report.Stock.IsEmpty() && report.Accommodation.IsEmpty() && report.Expenses.IsEmpty() {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no tables saved for %s", date)})
		return models.DailyReport{}, false
	}
	return report, true
}

func (h *ExportHandler) renderDocument(c *gin.Context, report models.DailyReport) {
	data, err := export.ToDocument(export.DocumentFromReport(report, h.reporter.Currency()))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.attach(c, fileName(report.Date.String(), "pdf"), pdfContentType, data)
}

func (h *ExportHandler) attach(c *gin.Context, name, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	c.Data(http.StatusOK, contentType, data)
}

func fileName(date, ext string) string {
	if _, err := models.ParseDateKey(date); err != nil {
		return "pillars_report." + ext
	}
	return fmt.Sprintf("pillars_report_%s.%s", date, ext)
}
