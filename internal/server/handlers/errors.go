package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pillars/internal/domain/models"
	"github.com/mamadbah2/pillars/internal/service/bookkeeping"
	"github.com/mamadbah2/pillars/internal/service/export"
	"github.com/mamadbah2/pillars/internal/service/reporting"
)

// statusFor maps domain errors onto HTTP status codes. Unknown errors are
// internal failures.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidDate),
		errors.Is(err, models.ErrUnknownSection),
		errors.Is(err, models.ErrUnknownMoneyKey):
		return http.StatusBadRequest
	case errors.Is(err, bookkeeping.ErrInvalidInput),
		errors.Is(err, models.ErrInvalidCell),
		errors.Is(err, models.ErrRaggedRow),
		errors.Is(err, models.ErrNegativeAmount),
		errors.Is(err, export.ErrNothingToExport),
		errors.Is(err, export.ErrInvalidSheetName):
		return http.StatusUnprocessableEntity
	case errors.Is(err, reporting.ErrNoSinks):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error as JSON. Internal failures get a generic
// message; the details only go to the log.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	logger.Debug("request rejected", zap.Int("status", status), zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}
