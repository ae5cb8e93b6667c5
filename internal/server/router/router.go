package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pillars/internal/server/handlers"
)

// maxBodyBytes bounds JSON and pasted CSV request bodies.
const maxBodyBytes = 8 << 20

// New wires the Gin engine with required routes and middlewares. The
// WhatsApp webhook is mounted only when webhook is non-nil.
func New(days *handlers.DayHandler, exports *handlers.ExportHandler, webhook *handlers.WebhookHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(bodyLimit(maxBodyBytes))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/dates", days.ListDates)

	day := api.Group("/days/:date")
	day.GET("", days.GetDay)
	day.GET("/sections/:section", days.GetSection)
	day.PUT("/sections/:section", days.PutSection)
	day.POST("/sections/:section/import", days.ImportSection)
	day.GET("/money/:key", days.GetMoney)
	day.PUT("/money/:key", days.PutMoney)
	day.GET("/summary", days.GetSummary)
	day.POST("/publish", days.Publish)
	day.GET("/export.xlsx", exports.SavedSpreadsheet)
	day.GET("/export.pdf", exports.SavedDocument)

	api.POST("/export/spreadsheet", exports.Spreadsheet)
	api.POST("/export/document", exports.Document)

	if webhook != nil {
		r.GET("/webhook", webhook.Verify)
		r.POST("/webhook", webhook.Receive)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

func bodyLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}
