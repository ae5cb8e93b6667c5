// Package app assembles the services shared by the HTTP server and the
// command line tool from a loaded configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/pillars/internal/catalog"
	"github.com/mamadbah2/pillars/internal/config"
	"github.com/mamadbah2/pillars/internal/repository/filestore"
	"github.com/mamadbah2/pillars/internal/repository/mongodb"
	"github.com/mamadbah2/pillars/internal/repository/sheets"
	"github.com/mamadbah2/pillars/internal/scheduler"
	"github.com/mamadbah2/pillars/internal/server/handlers"
	"github.com/mamadbah2/pillars/internal/server/router"
	"github.com/mamadbah2/pillars/internal/service/bookkeeping"
	"github.com/mamadbah2/pillars/internal/service/reporting"
	whatsappsvc "github.com/mamadbah2/pillars/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/pillars/pkg/clients/whatsapp"
	"github.com/mamadbah2/pillars/pkg/logger"
)

const connectTimeout = 15 * time.Second

// Options selects the optional parts to wire.
type Options struct {
	// Sinks connects the configured report destinations (MongoDB, Google
	// Sheets, WhatsApp). Without it Publish reports that none is configured.
	Sinks bool
}

// App holds the wired services.
type App struct {
	Config    *config.Config
	Store     *filestore.Store
	Books     *bookkeeping.Service
	Reporting *reporting.Service

	logger   *zap.Logger
	archive  reporting.Archive
	notifier *whatsappsvc.Notifier
	inbox    *whatsappsvc.Inbox
	closers  []func(context.Context) error
}

// New builds the store, services and, if asked, the report sinks.
func New(ctx context.Context, cfg *config.Config, base *zap.Logger, opts Options) (*App, error) {
	if base == nil {
		base = zap.NewNop()
	}

	cat, err := catalog.Load(cfg.Storage.CatalogFile)
	if err != nil {
		return nil, err
	}

	store, err := filestore.New(cfg.Storage.DataDir, logger.Named(base, "repo.files"))
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Store:  store,
		Books:  bookkeeping.NewService(store, cat, logger.Named(base, "svc.bookkeeping")),
		logger: base,
	}

	var sinks []reporting.Sink
	if opts.Sinks {
		sinks, err = a.connectSinks(ctx)
		if err != nil {
			_ = a.Close(context.Background())
			return nil, err
		}
	}

	a.Reporting = reporting.NewService(a.Books, reporting.Options{
		Formula:  cfg.Reporting.ProfitFormula,
		Currency: cfg.Reporting.Currency,
		Archive:  a.archive,
	}, logger.Named(base, "svc.reporting"), sinks...)

	if a.notifier != nil && cfg.WhatsApp.InboxEnabled() {
		a.inbox = whatsappsvc.NewInbox(cfg.WhatsApp, a.notifier, a.Books, a.Reporting,
			cfg.Reporting.Location(), logger.Named(base, "svc.whatsapp.inbox"))
	}

	base.Info("application wired",
		zap.String("data_dir", store.Root()),
		zap.Int("catalog_items", cat.Len()),
		zap.Strings("sinks", a.Reporting.SinkNames()),
		zap.Bool("whatsapp_inbox", a.inbox != nil),
	)
	return a, nil
}

func (a *App) connectSinks(ctx context.Context) ([]reporting.Sink, error) {
	cfg := a.Config
	var sinks []reporting.Sink

	if cfg.MongoDB.Enabled() {
		connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		repo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named(a.logger, "repo.mongodb"))
		cancel()
		if err != nil {
			return nil, fmt.Errorf("init mongodb archive: %w", err)
		}
		a.closers = append(a.closers, repo.Close)
		a.archive = repo
		sinks = append(sinks, repo)
	}

	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named(a.logger, "repo.sheets"))
		if err != nil {
			return nil, fmt.Errorf("init sheets log: %w", err)
		}
		sinks = append(sinks, sheets.NewSummaryLog(repo, cfg.Sheets.SummaryRange))
	}

	if cfg.WhatsApp.Enabled() {
		client := whatsappclient.NewClient(cfg.WhatsApp)
		a.notifier = whatsappsvc.NewNotifier(cfg.WhatsApp, client, logger.Named(a.logger, "svc.whatsapp"))
		sinks = append(sinks, a.notifier)
	}

	return sinks, nil
}

// Router builds the HTTP engine over the wired services.
func (a *App) Router() *gin.Engine {
	days := handlers.NewDayHandler(a.Books, a.Reporting, logger.Named(a.logger, "handlers.days"))
	exports := handlers.NewExportHandler(a.Reporting, logger.Named(a.logger, "handlers.export"))

	var webhook *handlers.WebhookHandler
	if a.inbox != nil {
		webhook = handlers.NewWebhookHandler(a.inbox, logger.Named(a.logger, "handlers.webhook"))
	}
	return router.New(days, exports, webhook, logger.Named(a.logger, "router"))
}

// Scheduler returns the daily report job, or nil when there is nowhere to
// publish to.
func (a *App) Scheduler() *scheduler.Scheduler {
	if len(a.Reporting.SinkNames()) == 0 {
		return nil
	}
	return scheduler.NewScheduler(a.Config.Reporting, a.Reporting, logger.Named(a.logger, "scheduler"))
}

// Close releases sink connections.
func (a *App) Close(ctx context.Context) error {
	var firstErr error
	for _, closeFn := range a.closers {
		if err := closeFn(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	a.closers = nil
	return firstErr
}
