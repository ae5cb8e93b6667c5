package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/pillars/internal/config"
	"github.com/mamadbah2/pillars/internal/domain/models"
)

// Publisher builds and ships the report of a saved day.
type Publisher interface {
	PublishDay(ctx context.Context, date models.DateKey) (models.DailyReport, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron      *cron.Cron
	publisher Publisher
	cfg       config.ReportingConfig
	location  *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewScheduler creates a new scheduler running in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, publisher Publisher, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := cfg.Location()

	// Standard 5-field cron expressions, evaluated in the business timezone.
	c := cron.New(cron.WithLocation(loc))

	return &Scheduler{
		cron:      c,
		publisher: publisher,
		cfg:       cfg,
		location:  loc,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the daily summary job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule), zap.String("timezone", s.location.String()))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.sendDailyReport); err != nil {
		return fmt.Errorf("schedule daily report %q: %w", s.cfg.CronSchedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// Today is the current business day in the scheduler timezone.
func (s *Scheduler) Today() models.DateKey {
	return models.DateKeyFromTime(s.now().In(s.location))
}

// RunOnce publishes today's report immediately.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	date := s.Today()
	report, err := s.publisher.PublishDay(ctx, date)
	if err != nil {
		return fmt.Errorf("publish report for %s: %w", date, err)
	}
	s.logger.Info("daily report sent successfully",
		zap.String("date", date.String()),
		zap.String("profit", report.Profit.StringFixed(2)),
	)
	return nil
}

func (s *Scheduler) sendDailyReport() {
	s.logger.Info("generating daily report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("failed to send daily report", zap.Error(err))
	}
}
