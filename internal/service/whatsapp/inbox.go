package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/pillars/internal/config"
	"github.com/mamadbah2/pillars/internal/domain/models"
)

// recentDates caps the list returned by the dates command.
const recentDates = 10

const helpText = `Pillars daily reports
summary - today's figures
summary 2024-01-01 - figures of a saved day
dates - recently saved days
help - this message`

// Reports builds and renders daily reports.
type Reports interface {
	BuildDailyReport(ctx context.Context, date models.DateKey) (models.DailyReport, error)
	Summary(report models.DailyReport) string
}

// Dates lists the saved days, newest first.
type Dates interface {
	KnownDates(ctx context.Context) ([]models.DateKey, error)
}

// Inbox answers report queries the owner sends to the business number.
type Inbox struct {
	cfg      config.WhatsAppConfig
	notifier *Notifier
	dates    Dates
	reports  Reports
	loc      *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

// NewInbox wires the webhook query handler. Replies go out through notifier.
func NewInbox(cfg config.WhatsAppConfig, notifier *Notifier, dates Dates, reports Reports, loc *time.Location, logger *zap.Logger) *Inbox {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Inbox{
		cfg:      cfg,
		notifier: notifier,
		dates:    dates,
		reports:  reports,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}
}

// VerifyWebhookToken validates the callback verification token.
func (i *Inbox) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if verifyToken != i.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook answers every message in the payload and returns the first failure.
func (i *Inbox) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if err := i.handleInboundMessage(ctx, msg); err != nil {
					i.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (i *Inbox) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	if msg.From != i.cfg.OwnerID {
		i.logger.Warn("ignoring message from unknown sender", zap.String("from", msg.From))
		return nil
	}

	text := extractMessageText(msg)
	if text == "" {
		i.logger.Debug("ignoring message without text", zap.String("type", msg.Type))
		return nil
	}

	cmd := models.ParseCommand(text)
	i.logger.Info("parsed inbound command",
		zap.String("command", string(cmd.Type)),
		zap.Strings("args", cmd.Args))

	reply, err := i.reply(ctx, cmd)
	if err != nil {
		return err
	}
	return i.notifier.SendText(ctx, msg.From, reply)
}

func (i *Inbox) reply(ctx context.Context, cmd models.Command) (string, error) {
	switch cmd.Type {
	case models.CommandSummary:
		date := models.DateKeyFromTime(i.now().In(i.loc))
		if len(cmd.Args) > 0 {
			parsed, err := models.ParseDateKey(cmd.Args[0])
			if err != nil {
				return fmt.Sprintf("Invalid date %q, expected YYYY-MM-DD.", cmd.Args[0]), nil
			}
			date = parsed
		}
		report, err := i.reports.BuildDailyReport(ctx, date)
		if err != nil {
			return "", fmt.Errorf("build report %s: %w", date, err)
		}
		return i.reports.Summary(report), nil

	case models.CommandDates:
		dates, err := i.dates.KnownDates(ctx)
		if err != nil {
			return "", fmt.Errorf("list dates: %w", err)
		}
		if len(dates) == 0 {
			return "No saved days yet.", nil
		}
		if len(dates) > recentDates {
			dates = dates[:recentDates]
		}
		lines := make([]string, len(dates))
		for n, d := range dates {
			lines[n] = d.String()
		}
		return "Saved days:\n" + strings.Join(lines, "\n"), nil

	case models.CommandHelp:
		return helpText, nil
	}
	return "Unknown command.\n" + helpText, nil
}

func extractMessageText(msg models.InboundMessage) string {
	if msg.Text != nil {
		return msg.Text.Body
	}
	if msg.Interactive != nil && msg.Interactive.ButtonReply != nil {
		return msg.Interactive.ButtonReply.ID
	}
	return ""
}
