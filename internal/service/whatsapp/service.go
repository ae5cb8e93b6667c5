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
	client "github.com/mamadbah2/pillars/pkg/clients/whatsapp"
)

// maxBodyLength is the Cloud API limit for a text message body.
const maxBodyLength = 4096

// Notifier pushes daily summaries to the owner's WhatsApp number.
type Notifier struct {
	cfg    config.WhatsAppConfig
	client client.Client
	logger *zap.Logger
}

// NewNotifier wires a new notifier instance.
func NewNotifier(cfg config.WhatsAppConfig, client client.Client, logger *zap.Logger) *Notifier {
	n := &Notifier{
		cfg:    cfg,
		client: client,
		logger: logger,
	}
	if n.logger == nil {
		n.logger = zap.NewNop()
	}
	return n
}

// Name identifies the notifier among report sinks.
func (n *Notifier) Name() string {
	return "whatsapp"
}

// Publish sends the summary text to the configured owner.
func (n *Notifier) Publish(ctx context.Context, summary models.DailySummary, text string) error {
	if n.cfg.OwnerID == "" {
		return errors.New("whatsapp owner id is not configured")
	}
	if err := n.SendText(ctx, n.cfg.OwnerID, text); err != nil {
		return fmt.Errorf("notify summary %s: %w", summary.DateKey, err)
	}
	return nil
}

// SendText delivers a message, split into several when it exceeds the body limit.
func (n *Notifier) SendText(ctx context.Context, to, message string) error {
	if strings.TrimSpace(message) == "" {
		return errors.New("empty message body")
	}

	for i, part := range splitMessage(message, maxBodyLength) {
		ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
		resp, err := n.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
			To:         to,
			Body:       part,
			PreviewURL: false,
		})
		cancel()
		if err != nil {
			return err
		}

		n.logger.Info("whatsapp message sent",
			zap.String("to", to),
			zap.Int("part", i+1),
			zap.String("message_id", resp.MessageID()))
	}
	return nil
}

// splitMessage cuts on line breaks where possible so no part exceeds limit runes.
func splitMessage(message string, limit int) []string {
	var parts []string
	var current []rune
	for _, line := range strings.SplitAfter(message, "\n") {
		runes := []rune(line)
		if len(current)+len(runes) > limit && len(current) > 0 {
			parts = append(parts, strings.TrimRight(string(current), "\n"))
			current = current[:0]
		}
		for len(runes) > limit {
			parts = append(parts, string(runes[:limit]))
			runes = runes[limit:]
		}
		current = append(current, runes...)
	}
	if len(current) > 0 {
		parts = append(parts, strings.TrimRight(string(current), "\n"))
	}
	return parts
}
