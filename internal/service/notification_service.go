package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/livetrack/support-service/internal/config"
	"github.com/livetrack/support-service/internal/events"
)

// NotificationService delivers ticket notifications. Email delivery is a
// logged stub; webhook delivery posts the event JSON when a URL is
// configured.
type NotificationService struct {
	cfg    config.NotificationConfig
	logger *zap.Logger
	client *http.Client
}

// NewNotificationService constructs the service.
func NewNotificationService(cfg config.NotificationConfig, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		cfg:    cfg,
		logger: logger,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// NotifyEvent fans an event out to the configured channels.
func (s *NotificationService) NotifyEvent(ctx context.Context, event events.Event) error {
	s.sendEmail(event)
	return s.sendWebhook(ctx, event)
}

func (s *NotificationService) sendEmail(event events.Event) {
	// SMTP delivery is not wired yet; log what would be sent.
	s.logger.Info("notification email",
		zap.String("from", s.cfg.EmailFrom),
		zap.String("event_type", string(event.Type)),
		zap.String("ticket_id", event.TicketID),
		zap.String("subject", emailSubject(event)),
	)
}

func (s *NotificationService) sendWebhook(ctx context.Context, event events.Event) error {
	if s.cfg.WebhookURL == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("notification webhook failed", zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		s.logger.Warn("notification webhook rejected", zap.Int("status", resp.StatusCode))
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

func emailSubject(event events.Event) string {
	switch event.Type {
	case events.EventTicketCreated:
		return fmt.Sprintf("New ticket %s", event.TicketID)
	case events.EventTicketStatusChanged:
		return fmt.Sprintf("Ticket %s status changed", event.TicketID)
	case events.EventTicketReplyAdded:
		return fmt.Sprintf("New reply on ticket %s", event.TicketID)
	case events.EventTicketClosed:
		return fmt.Sprintf("Ticket %s closed", event.TicketID)
	case events.EventTicketArchived:
		return fmt.Sprintf("Ticket %s archived", event.TicketID)
	default:
		return fmt.Sprintf("Ticket %s updated", event.TicketID)
	}
}
