package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/livetrack/support-service/internal/events"
	"github.com/livetrack/support-service/internal/service"
)

// NotificationWorker forwards ticket events to the notification service.
type NotificationWorker struct {
	notifications *service.NotificationService
	logger        *zap.Logger
}

// NewNotificationWorker constructs the worker.
func NewNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) *NotificationWorker {
	return &NotificationWorker{notifications: notifications, logger: logger}
}

// Register subscribes the worker to every ticket event type.
func (w *NotificationWorker) Register(dispatcher events.Dispatcher) {
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketReplyAdded,
		events.EventTicketClosed,
		events.EventTicketArchived,
	} {
		dispatcher.Subscribe(eventType, w.handle)
	}
}

func (w *NotificationWorker) handle(ctx context.Context, event events.Event) error {
	if err := w.notifications.NotifyEvent(ctx, event); err != nil {
		w.logger.Warn("notification delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("ticket_id", event.TicketID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
