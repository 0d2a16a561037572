package notifications

import (
	"context"

	"go.uber.org/zap"
	"leadmarket.backend/internal/domain/services"
	"leadmarket.backend/pkg/logger"
)

// LogNotifier is the default Notifier: it writes the notification to the
// structured log. A real channel (email, push) can replace it without
// touching the usecases.
type LogNotifier struct{}

// NewLogNotifier creates a log-backed notifier
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

// Notify logs the notification. Never returns an error: notification
// delivery is best-effort and must not fail the business operation.
func (n *LogNotifier) Notify(ctx context.Context, notification services.Notification) {
	fields := []zap.Field{
		zap.String("event", notification.Event),
		zap.String("recipient_id", notification.RecipientID.String()),
	}
	for k, v := range notification.Payload {
		fields = append(fields, zap.String("payload_"+k, v))
	}
	logger.Info(ctx, "notification dispatched", fields...)
}
