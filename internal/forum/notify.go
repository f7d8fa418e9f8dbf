package forum

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/pkg/logging"
)

// Notifier appends moderation and social events to the notification
// log. Writes are fire-and-forget: a failed append is logged and
// swallowed, never surfaced to the triggering operation.
type Notifier struct {
	store  NotificationStore
	logger *zap.Logger
}

// NewNotifier creates a new notifier
func NewNotifier(store NotificationStore) *Notifier {
	return &Notifier{
		store:  store,
		logger: logging.WithComponent("notifier"),
	}
}

// Append records a notification message
func (n *Notifier) Append(ctx context.Context, message string) {
	notification := &models.Notification{
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	if err := n.store.Create(ctx, notification); err != nil {
		n.logger.Error("Failed to append notification",
			zap.String("message", message),
			zap.Error(err))
		return
	}
	n.logger.Info("[NOTIFY]", zap.String("message", message))
}

// Recent returns all notifications, most recent first
func (n *Notifier) Recent(ctx context.Context) ([]*models.Notification, error) {
	return n.store.List(ctx)
}
