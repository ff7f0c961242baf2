package port

import (
	"context"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
)

type NotificationRepository interface {
	InsertNotification(ctx context.Context, n domain.Notification) (domain.Notification, error)
	ListNotificationsByUser(ctx context.Context, userID string) ([]domain.Notification, error)
}

// Notifier is best-effort: a failure must never fail the caller's success
// path, callers fire and forget.
type Notifier interface {
	Notify(ctx context.Context, userID, message string, severity domain.Severity) error
}

// EventPublisher emits domain events for external collaborators, best-effort.
type EventPublisher interface {
	PublishOrderPaid(ctx context.Context, event domain.OrderPaidEvent) error
}
