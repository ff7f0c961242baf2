// Package notify implements the best-effort notification collaborators.
// Delivery failure is logged and never propagated to the business operation
// that triggered it.
package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/AndresTafur217/StorePrototypeApi/internal/port"
)

// StoreNotifier persists notifications to the notifications table.
type StoreNotifier struct {
	repo   port.NotificationRepository
	logger *slog.Logger
}

func NewStoreNotifier(repo port.NotificationRepository, logger *slog.Logger) (*StoreNotifier, error) {
	if repo == nil {
		return nil, fmt.Errorf("notification repository is nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &StoreNotifier{repo: repo, logger: logger}, nil
}

func (n *StoreNotifier) Notify(ctx context.Context, userID, message string, severity domain.Severity) error {
	_, err := n.repo.InsertNotification(ctx, domain.Notification{
		UserID:   userID,
		Message:  message,
		Severity: severity,
	})
	if err != nil {
		return fmt.Errorf("repo.InsertNotification: %w", err)
	}

	n.logger.Info("notification stored", "user_id", userID, "severity", severity)

	return nil
}

// Multi fans a notification out to several notifiers and joins their failures.
type Multi []port.Notifier

func (m Multi) Notify(ctx context.Context, userID, message string, severity domain.Severity) error {
	var errs error

	for _, n := range m {
		if err := n.Notify(ctx, userID, message, severity); err != nil {
			errs = errors.Join(errs, err)
		}
	}

	return errs
}
