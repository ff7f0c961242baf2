package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/AndresTafur217/StorePrototypeApi/internal/domain"
	"github.com/AndresTafur217/StorePrototypeApi/internal/port"
	"github.com/AndresTafur217/StorePrototypeApi/internal/store"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const notificationsTable = "notifications"

type notificationRepository struct {
	s *store.Store
}

func NewNotification(s *store.Store) (port.NotificationRepository, error) {
	if s == nil {
		return nil, fmt.Errorf("store is nil")
	}

	return &notificationRepository{s: s}, nil
}

func (r *notificationRepository) InsertNotification(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	var zero domain.Notification

	if n.UserID == "" {
		return zero, fmt.Errorf("userID is empty")
	}

	if n.Message == "" {
		return zero, fmt.Errorf("message is empty")
	}

	n.ID = uuid.New()
	n.CreatedAt = time.Now().UTC()

	_, err := store.WithLock(ctx, r.s, notificationsTable, func(notifications []domain.Notification) ([]domain.Notification, struct{}, error) {
		return append(notifications, n), struct{}{}, nil
	})
	if err != nil {
		return zero, fmt.Errorf("store.WithLock: %w", err)
	}

	return n, nil
}

func (r *notificationRepository) ListNotificationsByUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID is empty")
	}

	notifications, err := store.ReadAll[domain.Notification](ctx, r.s, notificationsTable)
	if err != nil {
		return nil, fmt.Errorf("store.ReadAll: %w", err)
	}

	return lo.Filter(notifications, func(n domain.Notification, _ int) bool {
		return n.UserID == userID
	}), nil
}
