package http

import (
	"context"

	"github.com/moim/ledger-notify/internal/domain"
)

// NotificationRepository is the minimal interface the router requires from a
// notification store.
type NotificationRepository interface {
	ListUnread(ctx context.Context, recipientID string) ([]domain.Notification, error)
	Get(ctx context.Context, notificationID string) (*domain.Notification, error)
	MarkAsRead(ctx context.Context, notificationID string) (*domain.Notification, error)
}

// PushTokenRepository is the minimal interface the router requires from a
// push token store.
type PushTokenRepository interface {
	Put(ctx context.Context, t *domain.PushToken) error
}
