package notification

import (
	"context"
	"testing"

	"github.com/moim/ledger-notify/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockNotificationStore struct{ mock.Mock }

func (m *mockNotificationStore) ListUnread(ctx context.Context, recipientID string) ([]domain.Notification, error) {
	args := m.Called(ctx, recipientID)
	if ns, _ := args.Get(0).([]domain.Notification); ns != nil {
		return ns, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationStore) Get(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockNotificationStore) MarkAsRead(ctx context.Context, notificationID string) (*domain.Notification, error) {
	args := m.Called(ctx, notificationID)
	if n, _ := args.Get(0).(*domain.Notification); n != nil {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestMarkAsRead_OwnNotification(t *testing.T) {
	repo := &mockNotificationStore{}
	stored := &domain.Notification{NotificationID: "t1#u2", RecipientID: "u2"}
	read := &domain.Notification{NotificationID: "t1#u2", RecipientID: "u2", Read: true}
	repo.On("Get", mock.Anything, "t1#u2").Return(stored, nil)
	repo.On("MarkAsRead", mock.Anything, "t1#u2").Return(read, nil)

	n, err := NewService(repo).MarkAsRead(context.Background(), "t1#u2", "u2")
	require.NoError(t, err)
	assert.True(t, n.Read)
}

func TestMarkAsRead_OtherRecipientForbidden(t *testing.T) {
	repo := &mockNotificationStore{}
	repo.On("Get", mock.Anything, "t1#u2").
		Return(&domain.Notification{NotificationID: "t1#u2", RecipientID: "u2"}, nil)

	_, err := NewService(repo).MarkAsRead(context.Background(), "t1#u2", "u9")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	repo.AssertNotCalled(t, "MarkAsRead", mock.Anything, mock.Anything)
}

func TestListUnread_PassesThrough(t *testing.T) {
	repo := &mockNotificationStore{}
	repo.On("ListUnread", mock.Anything, "u2").
		Return([]domain.Notification{{NotificationID: "t1#u2", RecipientID: "u2"}}, nil)

	ns, err := NewService(repo).ListUnread(context.Background(), "u2")
	require.NoError(t, err)
	assert.Len(t, ns, 1)
}
