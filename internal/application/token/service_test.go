package token

import (
	"context"
	"errors"
	"testing"

	"github.com/moim/ledger-notify/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTokenStore struct{ mock.Mock }

func (m *mockTokenStore) Put(ctx context.Context, t *domain.PushToken) error {
	return m.Called(ctx, t).Error(0)
}

func TestRegister_Upserts(t *testing.T) {
	repo := &mockTokenStore{}
	repo.On("Put", mock.Anything, mock.MatchedBy(func(pt *domain.PushToken) bool {
		return pt.UserID == "u1" && pt.Token == "arn:aws:sns:ep/1" && !pt.UpdatedAt.IsZero()
	})).Return(nil)

	got, err := NewService(repo).Register(context.Background(), "u1", "arn:aws:sns:ep/1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	repo.AssertExpectations(t)
}

func TestRegister_EmptyToken(t *testing.T) {
	repo := &mockTokenStore{}

	_, err := NewService(repo).Register(context.Background(), "u1", "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	repo.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestRegister_StoreFailure(t *testing.T) {
	repo := &mockTokenStore{}
	repo.On("Put", mock.Anything, mock.Anything).Return(errors.New("provisioned throughput exceeded"))

	_, err := NewService(repo).Register(context.Background(), "u1", "tokA")
	require.Error(t, err)
	assert.ErrorContains(t, err, "store push token")
}
