package token

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/moim/ledger-notify/internal/domain"
)

// Service upserts a caller's push delivery address. Last write wins; a user
// has at most one live token.
type Service interface {
	Register(ctx context.Context, userID, token string) (*domain.PushToken, error)
}

type tokenStore interface {
	Put(ctx context.Context, t *domain.PushToken) error
}

type service struct {
	repo tokenStore
	now  func() time.Time
}

func NewService(repo tokenStore) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Register(ctx context.Context, userID, token string) (*domain.PushToken, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("empty push token: %w", domain.ErrBadRequest)
	}
	t := &domain.PushToken{
		UserID:    userID,
		Token:     token,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.repo.Put(ctx, t); err != nil {
		return nil, fmt.Errorf("store push token: %w", err)
	}
	return t, nil
}
