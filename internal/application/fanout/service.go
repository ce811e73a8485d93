package fanout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/moim/ledger-notify/internal/domain"
	snsinfra "github.com/moim/ledger-notify/internal/infrastructure/sns"
	"github.com/moim/ledger-notify/internal/pkg/metrics"
	"github.com/rs/zerolog"
)

type memberStore interface {
	ListByGroup(ctx context.Context, groupID string) ([]domain.Member, error)
}

type notificationStore interface {
	Put(ctx context.Context, n *domain.Notification) error
}

type tokenStore interface {
	Get(ctx context.Context, userID string) (*domain.PushToken, error)
	Delete(ctx context.Context, userID string) error
}

type pushSender interface {
	Send(ctx context.Context, endpointARN string, n *domain.Notification) error
}

// Service fans one transaction event out to every group member except the
// author: per recipient it stores a notification record, resolves the push
// token and dispatches a push message.
type Service interface {
	HandleTransactionCreated(ctx context.Context, tx domain.Transaction) (*Result, error)
}

// Outcome is one recipient's terminal pipeline state. Err is nil for both full
// success and the stored-but-no-device case.
type Outcome struct {
	RecipientID string
	Stored      bool
	Pushed      bool
	Err         error
}

// Result aggregates the per-recipient outcomes of one event.
type Result struct {
	Outcomes []Outcome
}

func (r *Result) Stored() int { return r.count(func(o Outcome) bool { return o.Stored }) }
func (r *Result) Pushed() int { return r.count(func(o Outcome) bool { return o.Pushed }) }
func (r *Result) Failed() int { return r.count(func(o Outcome) bool { return o.Err != nil }) }

func (r *Result) count(pred func(Outcome) bool) int {
	n := 0
	for _, o := range r.Outcomes {
		if pred(o) {
			n++
		}
	}
	return n
}

type service struct {
	members memberStore
	notifs  notificationStore
	tokens  tokenStore
	push    pushSender
	m       *metrics.Metrics
	log     zerolog.Logger
	now     func() time.Time
}

func NewService(members memberStore, notifs notificationStore, tokens tokenStore, push pushSender, m *metrics.Metrics, log zerolog.Logger) Service {
	return &service{
		members: members,
		notifs:  notifs,
		tokens:  tokens,
		push:    push,
		m:       m,
		log:     log.With().Str("component", "fanout").Logger(),
		now:     time.Now,
	}
}

// HandleTransactionCreated resolves recipients once, then runs one pipeline
// goroutine per recipient. A recipient's failure stays in its outcome slot and
// never affects siblings; only recipient resolution returns an error, which
// the caller surfaces so the event is redelivered.
func (s *service) HandleTransactionCreated(ctx context.Context, tx domain.Transaction) (*Result, error) {
	start := s.now()
	s.m.EventsConsumed.Inc()

	members, err := s.members.ListByGroup(ctx, tx.GroupID)
	if err != nil {
		s.m.EventsFailed.Inc()
		return nil, fmt.Errorf("resolve recipients for group %s: %w", tx.GroupID, err)
	}

	recipients := make([]domain.Member, 0, len(members))
	for _, m := range members {
		if m.UserID != tx.AuthorID {
			recipients = append(recipients, m)
		}
	}
	s.m.RecipientsPerEvent.Observe(float64(len(recipients)))

	res := &Result{Outcomes: make([]Outcome, len(recipients))}
	if len(recipients) == 0 {
		s.log.Debug().Str("group_id", tx.GroupID).Str("transaction_id", tx.TransactionID).
			Msg("no recipients to notify")
		return res, nil
	}

	var wg sync.WaitGroup
	for i, recipient := range recipients {
		wg.Add(1)
		go func(slot int, recipient domain.Member) {
			defer wg.Done()
			res.Outcomes[slot] = s.notify(ctx, tx, recipient)
		}(i, recipient)
	}
	wg.Wait()

	s.m.FanoutDuration.Observe(s.now().Sub(start).Seconds())
	s.log.Info().
		Str("group_id", tx.GroupID).
		Str("transaction_id", tx.TransactionID).
		Int("recipients", len(recipients)).
		Int("stored", res.Stored()).
		Int("pushed", res.Pushed()).
		Int("failed", res.Failed()).
		Msg("fan-out complete")
	return res, nil
}

// notify runs one recipient's pipeline: store record, look up token, dispatch.
// The record write must succeed before anything else; a missing or empty token
// ends the pipeline successfully with no push.
func (s *service) notify(ctx context.Context, tx domain.Transaction, recipient domain.Member) Outcome {
	out := Outcome{RecipientID: recipient.UserID}
	log := s.log.With().
		Str("recipient_id", recipient.UserID).
		Str("group_id", tx.GroupID).
		Str("transaction_id", tx.TransactionID).
		Logger()

	n := domain.NewTransactionNotification(tx, recipient.UserID, s.now())
	if err := s.notifs.Put(ctx, n); err != nil {
		s.m.PipelineFailures.WithLabelValues("store").Inc()
		out.Err = fmt.Errorf("store notification: %w", err)
		log.Error().Err(err).Msg("notification record write failed")
		return out
	}
	out.Stored = true
	s.m.RecordsWritten.Inc()

	token, err := s.tokens.Get(ctx, recipient.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		log.Debug().Msg("recipient has no push token")
		return out
	}
	if err != nil {
		s.m.PipelineFailures.WithLabelValues("lookup").Inc()
		out.Err = fmt.Errorf("lookup push token: %w", err)
		log.Error().Err(err).Msg("push token lookup failed")
		return out
	}
	if token.Token == "" {
		log.Debug().Msg("recipient has an empty push token")
		return out
	}

	if err := s.push.Send(ctx, token.Token, n); err != nil {
		s.m.PipelineFailures.WithLabelValues("send").Inc()
		out.Err = fmt.Errorf("dispatch push: %w", err)
		log.Error().Err(err).Msg("push dispatch failed")
		if errors.Is(err, snsinfra.ErrEndpointDisabled) {
			if delErr := s.tokens.Delete(ctx, recipient.UserID); delErr != nil {
				log.Warn().Err(delErr).Msg("could not drop dead push token")
			}
		}
		return out
	}
	out.Pushed = true
	s.m.PushesSent.Inc()
	return out
}
