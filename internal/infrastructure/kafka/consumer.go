package kafka

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/moim/ledger-notify/internal/config"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Handler processes one consumed message. Returning nil commits the offset;
// returning an error leaves it uncommitted so the message is redelivered.
type Handler func(ctx context.Context, key, value []byte) error

// Consumer wraps a kafka-go reader in a commit-after-handle loop. Offsets are
// committed only after the handler succeeds, giving at-least-once delivery.
type Consumer struct {
	reader *kafka.Reader
	log    zerolog.Logger
}

func NewConsumer(cfg config.Kafka, log zerolog.Logger) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:               cfg.Brokers,
		GroupID:               cfg.GroupID,
		Topic:                 cfg.Topic,
		StartOffset:           kafka.LastOffset,
		WatchPartitionChanges: true,

		MinBytes:          1e3,
		MaxBytes:          10e6,
		SessionTimeout:    10 * time.Second,
		RebalanceTimeout:  15 * time.Second,
		HeartbeatInterval: 3 * time.Second,
	})

	return &Consumer{
		reader: r,
		log: log.With().
			Str("component", "kafka.consumer").
			Str("topic", cfg.Topic).
			Str("group", cfg.GroupID).
			Logger(),
	}
}

func (c *Consumer) Consume(ctx context.Context, h Handler) error {
	c.log.Info().Msg("consumer started")

	backoff := 200 * time.Millisecond
	const maxBackoff = 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("consumer stopped")
			return ctx.Err()
		default:
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.log.Info().Msg("consumer stopped")
				return ctx.Err()
			}
			if !errors.Is(err, io.EOF) {
				c.log.Warn().Err(err).Dur("backoff", backoff).Msg("fetch failed; retrying")
			}
			time.Sleep(backoff)
			if backoff < maxBackoff {
				backoff *= 2
			}
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		backoff = 200 * time.Millisecond

		if err := h(ctx, msg.Key, msg.Value); err != nil {
			c.log.Error().Err(err).
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Msg("handler error; offset not committed")
			continue
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.log.Warn().Err(err).Msg("commit failed; will retry later")
		}
	}
}

func (c *Consumer) Close() error { return c.reader.Close() }
