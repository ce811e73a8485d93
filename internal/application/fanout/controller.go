package fanout

import (
	"context"
	"encoding/json"

	"github.com/moim/ledger-notify/internal/domain"
	kafkax "github.com/moim/ledger-notify/internal/infrastructure/kafka"
	"github.com/moim/ledger-notify/internal/pkg/id"
	"github.com/rs/zerolog"
)

// Controller binds the Kafka transaction topic to the fan-out service.
type Controller struct {
	log zerolog.Logger
	sub *kafkax.Consumer
	svc Service
}

func NewController(sub *kafkax.Consumer, svc Service, log zerolog.Logger) *Controller {
	return &Controller{
		log: log.With().Str("component", "fanout.controller").Logger(),
		sub: sub,
		svc: svc,
	}
}

func (c *Controller) Run(ctx context.Context) error {
	return c.sub.Consume(ctx, c.handle)
}

// handle decodes one transaction-created event. Malformed events are logged
// and committed (returning an error would redeliver a poison message forever);
// a recipient-resolution failure is returned so the offset stays uncommitted
// and the broker redelivers the event.
func (c *Controller) handle(ctx context.Context, key, value []byte) error {
	var ev domain.TransactionCreated
	if err := json.Unmarshal(value, &ev); err != nil {
		c.log.Warn().Err(err).Str("key", string(key)).Msg("undecodable event; skipping")
		return nil
	}
	tx := ev.Transaction
	if tx.GroupID == "" || tx.TransactionID == "" {
		c.log.Warn().Str("key", string(key)).Msg("event missing group or transaction id; skipping")
		return nil
	}

	log := c.log.With().
		Str("event_id", id.New()).
		Str("group_id", tx.GroupID).
		Str("transaction_id", tx.TransactionID).
		Logger()
	log.Info().Msg("transaction event received")

	res, err := c.svc.HandleTransactionCreated(ctx, tx)
	if err != nil {
		return err
	}
	if failed := res.Failed(); failed > 0 {
		log.Warn().Int("failed", failed).Msg("fan-out finished with partial failures")
	}
	return nil
}
