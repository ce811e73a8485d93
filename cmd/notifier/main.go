package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/moim/ledger-notify/internal/application/fanout"
	"github.com/moim/ledger-notify/internal/config"
	"github.com/moim/ledger-notify/internal/infrastructure/dynamo"
	kafkax "github.com/moim/ledger-notify/internal/infrastructure/kafka"
	snsinfra "github.com/moim/ledger-notify/internal/infrastructure/sns"
	"github.com/moim/ledger-notify/internal/pkg/logging"
	"github.com/moim/ledger-notify/internal/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	_ = godotenv.Load()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	log := logging.New(cfg.AppEnv).With().Str("service", "notifier").Logger()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(rootCtx, dynamoClient, cfg.DynamoTables, log)

	pushSender, err := snsinfra.NewSender(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("sns sender")
	}

	consumer := kafkax.NewConsumer(cfg.Kafka, log)
	defer func() { _ = consumer.Close() }()

	m := metrics.New("ledger_notify")
	svc := fanout.NewService(
		dynamo.NewMemberRepo(dynamoClient, cfg.DynamoTables.GroupMembers),
		dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications),
		dynamo.NewPushTokenRepo(dynamoClient, cfg.DynamoTables.PushTokens),
		pushSender,
		m,
		log,
	)
	ctrl := fanout.NewController(consumer, svc, log)

	// Metrics listener for the worker.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	ms := &http.Server{Addr: fmt.Sprintf(":%s", cfg.MetricsPort), Handler: mux}
	go func() {
		if err := ms.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server")
		}
	}()

	log.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Str("topic", cfg.Kafka.Topic).
		Str("group", cfg.Kafka.GroupID).
		Msg("notifier starting")

	if err := ctrl.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("controller stopped")
	}

	shCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = ms.Shutdown(shCtx)
	log.Info().Msg("notifier stopped")
}
