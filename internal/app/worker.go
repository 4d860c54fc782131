package app

import (
	"context"
	"time"

	"go-lams/internal/messaging/kafka"
	"go-lams/internal/messaging/kafka/producer"
	"go-lams/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker polls the outbox table and publishes pending events to kafka.
// It blocks until ctx is canceled.
func RunWorker(ctx context.Context, cfg Config, logger *zap.Logger) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode, 5,
	)
	if err != nil {
		return err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	writer, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, 5)
	if err != nil {
		return err
	}
	defer writer.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	producer.ProcessOutboxEvents(ctx, outboxRepo, writer, logger, 3*time.Second)
	return nil
}
