package app

import (
	"context"
	"sync"

	"go-lams/internal/events"
	"go-lams/internal/messaging/kafka/consumer"
	"go-lams/internal/notification"
	"go-lams/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const consumerGroup = "lams-notifications"

// RunConsumer materializes notifications from the leave event topics. It
// blocks until ctx is canceled.
func RunConsumer(ctx context.Context, cfg Config, logger *zap.Logger) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode, 5,
	)
	if err != nil {
		return err
	}

	notificationService := notification.NewService(notification.NewRepository(gormDB), logger)

	requestedReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		GroupID: consumerGroup,
		Topic:   events.LeaveRequestedTopic,
	})
	defer requestedReader.Close()

	decidedReader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		GroupID: consumerGroup,
		Topic:   events.LeaveDecidedTopic,
	})
	defer decidedReader.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		consumer.ConsumeLeaveRequested(ctx, requestedReader, notificationService, logger)
	}()
	go func() {
		defer wg.Done()
		consumer.ConsumeLeaveDecided(ctx, decidedReader, notificationService, logger)
	}()
	wg.Wait()
	return nil
}
