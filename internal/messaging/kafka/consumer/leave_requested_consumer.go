package consumer

import (
	"context"
	"encoding/json"

	"go-lams/internal/events"
	"go-lams/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func ConsumeLeaveRequested(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_requested")
	log.Info("leave requested consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave requested consumer stopped")
				return
			}
			log.Error("fetch leave_requested message failed", zap.Error(err))
			continue
		}

		var event events.LeaveRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave_requested event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notificationService.CreateFromLeaveRequested(ctx, event); err != nil {
			log.Error("create notification from leave_requested failed",
				zap.String("request_id", event.RequestID),
				zap.String("recipient_id", event.RecipientID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave_requested message failed", zap.Error(err))
			continue
		}

		log.Info("notification created from leave_requested event",
			zap.String("request_id", event.RequestID),
			zap.String("recipient_id", event.RecipientID),
		)
	}
}
