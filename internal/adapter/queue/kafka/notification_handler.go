package kafka

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// NotificationHandler feeds fetched notification events to the dispatcher.
// Notifications are not worth a dead letter queue: an undeliverable event is
// logged and dropped.
type NotificationHandler struct {
	dispatcher *usecase.NotificationDispatcher
	logger     *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(dispatcher *usecase.NotificationDispatcher, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// HandleBatch dispatches each event, isolating failures per record.
func (h *NotificationHandler) HandleBatch(ctx context.Context, records []*kgo.Record) error {
	for _, record := range records {
		var event domain.NotificationEvent
		if err := json.Unmarshal(record.Value, &event); err != nil {
			h.logger.Error("undecodable notification event dropped",
				"topic", record.Topic,
				"offset", record.Offset,
				"error", err)
			continue
		}

		if err := h.dispatcher.Dispatch(ctx, &event); err != nil {
			h.logger.Error("notification dispatch failed",
				"user_id", event.UserID,
				"notification_type", string(event.Type),
				"error", err)
		}
	}
	return nil
}
