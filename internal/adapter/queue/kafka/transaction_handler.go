package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/twmb/franz-go/pkg/kgo"

	redisrepo "github.com/iho/gobank/internal/adapter/repository/redis"
	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/infrastructure/metrics"
	"github.com/iho/gobank/internal/usecase"
)

const maxProcessAttempts = 3

// TransactionHandler feeds fetched transaction messages to the processor.
// Each record is retried with exponential backoff; a record that exhausts
// its attempts (or cannot be decoded at all) is parked in the dead letter
// queue so the batch commits and the partition keeps moving.
type TransactionHandler struct {
	processor *usecase.TransactionProcessor
	dlq       *redisrepo.DeadLetterQueue
	logger    *slog.Logger

	initialInterval time.Duration
	now             func() time.Time
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(processor *usecase.TransactionProcessor, dlq *redisrepo.DeadLetterQueue, logger *slog.Logger) *TransactionHandler {
	return &TransactionHandler{
		processor:       processor,
		dlq:             dlq,
		logger:          logger,
		initialInterval: 500 * time.Millisecond,
		now:             time.Now,
	}
}

// HandleBatch processes records independently and reports aggregate counts.
// It always returns nil: failures are parked, never redelivered by the
// broker, so one poison message cannot wedge the partition.
func (h *TransactionHandler) HandleBatch(ctx context.Context, records []*kgo.Record) error {
	var processed, failed int

	for _, record := range records {
		var msg domain.QueueMessage
		if err := json.Unmarshal(record.Value, &msg); err != nil {
			h.park(ctx, record, err, 1)
			failed++
			continue
		}

		if err := h.processWithRetry(ctx, &msg); err != nil {
			h.park(ctx, record, err, maxProcessAttempts)
			failed++
			continue
		}
		processed++
	}

	h.logger.Info("transaction batch done",
		"processed", processed,
		"failed", failed)
	return nil
}

func (h *TransactionHandler) processWithRetry(ctx context.Context, msg *domain.QueueMessage) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = h.initialInterval

	policy := backoff.WithContext(backoff.WithMaxRetries(b, maxProcessAttempts-1), ctx)

	return backoff.Retry(func() error {
		err := h.processor.ProcessMessage(ctx, msg)
		if errors.Is(err, domain.ErrInvalidRequest) {
			// Malformed payloads never become valid on retry.
			return backoff.Permanent(err)
		}
		return err
	}, policy)
}

func (h *TransactionHandler) park(ctx context.Context, record *kgo.Record, cause error, attempts int) {
	letter := &redisrepo.DeadLetter{
		Topic:     record.Topic,
		Partition: record.Partition,
		Offset:    record.Offset,
		Key:       string(record.Key),
		Payload:   json.RawMessage(record.Value),
		Error:     cause.Error(),
		Attempts:  attempts,
		FailedAt:  h.now().Unix(),
	}
	if err := h.dlq.Park(ctx, letter); err != nil {
		h.logger.Error("dead letter park failed, record will be lost",
			"topic", record.Topic,
			"offset", record.Offset,
			"error", err)
		return
	}
	metrics.DeadLettered.Inc()
	h.logger.Warn("record parked in dead letter queue",
		"topic", record.Topic,
		"offset", record.Offset,
		"cause", cause.Error())
}
