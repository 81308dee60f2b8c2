package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kprom"
)

// RecordHandler processes one fetched batch. Implementations own their retry
// and dead-letter policy; returning an error leaves the batch uncommitted so
// the broker redelivers it.
type RecordHandler interface {
	HandleBatch(ctx context.Context, records []*kgo.Record) error
}

// ConsumerConfig configures a Consumer.
type ConsumerConfig struct {
	Brokers        []string
	GroupID        string
	Topic          string
	RecordsPerPoll int
}

// Consumer is a consumer-group poll loop with manual commits. Auto-commit is
// off: offsets move only after the handler accepts the batch, which is what
// gives the pipeline its at-least-once guarantee.
type Consumer struct {
	client  *kgo.Client
	conf    ConsumerConfig
	handler RecordHandler
	logger  *slog.Logger
}

// NewConsumer creates a Consumer for one topic.
func NewConsumer(conf ConsumerConfig, handler RecordHandler, metrics *kprom.Metrics, logger *slog.Logger) (*Consumer, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(conf.Brokers...),
		kgo.ConsumerGroup(conf.GroupID),
		kgo.ConsumeTopics(conf.Topic),
		kgo.DisableAutoCommit(),
		kgo.BlockRebalanceOnPoll(),
	}
	if metrics != nil {
		opts = append(opts, kgo.WithHooks(metrics))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	return &Consumer{
		client:  client,
		conf:    conf,
		handler: handler,
		logger:  logger,
	}, nil
}

// Poll runs the fetch loop until the context is canceled.
func (c *Consumer) Poll(ctx context.Context) error {
	defer c.client.Close()

	for {
		if ctx.Err() != nil {
			c.logger.Info("polling stopped", "topic", c.conf.Topic)
			return ctx.Err()
		}

		fetches := c.client.PollRecords(ctx, c.conf.RecordsPerPoll)
		if fetches.IsClientClosed() {
			return errors.New("kafka client closed")
		}
		if err := fetches.Err0(); errors.Is(err, context.Canceled) {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.Error("fetch error",
				"topic", topic,
				"partition", partition,
				"error", err)
		})

		records := fetches.Records()
		if len(records) == 0 {
			continue
		}

		if err := c.handler.HandleBatch(ctx, records); err != nil {
			// Leave the batch uncommitted; the broker redelivers.
			c.logger.Error("batch handling failed, offsets not committed",
				"topic", c.conf.Topic,
				"records", len(records),
				"error", err)
			continue
		}

		if err := c.client.CommitRecords(ctx, records...); err != nil {
			c.logger.Error("offset commit failed",
				"topic", c.conf.Topic,
				"error", err)
		}
	}
}
