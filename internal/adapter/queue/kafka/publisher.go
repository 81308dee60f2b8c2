package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kprom"

	"github.com/iho/gobank/internal/domain"
)

// Publisher produces transaction work items and notification events. Records
// are keyed so everything for one transaction, and every notification for
// one user, stays on one partition.
type Publisher struct {
	client            *kgo.Client
	transactionTopic  string
	notificationTopic string
}

// PublisherConfig configures a Publisher.
type PublisherConfig struct {
	Brokers           []string
	TransactionTopic  string
	NotificationTopic string
}

// NewPublisher creates a Publisher connected to the given brokers.
func NewPublisher(conf PublisherConfig, metrics *kprom.Metrics) (*Publisher, error) {
	opts := []kgo.Opt{
		kgo.SeedBrokers(conf.Brokers...),
	}
	if metrics != nil {
		opts = append(opts, kgo.WithHooks(metrics))
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	return &Publisher{
		client:            client,
		transactionTopic:  conf.TransactionTopic,
		notificationTopic: conf.NotificationTopic,
	}, nil
}

// PublishTransaction produces one work item per accepted transaction.
func (p *Publisher) PublishTransaction(ctx context.Context, msg *domain.QueueMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal queue message: %w", err)
	}

	record := &kgo.Record{
		Topic: p.transactionTopic,
		Key:   []byte(msg.Transaction.ID),
		Value: data,
	}
	return p.client.ProduceSync(ctx, record).FirstErr()
}

// PublishNotification produces one notification event.
func (p *Publisher) PublishNotification(ctx context.Context, event *domain.NotificationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal notification event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.notificationTopic,
		Key:   []byte(event.UserID),
		Value: data,
	}
	return p.client.ProduceSync(ctx, record).FirstErr()
}

// Close flushes and closes the underlying client.
func (p *Publisher) Close() {
	p.client.Close()
}
