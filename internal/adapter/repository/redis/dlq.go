package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DeadLetter is one parked message with the failure that sent it there.
type DeadLetter struct {
	Topic     string          `json:"topic"`
	Partition int32           `json:"partition"`
	Offset    int64           `json:"offset"`
	Key       string          `json:"key,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	Error     string          `json:"error"`
	Attempts  int             `json:"attempts"`
	FailedAt  int64           `json:"failed_at"`
}

// DeadLetterQueue parks messages that exhausted their retries in a Redis
// list so they can be inspected and replayed by hand. The consumer commits
// the offset after parking; at-least-once delivery is preserved by the park
// itself.
type DeadLetterQueue struct {
	client *redis.Client
	key    string
}

// NewDeadLetterQueue creates a DLQ for the given logical queue name.
func NewDeadLetterQueue(client *redis.Client, name string) *DeadLetterQueue {
	return &DeadLetterQueue{
		client: client,
		key:    "dlq:" + name,
	}
}

// Park appends a failed message to the queue.
func (q *DeadLetterQueue) Park(ctx context.Context, letter *DeadLetter) error {
	data, err := json.Marshal(letter)
	if err != nil {
		return fmt.Errorf("marshal dead letter: %w", err)
	}
	return q.client.RPush(ctx, q.key, data).Err()
}

// List returns up to limit parked messages, oldest first.
func (q *DeadLetterQueue) List(ctx context.Context, limit int64) ([]*DeadLetter, error) {
	if limit <= 0 {
		limit = 100
	}
	raw, err := q.client.LRange(ctx, q.key, 0, limit-1).Result()
	if err != nil {
		return nil, err
	}
	letters := make([]*DeadLetter, 0, len(raw))
	for _, r := range raw {
		var letter DeadLetter
		if err := json.Unmarshal([]byte(r), &letter); err != nil {
			return nil, fmt.Errorf("unmarshal dead letter: %w", err)
		}
		letters = append(letters, &letter)
	}
	return letters, nil
}

// Size returns the number of parked messages.
func (q *DeadLetterQueue) Size(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}
