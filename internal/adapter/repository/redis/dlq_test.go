package redis

import (
	"context"
	"encoding/json"
	"testing"
)

func TestDeadLetterQueue(t *testing.T) {
	client, mr := newTestRedisClient(t)
	defer mr.Close()
	defer client.Close()

	q := NewDeadLetterQueue(client, "transactions")
	ctx := context.Background()

	size, err := q.Size(ctx)
	if err != nil || size != 0 {
		t.Fatalf("expected empty queue, got size=%d err=%v", size, err)
	}

	for i := 0; i < 3; i++ {
		err := q.Park(ctx, &DeadLetter{
			Topic:    "transactions",
			Offset:   int64(i),
			Payload:  json.RawMessage(`{"transaction_type":"transfer"}`),
			Error:    "store down",
			Attempts: 3,
			FailedAt: 1_700_000_000,
		})
		if err != nil {
			t.Fatalf("park failed: %v", err)
		}
	}

	size, err = q.Size(ctx)
	if err != nil || size != 3 {
		t.Fatalf("expected 3 parked messages, got size=%d err=%v", size, err)
	}

	letters, err := q.List(ctx, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(letters) != 3 {
		t.Fatalf("expected 3 letters, got %d", len(letters))
	}
	if letters[0].Offset != 0 {
		t.Errorf("expected oldest first, got offset %d", letters[0].Offset)
	}
	if letters[0].Error != "store down" || letters[0].Attempts != 3 {
		t.Errorf("letter lost fields: %+v", letters[0])
	}
}
