package taskqueue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-league/internal/entity"
)

// ErrEmpty is returned by Dequeue when no task arrived before the timeout.
var ErrEmpty = errors.New("task queue is empty")

// Envelope is a task as it travels through the queue.
type Envelope struct {
	ID         string      `json:"id"`
	Task       entity.Task `json:"task"`
	Attempts   int         `json:"attempts"`
	EnqueuedAt time.Time   `json:"enqueued_at"`

	// raw is the exact payload held in the processing list.
	raw string
}

// Queue is a reliable FIFO on two Redis lists. Dequeued tasks stay in the
// processing list until they are acknowledged or retried.
type Queue struct {
	client *redis.Client

	pendingKey    string
	processingKey string
}

func NewQueue(client *redis.Client, name string) *Queue {
	return &Queue{
		client: client,

		pendingKey:    "tasks:" + name + ":pending",
		processingKey: "tasks:" + name + ":processing",
	}
}

func (that *Queue) Enqueue(ctx context.Context, tasks ...entity.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	payloads := make([]any, 0, len(tasks))
	for _, task := range tasks {
		payload, err := json.Marshal(Envelope{
			ID:         uuid.NewString(),
			Task:       task,
			EnqueuedAt: time.Now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("could not marshal task: %w", err)
		}

		payloads = append(payloads, payload)
	}

	if err := that.client.LPush(ctx, that.pendingKey, payloads...).Err(); err != nil {
		return fmt.Errorf("failed to enqueue tasks: %w", err)
	}

	return nil
}

// Dequeue blocks up to timeout for the oldest pending task and moves it to the
// processing list. Timeouts below one second are rounded up by Redis.
func (that *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*Envelope, error) {
	raw, err := that.client.BRPopLPush(ctx, that.pendingKey, that.processingKey, timeout).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrEmpty
	}

	if err != nil {
		return nil, fmt.Errorf("failed to dequeue task: %w", err)
	}

	envelope, err := decode(raw)
	if err != nil {
		// a payload nobody can decode would block the processing list forever
		_ = that.client.LRem(ctx, that.processingKey, 1, raw).Err()
		return nil, err
	}

	return envelope, nil
}

// Ack drops a finished task from the processing list.
func (that *Queue) Ack(ctx context.Context, envelope *Envelope) error {
	if err := that.client.LRem(ctx, that.processingKey, 1, envelope.raw).Err(); err != nil {
		return fmt.Errorf("failed to ack task %s: %w", envelope.ID, err)
	}

	return nil
}

// Retry puts a failed task back in the pending list with one more attempt counted.
func (that *Queue) Retry(ctx context.Context, envelope *Envelope) error {
	retried := *envelope
	retried.Attempts++

	payload, err := json.Marshal(retried)
	if err != nil {
		return fmt.Errorf("could not marshal task: %w", err)
	}

	_, err = that.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, that.processingKey, 1, envelope.raw)
		pipe.LPush(ctx, that.pendingKey, payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to retry task %s: %w", envelope.ID, err)
	}

	return nil
}

// RecoverProcessing moves tasks left in the processing list by a stopped worker
// back to the pending list. It must run before any worker starts.
func (that *Queue) RecoverProcessing(ctx context.Context) (int, error) {
	recovered := 0

	for {
		err := that.client.RPopLPush(ctx, that.processingKey, that.pendingKey).Err()
		if errors.Is(err, redis.Nil) {
			return recovered, nil
		}

		if err != nil {
			return recovered, fmt.Errorf("failed to recover tasks: %w", err)
		}

		recovered++
	}
}

// Len reports the number of pending tasks.
func (that *Queue) Len(ctx context.Context) (int64, error) {
	n, err := that.client.LLen(ctx, that.pendingKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}

	return n, nil
}

func decode(raw string) (*Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task: %w", err)
	}

	envelope.raw = raw

	return &envelope, nil
}
