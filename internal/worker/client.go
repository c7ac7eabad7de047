package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Client enqueues deferred tasks. The expiry task is the durable deadline
// behind every unpaid hold; notifications ride the same queue infrastructure
// but are best-effort.
type Client struct {
	client *asynq.Client
	log    *zap.Logger
}

func NewClient(redisOpt asynq.RedisClientOpt, log *zap.Logger) *Client {
	return &Client{
		client: asynq.NewClient(redisOpt),
		log:    log.With(zap.String("worker", "client")),
	}
}

// ScheduleExpiry arms the booking's expiry task to fire after delay. asynq
// persists the task in redis, so the deadline survives process restarts and
// is delivered at least once.
func (c *Client) ScheduleExpiry(ctx context.Context, bookingID uuid.UUID, delay time.Duration) error {
	payload, err := json.Marshal(BookingExpirePayload{BookingID: bookingID.String()})
	if err != nil {
		return fmt.Errorf("encode expiry payload: %w", err)
	}

	task := asynq.NewTask(TypeBookingExpire, payload)
	info, err := c.client.EnqueueContext(ctx, task,
		asynq.ProcessIn(delay),
		asynq.Queue(QueueCritical),
		asynq.MaxRetry(10),
		asynq.TaskID("expire:"+bookingID.String()),
	)
	if err != nil {
		return fmt.Errorf("enqueue expiry for booking %s: %w", bookingID.String(), err)
	}

	c.log.Info("Expiry task armed",
		zap.String("booking_id", bookingID.String()),
		zap.String("task_id", info.ID),
		zap.Duration("delay", delay),
	)

	return nil
}

// Notify is fire-and-forget; an enqueue failure is logged and swallowed so
// it can never roll back a booking.
func (c *Client) Notify(ctx context.Context, kind string, payload map[string]any) {
	raw, err := json.Marshal(NotifyEventPayload{Kind: kind, Payload: payload})
	if err != nil {
		c.log.Warn("Failed to encode notification", zap.Error(err), zap.String("kind", kind))
		return
	}

	task := asynq.NewTask(TypeNotifyEvent, raw)
	if _, err := c.client.EnqueueContext(ctx, task, asynq.Queue(QueueLow), asynq.MaxRetry(3)); err != nil {
		c.log.Warn("Failed to enqueue notification",
			zap.Error(err),
			zap.String("kind", kind),
		)
	}
}

func (c *Client) Close() error {
	return c.client.Close()
}
