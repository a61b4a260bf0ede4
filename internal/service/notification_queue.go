package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"clinic-appointment-api/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultNotificationQueueKey is the Redis list holding pending notification tasks
	DefaultNotificationQueueKey = "notifications:queue"

	// How long a worker blocks on BRPOP before re-checking for shutdown
	dequeueTimeout = 5 * time.Second

	// Pause after a Redis error so a dead connection does not spin the worker
	dequeueErrorBackoff = time.Second
)

// NotificationQueue is a FIFO of notification tasks stored in a Redis list.
// Producers LPUSH, consumers BRPOP.
type NotificationQueue struct {
	redisClient *redis.Client
	log         *logrus.Logger
	key         string
}

func NewNotificationQueue(redisClient *redis.Client, log *logrus.Logger, key string) *NotificationQueue {
	if key == "" {
		key = DefaultNotificationQueueKey
	}
	return &NotificationQueue{
		redisClient: redisClient,
		log:         log,
		key:         key,
	}
}

// Enqueue hands a task to the queue. It does not wait for delivery.
func (q *NotificationQueue) Enqueue(ctx context.Context, task entity.NotificationTask) error {
	if task.EnqueuedAt.IsZero() {
		task.EnqueuedAt = time.Now().UTC()
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("marshal notification task: %w", err)
	}
	if err := q.redisClient.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("push notification task for appointment %s: %w", task.AppointmentID, err)
	}
	q.log.Debugf("Queued %s notification for appointment %s", task.Kind, task.AppointmentID)
	return nil
}

// Dequeue blocks up to timeout for the next task. It returns nil, nil on timeout.
func (q *NotificationQueue) Dequeue(ctx context.Context, timeout time.Duration) (*entity.NotificationTask, error) {
	result, err := q.redisClient.BRPop(ctx, timeout, q.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("pop notification task: %w", err)
	}

	// BRPOP replies with [key, value]
	var task entity.NotificationTask
	if err := json.Unmarshal([]byte(result[1]), &task); err != nil {
		return nil, fmt.Errorf("decode notification task: %w", err)
	}
	return &task, nil
}

func (q *NotificationQueue) Len(ctx context.Context) (int64, error) {
	return q.redisClient.LLen(ctx, q.key).Result()
}

// NotificationHandler delivers one task and reports a human-readable status.
type NotificationHandler func(ctx context.Context, task entity.NotificationTask) (string, error)

// NotificationWorker drains a NotificationQueue with a fixed number of consumers.
// Delivery failures are logged and the task is dropped.
type NotificationWorker struct {
	queue   *NotificationQueue
	handler NotificationHandler
	log     *logrus.Logger
	workers int

	cancel  context.CancelFunc
	done    chan struct{}
	started atomic.Bool
	stopped atomic.Bool
	mu      sync.Mutex
}

func NewNotificationWorker(queue *NotificationQueue, handler NotificationHandler, workers int, log *logrus.Logger) *NotificationWorker {
	if workers < 1 {
		workers = 1
	}
	return &NotificationWorker{
		queue:   queue,
		handler: handler,
		log:     log,
		workers: workers,
		done:    make(chan struct{}),
	}
}

// Start launches the consumers in the background. Call Stop during shutdown.
func (w *NotificationWorker) Start(ctx context.Context) {
	if !w.started.CompareAndSwap(false, true) {
		return
	}

	w.mu.Lock()
	ctx, w.cancel = context.WithCancel(ctx)
	w.mu.Unlock()

	go func() {
		defer close(w.done)
		if err := w.run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.log.Errorf("Notification worker exited: %+v", err)
		}
	}()
	w.log.Infof("Notification worker started with %d consumers", w.workers)
}

// Stop cancels the consumers and waits for in-flight deliveries. Safe to call multiple times.
func (w *NotificationWorker) Stop() {
	if !w.started.Load() || !w.stopped.CompareAndSwap(false, true) {
		return
	}
	w.mu.Lock()
	w.cancel()
	w.mu.Unlock()
	<-w.done
	w.log.Info("Notification worker stopped")
}

func (w *NotificationWorker) run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < w.workers; i++ {
		consumerID := i + 1
		g.Go(func() error {
			return w.consume(gctx, consumerID)
		})
	}
	return g.Wait()
}

func (w *NotificationWorker) consume(ctx context.Context, consumerID int) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		task, err := w.queue.Dequeue(ctx, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.log.Warnf("Consumer %d failed to dequeue notification: %+v", consumerID, err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(dequeueErrorBackoff):
			}
			continue
		}
		if task == nil {
			continue
		}

		w.process(ctx, consumerID, *task)
	}
}

func (w *NotificationWorker) process(ctx context.Context, consumerID int, task entity.NotificationTask) {
	entry := w.log.WithFields(logrus.Fields{
		"consumer":       consumerID,
		"kind":           task.Kind,
		"appointment_id": task.AppointmentID,
	})

	status, err := w.handler(ctx, task)
	if err != nil {
		entry.Warnf("Notification delivery failed: %s: %+v", status, err)
		return
	}
	entry.Info(status)
}
