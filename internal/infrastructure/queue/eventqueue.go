// Package queue runs claimed webhook events on a fixed pool of background workers.
package queue

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/coachly/coachly/internal/domain/webhook"
	"github.com/coachly/coachly/internal/shared/goroutine"
	"github.com/coachly/coachly/internal/shared/logger"
)

// Handler processes one event. Its error is only logged; the ledger row
// already records the failure for the retry sweeper.
type Handler func(ctx context.Context, env *webhook.Envelope) error

// EventQueue is a bounded in-memory buffer in front of the workers. Events
// dropped on shutdown stay pending in the ledger and are replayed later.
type EventQueue struct {
	events  chan *webhook.Envelope
	handler Handler
	workers int
	timeout time.Duration
	logger  logger.Interface

	mu     sync.RWMutex
	closed bool
}

const defaultProcessTimeout = 30 * time.Second

// NewEventQueue creates a queue whose handler gets at most timeout per event.
func NewEventQueue(size, workers int, timeout time.Duration, handler Handler, log logger.Interface) *EventQueue {
	if timeout <= 0 {
		timeout = defaultProcessTimeout
	}
	if size <= 0 {
		size = 1
	}
	if workers <= 0 {
		workers = 1
	}
	return &EventQueue{
		events:  make(chan *webhook.Envelope, size),
		handler: handler,
		workers: workers,
		timeout: timeout,
		logger:  log,
	}
}

// Enqueue hands an event to the workers without blocking.
func (q *EventQueue) Enqueue(env *webhook.Envelope) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}
	select {
	case q.events <- env:
		return true
	default:
		return false
	}
}

// Run blocks until ctx is cancelled or Close drains the buffer.
func (q *EventQueue) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < q.workers; i++ {
		g.Go(func() error {
			q.work(gctx)
			return nil
		})
	}

	q.logger.Infow("webhook event workers started",
		"workers", q.workers,
		"buffer", cap(q.events),
		"process_timeout", q.timeout,
	)
	err := g.Wait()
	q.logger.Infow("webhook event workers stopped", "pending", len(q.events))
	return err
}

// Close stops accepting events. Workers finish what is already buffered.
func (q *EventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.events)
}

// Len reports the number of buffered events.
func (q *EventQueue) Len() int {
	return len(q.events)
}

func (q *EventQueue) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-q.events:
			if !ok {
				return
			}
			_ = goroutine.SafeRun(q.logger, "webhook-worker", func() error {
				eventCtx, cancel := context.WithTimeout(ctx, q.timeout)
				defer cancel()

				if err := q.handler(eventCtx, env); err != nil {
					q.logger.Warnw("queued webhook event failed", "error", err, "event_id", env.EventID)
				}
				return nil
			})
		}
	}
}
