package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachly/coachly/internal/domain/webhook"
	"github.com/coachly/coachly/internal/shared/logger"
)

func TestEventQueue_ProcessesEnqueuedEvents(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	q := NewEventQueue(8, 2, time.Second, func(_ context.Context, env *webhook.Envelope) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, env.EventID)
		return nil
	}, logger.NewNopLogger())

	done := make(chan error, 1)
	go func() { done <- q.Run(context.Background()) }()

	for _, id := range []string{"WH-1", "WH-2", "WH-3"} {
		require.True(t, q.Enqueue(&webhook.Envelope{EventID: id}))
	}
	q.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("workers did not drain the queue")
	}
	assert.ElementsMatch(t, []string{"WH-1", "WH-2", "WH-3"}, seen)
	assert.False(t, q.Enqueue(&webhook.Envelope{EventID: "WH-4"}))
}

func TestEventQueue_EnqueueNeverBlocks(t *testing.T) {
	q := NewEventQueue(1, 1, time.Second, func(context.Context, *webhook.Envelope) error { return nil }, logger.NewNopLogger())

	assert.True(t, q.Enqueue(&webhook.Envelope{EventID: "WH-1"}))
	assert.False(t, q.Enqueue(&webhook.Envelope{EventID: "WH-2"}))
	assert.Equal(t, 1, q.Len())
}

func TestEventQueue_SurvivesPanicsAndErrors(t *testing.T) {
	processed := make(chan string, 3)
	q := NewEventQueue(4, 1, time.Second, func(_ context.Context, env *webhook.Envelope) error {
		processed <- env.EventID
		switch env.EventID {
		case "WH-PANIC":
			panic("boom")
		case "WH-ERR":
			return errors.New("apply failed")
		}
		return nil
	}, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = q.Run(ctx) }()

	q.Enqueue(&webhook.Envelope{EventID: "WH-PANIC"})
	q.Enqueue(&webhook.Envelope{EventID: "WH-ERR"})
	q.Enqueue(&webhook.Envelope{EventID: "WH-OK"})

	var got []string
	for range 3 {
		select {
		case id := <-processed:
			got = append(got, id)
		case <-time.After(5 * time.Second):
			t.Fatal("worker stopped after a failing event")
		}
	}
	assert.Equal(t, []string{"WH-PANIC", "WH-ERR", "WH-OK"}, got)
}

func TestEventQueue_StopsOnContextCancel(t *testing.T) {
	q := NewEventQueue(4, 2, time.Second, func(context.Context, *webhook.Envelope) error { return nil }, logger.NewNopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- q.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("workers ignored cancellation")
	}
}

func TestEventQueue_BoundsEachEventByTimeout(t *testing.T) {
	const timeout = 50 * time.Millisecond

	var (
		mu        sync.Mutex
		deadlines []time.Duration
		errs      []error
	)
	q := NewEventQueue(4, 1, timeout, func(ctx context.Context, env *webhook.Envelope) error {
		deadline, ok := ctx.Deadline()
		assert.True(t, ok, "handler context has no deadline")

		// A handler stuck on a lock or query is released by the deadline.
		<-ctx.Done()

		mu.Lock()
		defer mu.Unlock()
		deadlines = append(deadlines, time.Until(deadline))
		errs = append(errs, ctx.Err())
		return ctx.Err()
	}, logger.NewNopLogger())

	done := make(chan error, 1)
	go func() { done <- q.Run(context.Background()) }()

	require.True(t, q.Enqueue(&webhook.Envelope{EventID: "WH-1"}))
	require.True(t, q.Enqueue(&webhook.Envelope{EventID: "WH-2"}))
	q.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("a hung handler pinned the worker")
	}

	require.Len(t, errs, 2)
	for i := range errs {
		assert.ErrorIs(t, errs[i], context.DeadlineExceeded)
		assert.LessOrEqual(t, deadlines[i], timeout)
	}
}

func TestEventQueue_DefaultsProcessTimeout(t *testing.T) {
	q := NewEventQueue(1, 1, 0, func(context.Context, *webhook.Envelope) error { return nil }, logger.NewNopLogger())
	assert.Equal(t, defaultProcessTimeout, q.timeout)
}
