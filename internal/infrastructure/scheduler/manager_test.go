package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachly/coachly/internal/shared/logger"
)

type countingJob struct {
	calls atomic.Int32
	err   error
}

func (j *countingJob) Execute(context.Context) (int, error) {
	j.calls.Add(1)
	return 1, j.err
}

func TestSchedulerManager_RegisterBillingJobs(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger(), nil)
	require.NoError(t, err)

	reconcile := &countingJob{}
	retry := &countingJob{err: errors.New("partial failure")}
	purge := &countingJob{}

	require.NoError(t, m.RegisterBillingJobs(BillingJobs{
		Reconcile:         reconcile,
		ReconcileInterval: time.Hour,
		RetryEvents:       retry,
		RetryInterval:     time.Hour,
		PurgeLedger:       purge,
	}))

	names := make([]string, 0, len(m.Jobs()))
	for _, job := range m.Jobs() {
		names = append(names, job.Name())
	}
	assert.ElementsMatch(t, []string{"entitlement-reconcile", "webhook-retry", "ledger-purge"}, names)

	m.Start()
	assert.True(t, m.IsStarted())
	assert.Eventually(t, func() bool {
		return reconcile.calls.Load() >= 1 && retry.calls.Load() >= 1 && purge.calls.Load() >= 1
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.False(t, m.IsStarted())
}

func TestSchedulerManager_SkipsDisabledJobs(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger(), nil)
	require.NoError(t, err)

	require.NoError(t, m.RegisterBillingJobs(BillingJobs{
		Reconcile:         &countingJob{},
		ReconcileInterval: time.Minute,
	}))
	require.Len(t, m.Jobs(), 1)
	assert.Equal(t, "entitlement-reconcile", m.Jobs()[0].Name())
}

type blockingJob struct {
	started chan struct{}
	stopped atomic.Bool
}

func (j *blockingJob) Execute(ctx context.Context) (int, error) {
	close(j.started)
	<-ctx.Done()
	j.stopped.Store(true)
	return 0, ctx.Err()
}

func TestSchedulerManager_StopCancelsRunningJob(t *testing.T) {
	m, err := NewSchedulerManager(logger.NewNopLogger(), nil)
	require.NoError(t, err)

	job := &blockingJob{started: make(chan struct{})}
	require.NoError(t, m.RegisterBillingJobs(BillingJobs{
		Reconcile:         job,
		ReconcileInterval: time.Hour,
	}))

	m.Start()
	select {
	case <-job.started:
	case <-time.After(5 * time.Second):
		t.Fatal("job never started")
	}

	require.NoError(t, m.Stop())
	assert.Eventually(t, job.stopped.Load, time.Second, 10*time.Millisecond)
}
