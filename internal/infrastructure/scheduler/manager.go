// Package scheduler runs the periodic billing maintenance jobs on gocron.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/coachly/coachly/internal/shared/logger"
)

const purgeInterval = 24 * time.Hour

// BatchJob processes one batch and reports how many items it handled.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// BillingJobs groups the maintenance jobs of the billing pipeline. A nil job
// or a non-positive interval leaves that job unscheduled.
type BillingJobs struct {
	Reconcile         BatchJob
	ReconcileInterval time.Duration
	RetryEvents       BatchJob
	RetryInterval     time.Duration
	PurgeLedger       BatchJob
}

type jobSpec struct {
	name     string
	interval time.Duration
	job      BatchJob
	tags     []string
}

func (j BillingJobs) specs() []jobSpec {
	return []jobSpec{
		{"entitlement-reconcile", j.ReconcileInterval, j.Reconcile, []string{"billing", "reconcile"}},
		{"webhook-retry", j.RetryInterval, j.RetryEvents, []string{"billing", "webhook", "retry"}},
		{"ledger-purge", purgeInterval, j.PurgeLedger, []string{"billing", "webhook", "purge"}},
	}
}

// SchedulerManager owns the gocron scheduler. Runs in flight when Stop is
// called see their context cancelled.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	baseCtx context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	started bool
}

// NewSchedulerManager builds a stopped scheduler. With a non-nil locker each
// run happens on a single instance across the fleet.
func NewSchedulerManager(log logger.Interface, locker gocron.Locker) (*SchedulerManager, error) {
	opts := []gocron.SchedulerOption{gocron.WithLocation(time.UTC)}
	if locker != nil {
		opts = append(opts, gocron.WithDistributedLocker(locker))
	}

	s, err := gocron.NewScheduler(opts...)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &SchedulerManager{
		scheduler: s,
		logger:    log,
		baseCtx:   ctx,
		cancel:    cancel,
	}, nil
}

func (m *SchedulerManager) RegisterBillingJobs(jobs BillingJobs) error {
	scheduled := make([]string, 0, 3)
	for _, spec := range jobs.specs() {
		if spec.job == nil || spec.interval <= 0 {
			m.logger.Infow("scheduled job disabled", "job", spec.name)
			continue
		}
		if err := m.register(spec); err != nil {
			return err
		}
		scheduled = append(scheduled, spec.name)
	}

	m.logger.Infow("registered billing jobs",
		"jobs", scheduled,
		"reconcile_interval", jobs.ReconcileInterval,
		"retry_interval", jobs.RetryInterval,
	)
	return nil
}

func (m *SchedulerManager) register(spec jobSpec) error {
	_, err := m.scheduler.NewJob(
		gocron.DurationJob(spec.interval),
		gocron.NewTask(func() {
			// A run never outlives its own interval.
			ctx, cancel := context.WithTimeout(m.baseCtx, spec.interval)
			defer cancel()
			m.run(ctx, spec.name, spec.job)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags(spec.tags...),
		gocron.WithName(spec.name),
		gocron.WithEventListeners(
			gocron.AfterJobRunsWithPanic(func(_ uuid.UUID, name string, recovered any) {
				m.logger.Errorw("scheduled job panicked", "job", name, "panic", recovered)
			}),
		),
	)
	return err
}

func (m *SchedulerManager) run(ctx context.Context, name string, job BatchJob) {
	started := time.Now()
	count, err := job.Execute(ctx)
	elapsed := time.Since(started)

	switch {
	case err != nil && ctx.Err() != nil && count == 0:
		// Cancelled by Stop or by its own deadline before doing anything.
		m.logger.Debugw("scheduled job interrupted", "job", name, "error", err)
	case err != nil:
		m.logger.Errorw("scheduled job failed", "job", name, "error", err, "count", count, "duration", elapsed)
	case count > 0:
		m.logger.Infow("scheduled job processed items", "job", name, "count", count, "duration", elapsed)
	default:
		m.logger.Debugw("scheduled job found nothing to process", "job", name, "duration", elapsed)
	}
}

// Start is a no-op when the scheduler already runs.
func (m *SchedulerManager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return
	}
	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler started", "jobs", len(m.scheduler.Jobs()))
}

// Stop cancels in-flight runs and waits for them to return. A stopped
// manager cannot be started again.
func (m *SchedulerManager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.cancel()
	if !m.started {
		return nil
	}
	m.started = false

	if err := m.scheduler.Shutdown(); err != nil {
		m.logger.Errorw("scheduler shutdown failed", "error", err)
		return err
	}
	m.logger.Infow("scheduler stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// Jobs returns the registered jobs.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
