package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/coachly/coachly/internal/domain/subscription"
	eventvo "github.com/coachly/coachly/internal/domain/webhook/valueobjects"
	"github.com/coachly/coachly/internal/infrastructure/persistence/testdb"
	"github.com/coachly/coachly/internal/infrastructure/repository"
	"github.com/coachly/coachly/internal/shared/db"
	"github.com/coachly/coachly/internal/shared/keylock"
	"github.com/coachly/coachly/internal/shared/logger"
)

var (
	t1 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	t2 = t1.Add(time.Hour)
	t3 = t1.Add(2 * time.Hour)
	t4 = t1.Add(3 * time.Hour)
)

type fixture struct {
	repo   subscription.Repository
	txMgr  *db.TransactionManager
	locker keylock.Locker
	apply  *ApplySubscriptionEventUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gdb := testdb.New(t)
	log := logger.NewNopLogger()
	f := &fixture{
		repo:   repository.NewSubscriptionRepository(gdb, log),
		txMgr:  db.NewTransactionManager(gdb),
		locker: keylock.NewMemoryLocker(),
	}
	f.apply = NewApplySubscriptionEventUseCase(f.repo, f.txMgr, f.locker, 1, log)
	return f
}

func event(externalID, userID string, kind eventvo.EventKind, at time.Time) ApplySubscriptionEventCommand {
	return ApplySubscriptionEventCommand{
		ExternalSubscriptionID: externalID,
		UserID:                 userID,
		Event:                  subscription.LifecycleEvent{Kind: kind, EventTime: at},
	}
}

// recordingLocker records the keys it hands out, in acquisition order.
type recordingLocker struct {
	keylock.Locker

	mu   sync.Mutex
	keys []string
}

func (l *recordingLocker) Lock(ctx context.Context, key string) (func(), error) {
	unlock, err := l.Locker.Lock(ctx, key)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.keys = append(l.keys, key)
	l.mu.Unlock()
	return unlock, nil
}

func (l *recordingLocker) acquired() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.keys...)
}

// withRecordingLocker rebuilds the apply use case around a recordingLocker.
func (f *fixture) withRecordingLocker() *recordingLocker {
	rec := &recordingLocker{Locker: keylock.NewMemoryLocker()}
	f.locker = rec
	f.apply = NewApplySubscriptionEventUseCase(f.repo, f.txMgr, rec, 1, logger.NewNopLogger())
	return rec
}
