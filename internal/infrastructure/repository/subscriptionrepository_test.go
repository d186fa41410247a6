package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachly/coachly/internal/domain/subscription"
	vo "github.com/coachly/coachly/internal/domain/subscription/valueobjects"
	eventvo "github.com/coachly/coachly/internal/domain/webhook/valueobjects"
	"github.com/coachly/coachly/internal/shared/db"
)

var baseTime = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func newSubscription(t *testing.T, externalID, userID string) *subscription.Subscription {
	t.Helper()
	sub, err := subscription.NewSubscription(externalID, userID, "P-1")
	require.NoError(t, err)
	return sub
}

func applyKind(sub *subscription.Subscription, kind eventvo.EventKind, at time.Time) {
	sub.Apply(subscription.LifecycleEvent{Kind: kind, EventTime: at}, 1)
}

func TestSubscriptionRepository_CreateAndGet(t *testing.T) {
	repo := NewSubscriptionRepository(setupTestDB(t), testLogger)
	ctx := context.Background()

	sub := newSubscription(t, "I-1", "user-1")
	applyKind(sub, eventvo.KindSubscriptionActivated, baseTime)
	require.NoError(t, repo.Create(ctx, sub))
	assert.NotZero(t, sub.ID())

	found, err := repo.GetByExternalID(ctx, "I-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, sub.SID(), found.SID())
	assert.Equal(t, vo.StatusActive, found.Status())
	assert.True(t, baseTime.Equal(found.LastEventTime()))
	assert.True(t, found.LastPaymentEventTime().IsZero())
	require.NotNil(t, found.StartDate())
	assert.True(t, baseTime.Equal(*found.StartDate()))

	bySID, err := repo.GetBySID(ctx, sub.SID())
	require.NoError(t, err)
	assert.Equal(t, "I-1", bySID.ExternalSubscriptionID())

	missing, err := repo.GetByExternalID(ctx, "I-404")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSubscriptionRepository_CreateDuplicateExternalID(t *testing.T) {
	repo := NewSubscriptionRepository(setupTestDB(t), testLogger)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSubscription(t, "I-1", "user-1")))

	err := repo.Create(ctx, newSubscription(t, "I-1", "user-2"))
	assert.ErrorIs(t, err, subscription.ErrSubscriptionExists)
}

func TestSubscriptionRepository_UpdateIsCompareAndSwap(t *testing.T) {
	repo := NewSubscriptionRepository(setupTestDB(t), testLogger)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSubscription(t, "I-1", "user-1")))

	first, err := repo.GetByExternalID(ctx, "I-1")
	require.NoError(t, err)
	second, err := repo.GetByExternalID(ctx, "I-1")
	require.NoError(t, err)

	applyKind(first, eventvo.KindSubscriptionActivated, baseTime)
	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, 2, first.Version())

	applyKind(second, eventvo.KindSubscriptionCancelled, baseTime.Add(time.Hour))
	err = repo.Update(ctx, second)
	assert.ErrorIs(t, err, subscription.ErrConcurrentModification)

	stored, err := repo.GetByExternalID(ctx, "I-1")
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, stored.Status())
	assert.Equal(t, 2, stored.Version())
}

func TestSubscriptionRepository_FindCurrentByUser(t *testing.T) {
	repo := NewSubscriptionRepository(setupTestDB(t), testLogger)
	ctx := context.Background()

	old := newSubscription(t, "I-OLD", "user-1")
	applyKind(old, eventvo.KindSubscriptionCancelled, baseTime)
	require.NoError(t, repo.Create(ctx, old))

	older := newSubscription(t, "I-OLDER", "user-1")
	applyKind(older, eventvo.KindSubscriptionExpired, baseTime.Add(-time.Hour))
	require.NoError(t, repo.Create(ctx, older))

	current, err := repo.FindCurrentByUser(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, "I-OLD", current.ExternalSubscriptionID())

	live := newSubscription(t, "I-LIVE", "user-1")
	applyKind(live, eventvo.KindSubscriptionSuspended, baseTime.Add(-2*time.Hour))
	require.NoError(t, repo.Create(ctx, live))

	current, err = repo.FindCurrentByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "I-LIVE", current.ExternalSubscriptionID())

	nonTerminal, err := repo.FindNonTerminalByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, nonTerminal, 1)
	assert.Equal(t, vo.StatusSuspended, nonTerminal[0].Status())

	none, err := repo.FindCurrentByUser(ctx, "user-2")
	assert.NoError(t, err)
	assert.Nil(t, none)
}

func TestSubscriptionRepository_JoinsContextTransaction(t *testing.T) {
	gormDB := setupTestDB(t)
	repo := NewSubscriptionRepository(gormDB, testLogger)
	txManager := db.NewTransactionManager(gormDB)
	ctx := context.Background()

	err := txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := repo.Create(txCtx, newSubscription(t, "I-TX", "user-1")); err != nil {
			return err
		}
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)

	found, err := repo.GetByExternalID(ctx, "I-TX")
	require.NoError(t, err)
	assert.Nil(t, found)
}
