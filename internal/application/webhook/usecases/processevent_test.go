package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	subscriptionUsecases "github.com/coachly/coachly/internal/application/subscription/usecases"
	"github.com/coachly/coachly/internal/application/webhook/usecases/mocks"
	"github.com/coachly/coachly/internal/domain/subscription"
	vo "github.com/coachly/coachly/internal/domain/subscription/valueobjects"
	"github.com/coachly/coachly/internal/domain/webhook"
	webhookmocks "github.com/coachly/coachly/internal/domain/webhook/mocks"
	eventvo "github.com/coachly/coachly/internal/domain/webhook/valueobjects"
	"github.com/coachly/coachly/internal/shared/logger"
)

type processDeps struct {
	applier *mocks.MockSubscriptionEventApplier
	syncer  *mocks.MockEntitlementSyncer
	ledger  *webhookmocks.MockIdempotencyRepository
	uc      *ProcessEventUseCase
}

func newProcessDeps(t *testing.T) *processDeps {
	t.Helper()
	ctrl := gomock.NewController(t)
	d := &processDeps{
		applier: mocks.NewMockSubscriptionEventApplier(ctrl),
		syncer:  mocks.NewMockEntitlementSyncer(ctrl),
		ledger:  webhookmocks.NewMockIdempotencyRepository(ctrl),
	}
	d.uc = NewProcessEventUseCase(d.applier, d.syncer, d.ledger, logger.NewNopLogger())
	return d
}

func activeResult(t *testing.T) *subscriptionUsecases.ApplySubscriptionEventResult {
	t.Helper()
	sub, err := subscription.NewSubscription("I-1", "user-1", "P-PRO")
	require.NoError(t, err)
	transition := sub.Apply(subscription.LifecycleEvent{Kind: eventvo.KindSubscriptionActivated, EventTime: eventTime}, 1)
	return &subscriptionUsecases.ApplySubscriptionEventResult{Subscription: sub, Transition: transition, Created: true}
}

func TestProcessEvent_AppliesSyncsAndCompletes(t *testing.T) {
	d := newProcessDeps(t)
	env := envelope(t, "WH-1", "BILLING.SUBSCRIPTION.ACTIVATED", "I-1", "user-1")

	d.applier.EXPECT().
		Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd subscriptionUsecases.ApplySubscriptionEventCommand) (*subscriptionUsecases.ApplySubscriptionEventResult, error) {
			assert.Equal(t, "I-1", cmd.ExternalSubscriptionID)
			assert.Equal(t, "user-1", cmd.UserID)
			assert.Equal(t, eventvo.KindSubscriptionActivated, cmd.Event.Kind)
			assert.Equal(t, "P-PRO", cmd.Event.PlanID)
			return activeResult(t), nil
		})
	d.syncer.EXPECT().Sync(gomock.Any(), "user-1").Return(nil)
	d.ledger.EXPECT().MarkCompleted(gomock.Any(), "WH-1", gomock.Not("")).Return(nil)

	require.NoError(t, d.uc.Execute(context.Background(), env))
}

func TestProcessEvent_UnrecognizedIsCompletedWithoutApplying(t *testing.T) {
	d := newProcessDeps(t)
	env := envelope(t, "WH-2", "CUSTOMER.DISPUTE.CREATED", "PP-D-1", "")

	d.ledger.EXPECT().MarkCompleted(gomock.Any(), "WH-2", gomock.Any()).Return(nil)

	require.NoError(t, d.uc.Execute(context.Background(), env))
}

func TestProcessEvent_ApplyFailureMarksFailed(t *testing.T) {
	d := newProcessDeps(t)
	env := envelope(t, "WH-3", "BILLING.SUBSCRIPTION.ACTIVATED", "I-1", "")

	d.applier.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(nil, subscription.ErrUnknownSubscriber)
	d.ledger.EXPECT().
		MarkFailed(gomock.Any(), "WH-3", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, reason string) error {
			assert.Contains(t, reason, subscription.ErrUnknownSubscriber.Error())
			return nil
		})

	err := d.uc.Execute(context.Background(), env)
	assert.ErrorIs(t, err, subscription.ErrUnknownSubscriber)
}

func TestProcessEvent_SyncFailureMarksFailed(t *testing.T) {
	d := newProcessDeps(t)
	env := envelope(t, "WH-4", "BILLING.SUBSCRIPTION.ACTIVATED", "I-1", "user-1")
	syncErr := errors.New("lock wait timeout")

	d.applier.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(activeResult(t), nil)
	d.syncer.EXPECT().Sync(gomock.Any(), "user-1").Return(syncErr)
	d.ledger.EXPECT().MarkFailed(gomock.Any(), "WH-4", gomock.Any()).Return(nil)

	err := d.uc.Execute(context.Background(), env)
	assert.ErrorIs(t, err, syncErr)
}

func TestProcessEvent_MarksFailedAfterCancellation(t *testing.T) {
	d := newProcessDeps(t)
	env := envelope(t, "WH-5", "BILLING.SUBSCRIPTION.ACTIVATED", "I-1", "user-1")
	ctx, cancel := context.WithCancel(context.Background())

	d.applier.EXPECT().
		Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ subscriptionUsecases.ApplySubscriptionEventCommand) (*subscriptionUsecases.ApplySubscriptionEventResult, error) {
			cancel()
			return nil, ctx.Err()
		})
	d.ledger.EXPECT().
		MarkFailed(gomock.Any(), "WH-5", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _, _ string) error {
			assert.NoError(t, ctx.Err())
			return nil
		})

	err := d.uc.Execute(ctx, env)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProcessEvent_OutcomeHashIsDeterministic(t *testing.T) {
	var hashes []string
	for range 2 {
		d := newProcessDeps(t)
		env := envelope(t, "WH-6", "BILLING.SUBSCRIPTION.ACTIVATED", "I-1", "user-1")
		d.applier.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(activeResult(t), nil)
		d.syncer.EXPECT().Sync(gomock.Any(), "user-1").Return(nil)
		d.ledger.EXPECT().
			MarkCompleted(gomock.Any(), "WH-6", gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, hash string) error {
				hashes = append(hashes, hash)
				return nil
			})
		require.NoError(t, d.uc.Execute(context.Background(), env))
	}

	require.Len(t, hashes, 2)
	assert.Equal(t, hashes[0], hashes[1])
	assert.Equal(t, webhook.HashOutcome("WH-6", "applied", "I-1", vo.StatusActive.String(), eventTime.Format(time.RFC3339Nano)), hashes[0])
}
