package usecases

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/coachly/coachly/internal/application/subscription/usecases/mocks"
	"github.com/coachly/coachly/internal/domain/subscription"
	vo "github.com/coachly/coachly/internal/domain/subscription/valueobjects"
	eventvo "github.com/coachly/coachly/internal/domain/webhook/valueobjects"
	apperrors "github.com/coachly/coachly/internal/shared/errors"
	"github.com/coachly/coachly/internal/shared/logger"
)

func newRegisterCheckout(t *testing.T, f *fixture) (*RegisterCheckoutUseCase, *mocks.MockEntitlementSyncer) {
	t.Helper()
	ctrl := gomock.NewController(t)
	syncer := mocks.NewMockEntitlementSyncer(ctrl)
	return NewRegisterCheckoutUseCase(f.repo, f.txMgr, f.locker, syncer, logger.NewNopLogger()), syncer
}

func TestRegisterCheckout_CreatesPendingSubscription(t *testing.T) {
	f := newFixture(t)
	uc, syncer := newRegisterCheckout(t, f)
	ctx := context.Background()

	syncer.EXPECT().Sync(gomock.Any(), "user-1").Return(nil)

	result, err := uc.Execute(ctx, RegisterCheckoutCommand{
		UserID:                 "user-1",
		ExternalSubscriptionID: "I-1",
		PlanID:                 "P-PRO",
	})
	require.NoError(t, err)
	assert.Equal(t, vo.StatusPending.String(), result.Status)
	assert.Equal(t, "P-PRO", result.PlanID)
	assert.False(t, result.IsActive)
	assert.Nil(t, result.LastEventTime)

	stored, err := f.repo.GetByExternalID(ctx, "I-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "user-1", stored.UserID())
}

func TestRegisterCheckout_IsIdempotentForTheSameUser(t *testing.T) {
	f := newFixture(t)
	uc, syncer := newRegisterCheckout(t, f)
	ctx := context.Background()

	syncer.EXPECT().Sync(gomock.Any(), "user-1").Return(nil).Times(2)

	cmd := RegisterCheckoutCommand{UserID: "user-1", ExternalSubscriptionID: "I-1"}
	first, err := uc.Execute(ctx, cmd)
	require.NoError(t, err)
	second, err := uc.Execute(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestRegisterCheckout_RejectsAnotherUsersSubscription(t *testing.T) {
	f := newFixture(t)
	uc, syncer := newRegisterCheckout(t, f)
	ctx := context.Background()

	syncer.EXPECT().Sync(gomock.Any(), "user-1").Return(nil)

	_, err := uc.Execute(ctx, RegisterCheckoutCommand{UserID: "user-1", ExternalSubscriptionID: "I-1"})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, RegisterCheckoutCommand{UserID: "user-2", ExternalSubscriptionID: "I-1"})
	assert.True(t, apperrors.IsConflictError(err))
}

func TestRegisterCheckout_RejectsUserWithActiveSubscription(t *testing.T) {
	f := newFixture(t)
	uc, _ := newRegisterCheckout(t, f)
	ctx := context.Background()

	_, err := f.apply.Execute(ctx, event("I-1", "user-1", eventvo.KindSubscriptionActivated, t1))
	require.NoError(t, err)

	_, err = uc.Execute(ctx, RegisterCheckoutCommand{UserID: "user-1", ExternalSubscriptionID: "I-2"})
	assert.True(t, apperrors.IsConflictError(err))
	assert.ErrorIs(t, err, subscription.ErrActiveSubscriptionExists)

	stored, err := f.repo.GetByExternalID(ctx, "I-2")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestRegisterCheckout_SupersedesAbandonedCheckout(t *testing.T) {
	f := newFixture(t)
	uc, syncer := newRegisterCheckout(t, f)
	ctx := context.Background()

	syncer.EXPECT().Sync(gomock.Any(), "user-1").Return(nil).Times(2)

	_, err := uc.Execute(ctx, RegisterCheckoutCommand{UserID: "user-1", ExternalSubscriptionID: "I-1"})
	require.NoError(t, err)
	_, err = uc.Execute(ctx, RegisterCheckoutCommand{UserID: "user-1", ExternalSubscriptionID: "I-2"})
	require.NoError(t, err)

	abandoned, err := f.repo.GetByExternalID(ctx, "I-1")
	require.NoError(t, err)
	assert.Equal(t, vo.StatusCancelled, abandoned.Status())
	assert.Equal(t, subscription.CancelReasonSuperseded, abandoned.CancelReason())

	open, err := f.repo.FindNonTerminalByUser(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "I-2", open[0].ExternalSubscriptionID())
}

func TestRegisterCheckout_SyncFailureDoesNotFailRegistration(t *testing.T) {
	f := newFixture(t)
	uc, syncer := newRegisterCheckout(t, f)

	syncer.EXPECT().Sync(gomock.Any(), "user-1").Return(errors.New("redis down"))

	result, err := uc.Execute(context.Background(), RegisterCheckoutCommand{UserID: "user-1", ExternalSubscriptionID: "I-1"})
	require.NoError(t, err)
	assert.Equal(t, "I-1", result.ExternalSubscriptionID)
}

func TestRegisterCheckout_RequiresSignedInUser(t *testing.T) {
	f := newFixture(t)
	uc, _ := newRegisterCheckout(t, f)

	_, err := uc.Execute(context.Background(), RegisterCheckoutCommand{ExternalSubscriptionID: "I-1"})
	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, apperrors.ErrorTypeUnauthorized, appErr.Type)
}

func TestRegisterCheckout_LocksSubscriptionThenUser(t *testing.T) {
	f := newFixture(t)
	rec := f.withRecordingLocker()
	uc, syncer := newRegisterCheckout(t, f)
	syncer.EXPECT().Sync(gomock.Any(), "user-1").Return(nil)

	_, err := uc.Execute(context.Background(), RegisterCheckoutCommand{UserID: "user-1", ExternalSubscriptionID: "I-1"})
	require.NoError(t, err)

	assert.Equal(t, []string{
		SubscriptionLockKey("I-1"),
		UserSubscriptionsLockKey("user-1"),
	}, rec.acquired())
}
