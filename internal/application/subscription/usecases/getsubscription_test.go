package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventvo "github.com/coachly/coachly/internal/domain/webhook/valueobjects"
	apperrors "github.com/coachly/coachly/internal/shared/errors"
	"github.com/coachly/coachly/internal/shared/logger"
)

func TestGetSubscription(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewGetSubscriptionUseCase(f.repo, logger.NewNopLogger())

	applied, err := f.apply.Execute(ctx, event("I-1", "user-1", eventvo.KindSubscriptionActivated, t1))
	require.NoError(t, err)

	byExternal, err := uc.Execute(ctx, GetSubscriptionQuery{ExternalSubscriptionID: "I-1"})
	require.NoError(t, err)
	assert.Equal(t, "active", byExternal.Status)
	assert.True(t, byExternal.IsActive)
	require.NotNil(t, byExternal.LastEventTime)
	assert.True(t, t1.Equal(*byExternal.LastEventTime))

	bySID, err := uc.Execute(ctx, GetSubscriptionQuery{SID: applied.Subscription.SID()})
	require.NoError(t, err)
	assert.Equal(t, "I-1", bySID.ExternalSubscriptionID)

	_, err = uc.Execute(ctx, GetSubscriptionQuery{ExternalSubscriptionID: "I-404"})
	assert.True(t, apperrors.IsNotFoundError(err))

	_, err = uc.Execute(ctx, GetSubscriptionQuery{})
	assert.Error(t, err)
}

func TestGetCurrentSubscription(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := NewGetCurrentSubscriptionUseCase(f.repo, logger.NewNopLogger())

	_, err := uc.Execute(ctx, "user-1")
	assert.True(t, apperrors.IsNotFoundError(err))

	_, err = f.apply.Execute(ctx, event("I-1", "user-1", eventvo.KindSubscriptionActivated, t1))
	require.NoError(t, err)
	_, err = f.apply.Execute(ctx, event("I-1", "user-1", eventvo.KindSubscriptionCancelled, t2))
	require.NoError(t, err)

	current, err := uc.Execute(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "cancelled", current.Status)
	require.NotNil(t, current.CancelledAt)
}
