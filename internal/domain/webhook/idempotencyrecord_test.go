package webhook

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coachly/coachly/internal/domain/webhook/valueobjects"
)

func TestNewIdempotencyRecord(t *testing.T) {
	env := &Envelope{EventID: "WH-1", EventType: "BILLING.SUBSCRIPTION.CREATED", ResourceID: "I-1", Payload: []byte(`{"id":"WH-1"}`)}

	record, err := NewIdempotencyRecord(env, receivedAt)
	require.NoError(t, err)

	assert.Equal(t, valueobjects.LedgerStatusPending, record.Status())
	assert.Equal(t, 1, record.Attempts())
	assert.Equal(t, HashPayload(env.Payload), record.PayloadHash())
	assert.Len(t, record.PayloadHash(), 64)
	assert.Equal(t, receivedAt, record.ClaimedAt())
}

func TestNewIdempotencyRecord_RequiresEventID(t *testing.T) {
	_, err := NewIdempotencyRecord(&Envelope{}, receivedAt)
	assert.Error(t, err)
}

func TestIdempotencyRecord_LeaseExpired(t *testing.T) {
	record, err := NewIdempotencyRecord(&Envelope{EventID: "WH-1"}, receivedAt)
	require.NoError(t, err)

	assert.False(t, record.LeaseExpired(receivedAt.Add(time.Minute), 2*time.Minute))
	assert.True(t, record.LeaseExpired(receivedAt.Add(2*time.Minute), 2*time.Minute))
}

func TestHashOutcome_Deterministic(t *testing.T) {
	assert.Equal(t, HashOutcome("applied", "active"), HashOutcome("applied", "active"))
	assert.NotEqual(t, HashOutcome("applied", "active"), HashOutcome("stale", "active"))
}

func TestTruncateError(t *testing.T) {
	assert.Empty(t, TruncateError(nil))
	assert.Len(t, TruncateError(errors.New(strings.Repeat("x", 5000))), maxLastErrorLength)
}

func TestClaimResult_Owned(t *testing.T) {
	assert.True(t, valueobjects.ClaimAcquired.Owned())
	assert.True(t, valueobjects.ClaimReacquired.Owned())
	assert.False(t, valueobjects.ClaimDuplicate.Owned())
	assert.False(t, valueobjects.ClaimInFlight.Owned())
}
