package usecases

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/coachly/coachly/internal/domain/webhook"
)

var eventTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func deliveryBody(eventID, eventType, resourceID, userID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"event_type": %q,
		"create_time": %q,
		"resource": {"id": %q, "custom_id": %q, "plan_id": "P-PRO"}
	}`, eventID, eventType, eventTime.Format(time.RFC3339Nano), resourceID, userID))
}

func envelope(t *testing.T, eventID, eventType, resourceID, userID string) *webhook.Envelope {
	t.Helper()
	env, err := webhook.ParseEnvelope(deliveryBody(eventID, eventType, resourceID, userID), eventTime)
	require.NoError(t, err)
	return env
}
