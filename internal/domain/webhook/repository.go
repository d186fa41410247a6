package webhook

import (
	"context"
	"time"

	"github.com/coachly/coachly/internal/domain/webhook/valueobjects"
)

//go:generate mockgen -destination=mocks/mock_webhook.go -package=mocks . IdempotencyRepository,SignatureVerifier

// IdempotencyRepository is the idempotency ledger.
type IdempotencyRepository interface {
	// Claim atomically inserts the record if its event id is new. For a known
	// event id it reclaims failed or lease-expired rows and returns the stored
	// record in every case.
	Claim(ctx context.Context, record *IdempotencyRecord, lease time.Duration) (valueobjects.ClaimResult, *IdempotencyRecord, error)
	// GetByEventID returns nil without error for an unknown event id.
	GetByEventID(ctx context.Context, eventID string) (*IdempotencyRecord, error)
	// MarkCompleted and MarkFailed return ErrRecordNotFound for an unknown event id.
	MarkCompleted(ctx context.Context, eventID, outcomeHash string) error
	MarkFailed(ctx context.Context, eventID, reason string) error
	// FindRetryable lists failed rows and pending rows whose lease expired.
	// maxAttempts <= 0 disables the attempts cap.
	FindRetryable(ctx context.Context, now time.Time, lease time.Duration, maxAttempts, limit int) ([]*IdempotencyRecord, error)
	// PurgeCompletedBefore deletes completed rows processed before cutoff.
	PurgeCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
