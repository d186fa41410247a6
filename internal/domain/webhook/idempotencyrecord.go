package webhook

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/coachly/coachly/internal/domain/webhook/valueobjects"
	"github.com/coachly/coachly/internal/shared/biztime"
)

const maxLastErrorLength = 1024

// IdempotencyRecord is the ledger entry of one processor event id. It also
// carries the raw delivery, so a pending row doubles as a durable queue entry.
type IdempotencyRecord struct {
	id          uint
	eventID     string
	eventType   string
	resourceID  string
	status      valueobjects.LedgerStatus
	payload     []byte
	payloadHash string
	outcomeHash string
	attempts    int
	lastError   string
	claimedAt   time.Time
	processedAt *time.Time
	createdAt   time.Time
	updatedAt   time.Time
}

// NewIdempotencyRecord builds the pending entry claimed for a fresh delivery.
func NewIdempotencyRecord(env *Envelope, now time.Time) (*IdempotencyRecord, error) {
	if env == nil || env.EventID == "" {
		return nil, fmt.Errorf("event ID is required")
	}

	now = biztime.ToUTC(now)
	return &IdempotencyRecord{
		eventID:     env.EventID,
		eventType:   env.EventType,
		resourceID:  env.ResourceID,
		status:      valueobjects.LedgerStatusPending,
		payload:     env.Payload,
		payloadHash: HashPayload(env.Payload),
		attempts:    1,
		claimedAt:   now,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructIdempotencyRecord rebuilds a ledger entry from persistence.
func ReconstructIdempotencyRecord(
	id uint,
	eventID, eventType, resourceID string,
	status valueobjects.LedgerStatus,
	payload []byte,
	payloadHash, outcomeHash string,
	attempts int,
	lastError string,
	claimedAt time.Time,
	processedAt *time.Time,
	createdAt, updatedAt time.Time,
) (*IdempotencyRecord, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event ID is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid ledger status: %s", status)
	}

	return &IdempotencyRecord{
		id:          id,
		eventID:     eventID,
		eventType:   eventType,
		resourceID:  resourceID,
		status:      status,
		payload:     payload,
		payloadHash: payloadHash,
		outcomeHash: outcomeHash,
		attempts:    attempts,
		lastError:   lastError,
		claimedAt:   claimedAt,
		processedAt: processedAt,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (r *IdempotencyRecord) ID() uint {
	return r.id
}

func (r *IdempotencyRecord) EventID() string {
	return r.eventID
}

func (r *IdempotencyRecord) EventType() string {
	return r.eventType
}

func (r *IdempotencyRecord) ResourceID() string {
	return r.resourceID
}

func (r *IdempotencyRecord) Status() valueobjects.LedgerStatus {
	return r.status
}

func (r *IdempotencyRecord) Payload() []byte {
	return r.payload
}

func (r *IdempotencyRecord) PayloadHash() string {
	return r.payloadHash
}

func (r *IdempotencyRecord) OutcomeHash() string {
	return r.outcomeHash
}

func (r *IdempotencyRecord) Attempts() int {
	return r.attempts
}

func (r *IdempotencyRecord) LastError() string {
	return r.lastError
}

func (r *IdempotencyRecord) ClaimedAt() time.Time {
	return r.claimedAt
}

func (r *IdempotencyRecord) ProcessedAt() *time.Time {
	return r.processedAt
}

func (r *IdempotencyRecord) CreatedAt() time.Time {
	return r.createdAt
}

func (r *IdempotencyRecord) UpdatedAt() time.Time {
	return r.updatedAt
}

func (r *IdempotencyRecord) SetID(id uint) {
	r.id = id
}

// LeaseExpired reports whether a pending claim has outlived its lease.
func (r *IdempotencyRecord) LeaseExpired(now time.Time, lease time.Duration) bool {
	return r.status == valueobjects.LedgerStatusPending && !r.claimedAt.Add(lease).After(now)
}

// HashPayload fingerprints a delivery body.
func HashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// HashOutcome fingerprints the result of processing an event.
func HashOutcome(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])
}

// TruncateError bounds an error message to the ledger column size.
func TruncateError(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if len(msg) > maxLastErrorLength {
		msg = msg[:maxLastErrorLength]
	}
	return msg
}
