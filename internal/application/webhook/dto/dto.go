package dto

import (
	"time"

	"github.com/coachly/coachly/internal/domain/webhook"
)

// WebhookAckDTO is returned to the processor for every accepted delivery.
type WebhookAckDTO struct {
	EventID string `json:"event_id"`
	// Status is one of accepted, queued, processed, duplicate or in_flight.
	Status string `json:"status"`
}

const (
	AckAccepted  = "accepted"
	AckQueued    = "queued"
	AckProcessed = "processed"
	AckDuplicate = "duplicate"
	AckInFlight  = "in_flight"
)

// RetryResultDTO summarises one sweep over retryable ledger rows.
type RetryResultDTO struct {
	Found     int `json:"found"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

type LedgerRecordDTO struct {
	EventID     string     `json:"event_id"`
	EventType   string     `json:"event_type"`
	ResourceID  string     `json:"resource_id"`
	Status      string     `json:"status"`
	Attempts    int        `json:"attempts"`
	LastError   string     `json:"last_error,omitempty"`
	OutcomeHash string     `json:"outcome_hash,omitempty"`
	ClaimedAt   time.Time  `json:"claimed_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func ToLedgerRecordDTO(record *webhook.IdempotencyRecord) *LedgerRecordDTO {
	if record == nil {
		return nil
	}
	return &LedgerRecordDTO{
		EventID:     record.EventID(),
		EventType:   record.EventType(),
		ResourceID:  record.ResourceID(),
		Status:      record.Status().String(),
		Attempts:    record.Attempts(),
		LastError:   record.LastError(),
		OutcomeHash: record.OutcomeHash(),
		ClaimedAt:   record.ClaimedAt(),
		ProcessedAt: record.ProcessedAt(),
		CreatedAt:   record.CreatedAt(),
	}
}
