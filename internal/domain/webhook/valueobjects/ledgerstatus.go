package valueobjects

// LedgerStatus is the processing state of an accepted delivery.
type LedgerStatus string

const (
	LedgerStatusPending   LedgerStatus = "pending"
	LedgerStatusCompleted LedgerStatus = "completed"
	LedgerStatusFailed    LedgerStatus = "failed"
)

func (s LedgerStatus) String() string {
	return string(s)
}

func (s LedgerStatus) IsValid() bool {
	switch s {
	case LedgerStatusPending, LedgerStatusCompleted, LedgerStatusFailed:
		return true
	}
	return false
}

// ClaimResult tells a caller of the ledger whether it owns the event now.
type ClaimResult int

const (
	// ClaimAcquired: first delivery, the caller must process it.
	ClaimAcquired ClaimResult = iota + 1
	// ClaimReacquired: an earlier attempt failed or its lease ran out, the caller must process it.
	ClaimReacquired
	// ClaimDuplicate: already completed.
	ClaimDuplicate
	// ClaimInFlight: another attempt holds a live lease.
	ClaimInFlight
)

func (r ClaimResult) String() string {
	switch r {
	case ClaimAcquired:
		return "acquired"
	case ClaimReacquired:
		return "reacquired"
	case ClaimDuplicate:
		return "duplicate"
	case ClaimInFlight:
		return "in_flight"
	}
	return "unknown"
}

// Owned reports whether the claimant must process the event.
func (r ClaimResult) Owned() bool {
	return r == ClaimAcquired || r == ClaimReacquired
}
