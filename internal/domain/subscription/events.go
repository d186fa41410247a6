package subscription

import (
	"time"

	vo "github.com/coachly/coachly/internal/domain/subscription/valueobjects"
	eventvo "github.com/coachly/coachly/internal/domain/webhook/valueobjects"
)

// LifecycleEvent is a normalized processor event addressed to one subscription.
type LifecycleEvent struct {
	Kind            eventvo.EventKind
	EventTime       time.Time
	PlanID          string
	NextBillingTime *time.Time
}

// Outcome classifies what Apply did with an event.
type Outcome string

const (
	OutcomeApplied           Outcome = "applied"
	OutcomeFieldsUpdated     Outcome = "fields_updated"
	OutcomeStale             Outcome = "stale"
	OutcomeTerminalViolation Outcome = "terminal_violation"
	OutcomeIgnored           Outcome = "ignored"
)

func (o Outcome) String() string {
	return string(o)
}

// Mutated reports whether the record changed and must be written.
func (o Outcome) Mutated() bool {
	return o == OutcomeApplied || o == OutcomeFieldsUpdated
}

// Transition is the result of applying one event.
type Transition struct {
	Outcome Outcome
	From    vo.SubscriptionStatus
	To      vo.SubscriptionStatus
	// OutOfGraph is set when a newer event skipped a lifecycle step,
	// for example Pending straight to Suspended.
	OutOfGraph bool
}

// StatusChanged reports whether the status moved.
func (t Transition) StatusChanged() bool {
	return t.From != t.To
}
