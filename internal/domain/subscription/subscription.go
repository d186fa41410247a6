package subscription

import (
	"fmt"
	"time"

	vo "github.com/coachly/coachly/internal/domain/subscription/valueobjects"
	eventvo "github.com/coachly/coachly/internal/domain/webhook/valueobjects"
	"github.com/coachly/coachly/internal/shared/biztime"
	"github.com/coachly/coachly/internal/shared/id"
)

// CancelReasonSuperseded marks a subscription closed because the user took out a newer one.
const CancelReasonSuperseded = "superseded"

// Subscription is the canonical record of a processor subscription.
// Its status only moves forward by event time; Cancelled and Expired are absorbing.
type Subscription struct {
	id                     uint
	sid                    string
	userID                 string
	externalSubscriptionID string
	planID                 string
	status                 vo.SubscriptionStatus
	startDate              *time.Time
	cancelledAt            *time.Time
	cancelReason           string
	nextBillingDate        *time.Time
	lastEventTime          time.Time
	lastPaymentEventTime   time.Time
	version                int
	createdAt              time.Time
	updatedAt              time.Time
}

// NewSubscription creates the record for a subscription seen for the first time.
// It starts Pending with no event applied yet.
func NewSubscription(externalSubscriptionID, userID, planID string) (*Subscription, error) {
	if externalSubscriptionID == "" {
		return nil, fmt.Errorf("external subscription ID is required")
	}
	if userID == "" {
		return nil, ErrUnknownSubscriber
	}

	sid, err := id.NewSubscriptionSID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate subscription SID: %w", err)
	}

	now := biztime.NowUTC()
	return &Subscription{
		sid:                    sid,
		userID:                 userID,
		externalSubscriptionID: externalSubscriptionID,
		planID:                 planID,
		status:                 vo.StatusPending,
		version:                1,
		createdAt:              now,
		updatedAt:              now,
	}, nil
}

// ReconstructSubscription rebuilds a subscription from persistence.
func ReconstructSubscription(
	id uint,
	sid, userID, externalSubscriptionID, planID string,
	status vo.SubscriptionStatus,
	startDate, cancelledAt *time.Time,
	cancelReason string,
	nextBillingDate *time.Time,
	lastEventTime, lastPaymentEventTime time.Time,
	version int,
	createdAt, updatedAt time.Time,
) (*Subscription, error) {
	if id == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if externalSubscriptionID == "" {
		return nil, fmt.Errorf("external subscription ID is required")
	}
	if !vo.ValidStatuses[status] {
		return nil, fmt.Errorf("invalid subscription status: %s", status)
	}

	return &Subscription{
		id:                     id,
		sid:                    sid,
		userID:                 userID,
		externalSubscriptionID: externalSubscriptionID,
		planID:                 planID,
		status:                 status,
		startDate:              startDate,
		cancelledAt:            cancelledAt,
		cancelReason:           cancelReason,
		nextBillingDate:        nextBillingDate,
		lastEventTime:          lastEventTime,
		lastPaymentEventTime:   lastPaymentEventTime,
		version:                version,
		createdAt:              createdAt,
		updatedAt:              updatedAt,
	}, nil
}

func (s *Subscription) ID() uint {
	return s.id
}

func (s *Subscription) SID() string {
	return s.sid
}

func (s *Subscription) UserID() string {
	return s.userID
}

func (s *Subscription) ExternalSubscriptionID() string {
	return s.externalSubscriptionID
}

func (s *Subscription) PlanID() string {
	return s.planID
}

func (s *Subscription) Status() vo.SubscriptionStatus {
	return s.status
}

func (s *Subscription) StartDate() *time.Time {
	return s.startDate
}

func (s *Subscription) CancelledAt() *time.Time {
	return s.cancelledAt
}

func (s *Subscription) CancelReason() string {
	return s.cancelReason
}

func (s *Subscription) NextBillingDate() *time.Time {
	return s.nextBillingDate
}

func (s *Subscription) LastEventTime() time.Time {
	return s.lastEventTime
}

func (s *Subscription) LastPaymentEventTime() time.Time {
	return s.lastPaymentEventTime
}

// LastSeenAt is the latest processor event time of any kind applied to the
// subscription, zero when none was.
func (s *Subscription) LastSeenAt() time.Time {
	if s.lastPaymentEventTime.After(s.lastEventTime) {
		return s.lastPaymentEventTime
	}
	return s.lastEventTime
}

func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

func (s *Subscription) IsTerminal() bool {
	return s.status.IsTerminal()
}

func (s *Subscription) IsActive() bool {
	return s.status == vo.StatusActive
}

// Version returns the aggregate version used for compare-and-swap writes.
func (s *Subscription) Version() int {
	return s.version
}

// SetID sets the persistence ID once, after insert.
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

// BindUser attaches the owning user to a record that was created without one.
// A record already owned by a different user is never rebound.
func (s *Subscription) BindUser(userID string) error {
	if userID == "" {
		return nil
	}
	if s.userID != "" && s.userID != userID {
		return ErrSubscriptionOwnedByOther
	}
	s.userID = userID
	return nil
}

// Apply folds a normalized lifecycle event into the record.
// periodMonths is used to project the next billing date when a payment
// event carries none.
func (s *Subscription) Apply(event LifecycleEvent, periodMonths int) Transition {
	switch event.Kind {
	case eventvo.KindSubscriptionCreated,
		eventvo.KindSubscriptionActivated,
		eventvo.KindSubscriptionSuspended,
		eventvo.KindSubscriptionCancelled,
		eventvo.KindSubscriptionExpired:
		return s.applyStatusChange(event)
	case eventvo.KindSubscriptionUpdated:
		return s.applyUpdate(event)
	case eventvo.KindPaymentCompleted:
		return s.applyPayment(event, periodMonths)
	case eventvo.KindUnrecognized:
		return s.noop(OutcomeIgnored)
	}
	return s.noop(OutcomeIgnored)
}

func (s *Subscription) applyStatusChange(event LifecycleEvent) Transition {
	target, ok := event.Kind.TargetStatus()
	if !ok {
		return s.noop(OutcomeIgnored)
	}

	// Absorption is checked before staleness: nothing leaves a terminal state.
	if s.status.IsTerminal() {
		return s.noop(OutcomeTerminalViolation)
	}
	if !event.EventTime.After(s.lastEventTime) {
		return s.noop(OutcomeStale)
	}

	from := s.status
	eventTime := biztime.ToUTC(event.EventTime)

	s.status = target
	s.lastEventTime = eventTime
	if event.PlanID != "" {
		s.planID = event.PlanID
	}

	switch target {
	case vo.StatusCancelled:
		s.cancelledAt = &eventTime
	case vo.StatusPending, vo.StatusActive:
		if s.startDate == nil {
			s.startDate = &eventTime
		}
	case vo.StatusSuspended, vo.StatusExpired:
	}
	if event.NextBillingTime != nil && !target.IsTerminal() {
		next := biztime.ToUTC(*event.NextBillingTime)
		s.nextBillingDate = &next
	}

	s.touch()

	return Transition{
		Outcome:    OutcomeApplied,
		From:       from,
		To:         target,
		OutOfGraph: from != target && !from.CanTransitionTo(target),
	}
}

// applyUpdate refreshes plan and billing fields without touching status or
// the ordering key, so a later status event is never shadowed by an update.
func (s *Subscription) applyUpdate(event LifecycleEvent) Transition {
	if s.status.IsTerminal() {
		return s.noop(OutcomeTerminalViolation)
	}
	if !event.EventTime.After(s.lastEventTime) {
		return s.noop(OutcomeStale)
	}
	if event.PlanID == "" && event.NextBillingTime == nil {
		return s.noop(OutcomeIgnored)
	}

	if event.PlanID != "" {
		s.planID = event.PlanID
	}
	if event.NextBillingTime != nil {
		next := biztime.ToUTC(*event.NextBillingTime)
		s.nextBillingDate = &next
	}
	s.touch()

	return Transition{Outcome: OutcomeFieldsUpdated, From: s.status, To: s.status}
}

// applyPayment advances the billing date. It never changes status, so it is
// accepted on terminal records too; ordering is guarded by its own clock.
func (s *Subscription) applyPayment(event LifecycleEvent, periodMonths int) Transition {
	if !event.EventTime.After(s.lastPaymentEventTime) {
		return s.noop(OutcomeStale)
	}

	eventTime := biztime.ToUTC(event.EventTime)
	var next time.Time
	if event.NextBillingTime != nil {
		next = biztime.ToUTC(*event.NextBillingTime)
	} else {
		next = biztime.AddMonths(eventTime, periodMonths)
	}

	s.nextBillingDate = &next
	s.lastPaymentEventTime = eventTime
	s.touch()

	return Transition{Outcome: OutcomeFieldsUpdated, From: s.status, To: s.status}
}

// Supersede closes a non-terminal subscription because the user now holds a newer one.
func (s *Subscription) Supersede(at time.Time) bool {
	if s.status.IsTerminal() {
		return false
	}

	at = biztime.ToUTC(at)
	s.status = vo.StatusCancelled
	s.cancelledAt = &at
	s.cancelReason = CancelReasonSuperseded
	if at.After(s.lastEventTime) {
		s.lastEventTime = at
	}
	s.touch()
	return true
}

// MarkPersisted records a successful compare-and-swap write.
func (s *Subscription) MarkPersisted() {
	s.version++
}

func (s *Subscription) touch() {
	s.updatedAt = biztime.NowUTC()
}

func (s *Subscription) noop(outcome Outcome) Transition {
	return Transition{Outcome: outcome, From: s.status, To: s.status}
}
