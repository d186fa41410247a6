package valueobjects

// SubscriptionStatus is the canonical lifecycle state of a subscription.
type SubscriptionStatus string

const (
	StatusPending   SubscriptionStatus = "pending"
	StatusActive    SubscriptionStatus = "active"
	StatusSuspended SubscriptionStatus = "suspended"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusExpired   SubscriptionStatus = "expired"
)

func (s SubscriptionStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status is absorbing.
func (s SubscriptionStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusExpired
}

// CanUseService reports whether the status grants the paid product.
func (s SubscriptionStatus) CanUseService() bool {
	return s == StatusActive
}

// CanTransitionTo reports whether target follows s in the documented lifecycle
// graph. The state machine applies newer events even when they skip a step;
// this is used to flag such jumps.
func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	transitions := map[SubscriptionStatus][]SubscriptionStatus{
		StatusPending:   {StatusActive, StatusCancelled, StatusExpired},
		StatusActive:    {StatusSuspended, StatusCancelled, StatusExpired},
		StatusSuspended: {StatusActive, StatusCancelled, StatusExpired},
		StatusCancelled: {},
		StatusExpired:   {},
	}

	allowed, exists := transitions[s]
	if !exists {
		return false
	}

	for _, allowedStatus := range allowed {
		if allowedStatus == target {
			return true
		}
	}
	return false
}

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusPending:   true,
	StatusActive:    true,
	StatusSuspended: true,
	StatusCancelled: true,
	StatusExpired:   true,
}

// NonTerminalStatuses lists the statuses a user may hold at most one of.
var NonTerminalStatuses = []SubscriptionStatus{StatusPending, StatusActive, StatusSuspended}
