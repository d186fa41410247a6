package entitlement

import (
	"fmt"
	"time"

	"github.com/coachly/coachly/internal/domain/subscription"
	subscriptionvo "github.com/coachly/coachly/internal/domain/subscription/valueobjects"
	"github.com/coachly/coachly/internal/shared/biztime"
)

// StatusNone is reported for users that never held a subscription.
const StatusNone = "none"

// UserEntitlement is the cached projection of a user's canonical subscription.
// It is derived data: it can always be rebuilt from the subscription record.
type UserEntitlement struct {
	userID              string
	subscriptionID      string
	cachedStatus        subscriptionvo.SubscriptionStatus
	syncedAsOfEventTime time.Time
	updatedAt           time.Time
}

// Project derives the entitlement of userID from its canonical subscription.
func Project(userID string, current *subscription.Subscription) (*UserEntitlement, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if current == nil {
		return nil, fmt.Errorf("canonical subscription is required")
	}
	if current.UserID() != userID {
		return nil, fmt.Errorf("subscription %s does not belong to user %s", current.ExternalSubscriptionID(), userID)
	}

	return &UserEntitlement{
		userID:              userID,
		subscriptionID:      current.ExternalSubscriptionID(),
		cachedStatus:        current.Status(),
		syncedAsOfEventTime: current.LastEventTime(),
		updatedAt:           biztime.NowUTC(),
	}, nil
}

// ReconstructUserEntitlement rebuilds a projection from persistence.
func ReconstructUserEntitlement(
	userID, subscriptionID string,
	cachedStatus subscriptionvo.SubscriptionStatus,
	syncedAsOfEventTime, updatedAt time.Time,
) (*UserEntitlement, error) {
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if !subscriptionvo.ValidStatuses[cachedStatus] {
		return nil, fmt.Errorf("invalid cached status: %s", cachedStatus)
	}

	return &UserEntitlement{
		userID:              userID,
		subscriptionID:      subscriptionID,
		cachedStatus:        cachedStatus,
		syncedAsOfEventTime: syncedAsOfEventTime,
		updatedAt:           updatedAt,
	}, nil
}

func (e *UserEntitlement) UserID() string {
	return e.userID
}

func (e *UserEntitlement) SubscriptionID() string {
	return e.subscriptionID
}

func (e *UserEntitlement) CachedStatus() subscriptionvo.SubscriptionStatus {
	return e.cachedStatus
}

// SyncedAsOfEventTime is the event time of the subscription state this row mirrors.
func (e *UserEntitlement) SyncedAsOfEventTime() time.Time {
	return e.syncedAsOfEventTime
}

func (e *UserEntitlement) UpdatedAt() time.Time {
	return e.updatedAt
}

// IsEntitled grants the paid product only to an Active mirror.
func (e *UserEntitlement) IsEntitled() bool {
	return e != nil && e.cachedStatus.CanUseService()
}

// Equal reports whether two projections mirror the same subscription state.
func (e *UserEntitlement) Equal(other *UserEntitlement) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.userID == other.userID &&
		e.subscriptionID == other.subscriptionID &&
		e.cachedStatus == other.cachedStatus &&
		e.syncedAsOfEventTime.Equal(other.syncedAsOfEventTime)
}
