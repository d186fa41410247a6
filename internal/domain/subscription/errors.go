package subscription

import (
	"errors"
	"fmt"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrUnknownSubscriber is returned for an event about a subscription that
	// was never registered and carries no user reference. It is retryable:
	// the checkout registration may still be in flight.
	ErrUnknownSubscriber        = errors.New("subscription has no known subscriber")
	ErrSubscriptionOwnedByOther = errors.New("subscription belongs to another user")
	ErrConcurrentModification   = errors.New("subscription was modified concurrently")
	ErrSubscriptionExists       = errors.New("subscription already exists")
	ErrActiveSubscriptionExists = errors.New("user already holds an active subscription")
)

func ErrVersionConflict(externalID string, version int) error {
	return fmt.Errorf("%w: %s at version %d", ErrConcurrentModification, externalID, version)
}
