package subscription

import (
	"context"
)

// Repository persists canonical subscriptions. Writes join the transaction
// carried by ctx when there is one.
type Repository interface {
	// Create inserts a new record. It returns ErrSubscriptionExists when a
	// concurrent writer created the same external subscription first.
	Create(ctx context.Context, subscription *Subscription) error
	// Update writes the record only if the stored version still matches and
	// returns ErrConcurrentModification otherwise.
	Update(ctx context.Context, subscription *Subscription) error
	// Lookups return nil without error when nothing matches.
	GetByExternalID(ctx context.Context, externalSubscriptionID string) (*Subscription, error)
	GetBySID(ctx context.Context, sid string) (*Subscription, error)
	// FindNonTerminalByUser returns the user's Pending, Active or Suspended subscriptions.
	FindNonTerminalByUser(ctx context.Context, userID string) ([]*Subscription, error)
	// FindCurrentByUser returns the user's canonical subscription: the
	// non-terminal one, else the most recent by event time.
	FindCurrentByUser(ctx context.Context, userID string) (*Subscription, error)
}
