package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/coachly/coachly/internal/domain/subscription"
)

// supersedeOthers cancels every non-terminal subscription of keep's user
// other than keep and returns their external ids.
func supersedeOthers(
	ctx context.Context,
	repo subscription.Repository,
	keep *subscription.Subscription,
	at time.Time,
) ([]string, error) {
	others, err := repo.FindNonTerminalByUser(ctx, keep.UserID())
	if err != nil {
		return nil, fmt.Errorf("failed to list open subscriptions: %w", err)
	}

	var superseded []string
	for _, other := range others {
		if other.ID() == keep.ID() {
			continue
		}
		if !other.Supersede(at) {
			continue
		}
		if err := repo.Update(ctx, other); err != nil {
			return nil, fmt.Errorf("failed to supersede subscription %s: %w", other.ExternalSubscriptionID(), err)
		}
		superseded = append(superseded, other.ExternalSubscriptionID())
	}
	return superseded, nil
}

// newestOpen picks the subscription that stays open when a user ends up
// with more than one: the latest seenAt wins, ties go to the newer row.
func newestOpen(
	candidates []*subscription.Subscription,
	seenAt func(*subscription.Subscription) time.Time,
) (*subscription.Subscription, time.Time) {
	var (
		newest     *subscription.Subscription
		newestSeen time.Time
	)
	for _, c := range candidates {
		if c.IsTerminal() {
			continue
		}
		seen := seenAt(c)
		if newest == nil ||
			seen.After(newestSeen) ||
			(seen.Equal(newestSeen) && c.ID() > newest.ID()) {
			newest, newestSeen = c, seen
		}
	}
	return newest, newestSeen
}
