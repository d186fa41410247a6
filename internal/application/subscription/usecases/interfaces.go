package usecases

import "context"

//go:generate mockgen -destination=mocks/mock_interfaces.go -package=mocks . EntitlementSyncer

// EntitlementSyncer rebuilds the cached entitlement of a user from the
// canonical subscription records.
type EntitlementSyncer interface {
	Sync(ctx context.Context, userID string) error
}
