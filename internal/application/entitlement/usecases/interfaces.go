package usecases

import "context"

//go:generate mockgen -destination=mocks/mock_interfaces.go -package=mocks . Syncer

// Syncer rebuilds one user's cached entitlement.
type Syncer interface {
	Sync(ctx context.Context, userID string) error
}
