package entitlement

import "context"

// Repository stores the cached entitlement rows read by the gate.
type Repository interface {
	// GetByUserID returns nil without error when the user has no row yet.
	GetByUserID(ctx context.Context, userID string) (*UserEntitlement, error)
	// Upsert writes the projection for its user, replacing any previous row.
	Upsert(ctx context.Context, entitlement *UserEntitlement) error
	// FindDivergentUserIDs lists users whose cached row is missing, older than
	// or different from their canonical subscription.
	FindDivergentUserIDs(ctx context.Context, limit int) ([]string, error)
}
