package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"

	// Context keys
	ContextKeyUserID      = "user_id"
	ContextKeyUserRoles   = "user_roles"
	ContextKeyRequestID   = "request_id"
	ContextKeyEntitlement = "entitlement"

	// Database table names
	TableSubscriptions      = "subscriptions"
	TableUserEntitlements   = "user_entitlements"
	TableIdempotencyRecords = "idempotency_records"
)
