package http

import (
	"gorm.io/gorm"

	"github.com/coachly/coachly/internal/domain/entitlement"
	"github.com/coachly/coachly/internal/domain/subscription"
	"github.com/coachly/coachly/internal/domain/webhook"
	"github.com/coachly/coachly/internal/infrastructure/repository"
	"github.com/coachly/coachly/internal/shared/logger"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	subscriptionRepo subscription.Repository
	entitlementRepo  entitlement.Repository
	ledgerRepo       webhook.IdempotencyRepository
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		subscriptionRepo: repository.NewSubscriptionRepository(db, log.Named("subscription-repo")),
		entitlementRepo:  repository.NewUserEntitlementRepository(db, log.Named("entitlement-repo")),
		ledgerRepo:       repository.NewIdempotencyRepository(db, log.Named("ledger-repo")),
	}
}
