package http

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/coachly/coachly/internal/infrastructure/auth"
	"github.com/coachly/coachly/internal/infrastructure/cache"
	"github.com/coachly/coachly/internal/infrastructure/config"
	"github.com/coachly/coachly/internal/infrastructure/payment"
	"github.com/coachly/coachly/internal/infrastructure/permission"
	"github.com/coachly/coachly/internal/infrastructure/queue"
	"github.com/coachly/coachly/internal/infrastructure/scheduler"
	"github.com/coachly/coachly/internal/interfaces/http/middleware"
	sharedConfig "github.com/coachly/coachly/internal/shared/config"
	"github.com/coachly/coachly/internal/shared/db"
	"github.com/coachly/coachly/internal/shared/goroutine"
	"github.com/coachly/coachly/internal/shared/keylock"
	"github.com/coachly/coachly/internal/shared/logger"
)

// Container holds the infrastructure, repositories, use cases, handlers and
// background workers of the billing service and wires them together.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	txMgr     *db.TransactionManager
	locker    keylock.Locker
	cronLock  gocron.Locker
	enforcer  *permission.Enforcer
	jwtSvc    *auth.JWTService
	verifier  *payment.PayPalVerifier
	repos     *repositories
	ucs       *allUseCases
	hdlrs     *allHandlers
	eventQ    *queue.EventQueue
	scheduler *scheduler.SchedulerManager

	// Middlewares
	authMiddleware        *middleware.AuthMiddleware
	permissionMiddleware  *middleware.PermissionMiddleware
	entitlementMiddleware *middleware.EntitlementMiddleware

	workersCancel context.CancelFunc
	workersDone   chan struct{}
	shutdownOnce  sync.Once
}

// NewContainer wires every component. Nothing runs until Start is called.
func NewContainer(database *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     database,
		cfg:    cfg,
		log:    log,
	}

	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	c.repos = newRepositories(c.db, c.log)
	c.initUseCases()
	c.hdlrs = newHandlers(c.ucs, c.log)
	c.initMiddlewares()
	c.setupRoutes()

	if err := c.initScheduler(); err != nil {
		return nil, err
	}

	return c, nil
}

// ErrJWTSecretMissing stops startup when tokens would be signed with an empty key.
var ErrJWTSecretMissing = errors.New("auth.jwt_secret is not configured")

func (c *Container) initInfrastructure() error {
	if c.cfg.Auth.JWTSecret == "" {
		return ErrJWTSecretMissing
	}

	c.txMgr = db.NewTransactionManager(c.db)

	switch c.cfg.Lock.Backend {
	case sharedConfig.LockBackendRedis:
		c.redis = redis.NewClient(&redis.Options{
			Addr:     c.cfg.Redis.GetAddr(),
			Password: c.cfg.Redis.Password,
			DB:       c.cfg.Redis.DB,
		})
		redisLocker := cache.NewRedisKeyLocker(c.redis, c.cfg.Lock.TTL, c.log.Named("keylock"))
		c.locker = redisLocker
		c.cronLock = cache.NewSchedulerLocker(redisLocker)
	default:
		c.locker = keylock.NewMemoryLocker()
	}

	enforcer, err := permission.NewEnforcer(c.db, c.cfg.Permission.ModelPath, c.log.Named("permission"))
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	if err := enforcer.SeedDefaultPolicies(); err != nil {
		return fmt.Errorf("failed to seed permission policies: %w", err)
	}
	c.enforcer = enforcer

	c.jwtSvc = auth.NewJWTService(c.cfg.Auth.JWTSecret, c.cfg.Auth.Issuer)
	c.verifier = payment.NewPayPalVerifier(c.cfg.Webhook.Secret, c.cfg.Webhook.WebhookID, c.cfg.Webhook.SignatureTolerance)

	if c.cfg.Webhook.Secret == "" {
		c.log.Warnw("webhook secret is not configured, every delivery will be rejected")
	}

	return nil
}

func (c *Container) initMiddlewares() {
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log.Named("auth"))
	c.permissionMiddleware = middleware.NewPermissionMiddleware(c.enforcer, c.log.Named("permission"))
	c.entitlementMiddleware = middleware.NewEntitlementMiddleware(c.ucs.checkEntitlement, c.cfg.Billing.SubscribePath, c.log.Named("entitlement"))
}

func (c *Container) initScheduler() error {
	manager, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"), c.cronLock)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	if err := manager.RegisterBillingJobs(scheduler.BillingJobs{
		Reconcile:         c.ucs.reconcileEntitlements,
		ReconcileInterval: c.cfg.Billing.ReconcileInterval,
		RetryEvents:       c.ucs.retryPendingEvents,
		RetryInterval:     c.cfg.Billing.RetryInterval,
		PurgeLedger:       c.ucs.purgeIdempotencyRecords,
	}); err != nil {
		return fmt.Errorf("failed to register billing jobs: %w", err)
	}

	c.scheduler = manager
	return nil
}

// Start launches the event workers and the scheduler.
func (c *Container) Start(ctx context.Context) {
	workersCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	c.workersCancel = cancel
	c.workersDone = make(chan struct{})

	if c.eventQ != nil {
		goroutine.SafeGo(c.log, "webhook-event-queue", func() {
			defer close(c.workersDone)
			if err := c.eventQ.Run(workersCtx); err != nil {
				c.log.Errorw("webhook event queue stopped with error", "error", err)
			}
		})
	} else {
		close(c.workersDone)
	}

	c.scheduler.Start()
}

// Shutdown stops the scheduler, drains the event queue and closes Redis.
// Buffered events that cannot finish in time stay pending in the ledger.
func (c *Container) Shutdown(ctx context.Context) {
	c.shutdownOnce.Do(func() {
		if c.scheduler != nil {
			if err := c.scheduler.Stop(); err != nil {
				c.log.Errorw("failed to stop scheduler", "error", err)
			}
		}

		if c.eventQ != nil && c.workersDone != nil {
			c.eventQ.Close()
			select {
			case <-c.workersDone:
			case <-ctx.Done():
				c.log.Warnw("event queue did not drain before shutdown deadline", "pending", c.eventQ.Len())
				c.workersCancel()
				<-c.workersDone
			}
		}
		if c.workersCancel != nil {
			c.workersCancel()
		}

		if c.redis != nil {
			if err := c.redis.Close(); err != nil {
				c.log.Errorw("failed to close redis client", "error", err)
			}
		}
	})
}

// Engine returns the configured gin engine.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Reconciler exposes the reconciliation use case for one-off CLI runs.
func (c *Container) Reconciler() reconcileRunner {
	return c.ucs.reconcileEntitlements
}

// Enforcer exposes the permission enforcer for role management.
func (c *Container) Enforcer() *permission.Enforcer {
	return c.enforcer
}
