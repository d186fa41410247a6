package migration

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/coachly/coachly/internal/infrastructure/persistence/models"
	"github.com/coachly/coachly/internal/shared/logger"
)

// Strategy brings a database schema up to date.
type Strategy interface {
	Migrate(ctx context.Context, db *gorm.DB) error
	Name() string
}

// AutoMigrate derives the schema from the gorm models. Columns are added but
// never dropped, so it is only used in development and tests.
type AutoMigrate struct {
	logger logger.Interface
}

func NewAutoMigrate(log logger.Interface) *AutoMigrate {
	return &AutoMigrate{logger: log.Named("migration")}
}

func (a *AutoMigrate) Name() string { return "gorm_auto_migrate" }

func (a *AutoMigrate) Migrate(ctx context.Context, db *gorm.DB) error {
	all := models.All()
	if err := db.WithContext(ctx).AutoMigrate(all...); err != nil {
		a.logger.Errorw("auto migration failed", "error", err)
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	a.logger.Infow("auto migration finished", "models", len(all))
	return nil
}

// ScriptStatus is the state of one versioned script.
type ScriptStatus struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

// ScriptRunner applies the embedded goose scripts.
type ScriptRunner struct {
	dialect goose.Dialect
	logger  logger.Interface
}

func NewScriptRunner(log logger.Interface) *ScriptRunner {
	return &ScriptRunner{
		dialect: goose.DialectMySQL,
		logger:  log.Named("migration"),
	}
}

func (r *ScriptRunner) Name() string { return "goose" }

func (r *ScriptRunner) provider(db *gorm.DB) (*goose.Provider, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return r.providerFor(sqlDB)
}

func (r *ScriptRunner) providerFor(sqlDB *sql.DB) (*goose.Provider, error) {
	p, err := goose.NewProvider(r.dialect, sqlDB, Scripts())
	if err != nil {
		return nil, fmt.Errorf("failed to create goose provider: %w", err)
	}
	return p, nil
}

// Migrate applies every pending script.
func (r *ScriptRunner) Migrate(ctx context.Context, db *gorm.DB) error {
	p, err := r.provider(db)
	if err != nil {
		return err
	}

	results, err := p.Up(ctx)
	r.logResults("up", results)
	if err != nil {
		r.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// Rollback reverts the last steps applied scripts.
func (r *ScriptRunner) Rollback(ctx context.Context, db *gorm.DB, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}

	statuses, err := r.Status(ctx, db)
	if err != nil {
		return err
	}

	var applied []int64
	for _, s := range statuses {
		if s.Applied {
			applied = append(applied, s.Version)
		}
	}
	if len(applied) == 0 {
		r.logger.Infow("nothing to roll back")
		return nil
	}
	sort.Slice(applied, func(i, j int) bool { return applied[i] < applied[j] })

	var target int64
	if steps < len(applied) {
		target = applied[len(applied)-steps-1]
	}

	p, err := r.provider(db)
	if err != nil {
		return err
	}
	results, err := p.DownTo(ctx, target)
	r.logResults("down", results)
	if err != nil {
		r.logger.Errorw("rollback failed", "error", err, "target_version", target)
		return fmt.Errorf("failed to roll back to version %d: %w", target, err)
	}
	return nil
}

// Version returns the highest applied script version.
func (r *ScriptRunner) Version(ctx context.Context, db *gorm.DB) (int64, error) {
	p, err := r.provider(db)
	if err != nil {
		return 0, err
	}
	version, err := p.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// HasPending reports whether any embedded script is not applied yet.
func (r *ScriptRunner) HasPending(ctx context.Context, db *gorm.DB) (bool, error) {
	p, err := r.provider(db)
	if err != nil {
		return false, err
	}
	pending, err := p.HasPending(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check pending migrations: %w", err)
	}
	return pending, nil
}

func (r *ScriptRunner) Status(ctx context.Context, db *gorm.DB) ([]ScriptStatus, error) {
	p, err := r.provider(db)
	if err != nil {
		return nil, err
	}
	statuses, err := p.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get migration status: %w", err)
	}

	out := make([]ScriptStatus, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, ScriptStatus{
			Version:   s.Source.Version,
			Path:      s.Source.Path,
			Applied:   s.State == goose.StateApplied,
			AppliedAt: s.AppliedAt,
		})
	}
	return out, nil
}

func (r *ScriptRunner) logResults(direction string, results []*goose.MigrationResult) {
	for _, res := range results {
		if res == nil || res.Source == nil {
			continue
		}
		r.logger.Infow("migration script applied",
			"direction", direction,
			"version", res.Source.Version,
			"path", res.Source.Path,
			"duration", res.Duration,
		)
	}
}

// CreateScript writes an empty SQL script named after name into dir.
func CreateScript(dir, name string) error {
	if name == "" {
		return fmt.Errorf("migration name is required")
	}
	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}
	return nil
}
