package migration

import (
	"context"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/coachly/coachly/internal/shared/constants"
	"github.com/coachly/coachly/internal/shared/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestForEnvironment(t *testing.T) {
	log := logger.NewNopLogger()

	assert.Equal(t, "gorm_auto_migrate", ForEnvironment(constants.EnvDevelopment, log).Name())
	assert.Equal(t, "gorm_auto_migrate", ForEnvironment("DEBUG", log).Name())
	assert.Equal(t, "goose", ForEnvironment(constants.EnvProduction, log).Name())
	assert.Equal(t, "goose", ForEnvironment(constants.EnvTest, log).Name())
}

func TestAutoMigrate_CreatesTables(t *testing.T) {
	db := openSQLite(t)

	require.NoError(t, NewAutoMigrate(logger.NewNopLogger()).Migrate(context.Background(), db))

	for _, table := range []string{
		constants.TableSubscriptions,
		constants.TableUserEntitlements,
		constants.TableIdempotencyRecords,
	} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestScripts_AreEmbeddedGooseScripts(t *testing.T) {
	entries, err := fs.ReadDir(Scripts(), ".")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
		body, err := fs.ReadFile(Scripts(), e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", e.Name())
		assert.Contains(t, string(body), "-- +goose Down", e.Name())
	}
	assert.Equal(t, []string{
		"001_create_subscriptions.sql",
		"002_create_user_entitlements.sql",
		"003_create_idempotency_records.sql",
	}, names)
}

func TestScriptRunner_RollbackRejectsNonPositiveSteps(t *testing.T) {
	err := NewScriptRunner(logger.NewNopLogger()).Rollback(context.Background(), openSQLite(t), 0)
	assert.Error(t, err)
}

func TestCreateScript_RequiresName(t *testing.T) {
	assert.Error(t, CreateScript(t.TempDir(), ""))
}
