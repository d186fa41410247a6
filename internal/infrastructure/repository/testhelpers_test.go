package repository

import (
	"testing"

	"gorm.io/gorm"

	"github.com/coachly/coachly/internal/infrastructure/persistence/testdb"
	"github.com/coachly/coachly/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testdb.New(t)
}

var testLogger = logger.NewNopLogger()
