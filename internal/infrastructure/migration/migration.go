// Package migration keeps the database schema in step with the persistence models.
package migration

import (
	"embed"
	"io/fs"
	"strings"

	"github.com/coachly/coachly/internal/shared/constants"
	"github.com/coachly/coachly/internal/shared/logger"
)

//go:embed scripts/*.sql
var embedded embed.FS

// ScriptsDir is where new scripts are created, relative to the repository root.
const ScriptsDir = "internal/infrastructure/migration/scripts"

// Scripts returns the versioned SQL scripts compiled into the binary.
func Scripts() fs.FS {
	sub, err := fs.Sub(embedded, "scripts")
	if err != nil {
		// Only reachable if the embed directive and the directory name disagree.
		panic(err)
	}
	return sub
}

// ForEnvironment returns AutoMigrate for local development and the versioned
// scripts for every other environment.
func ForEnvironment(environment string, log logger.Interface) Strategy {
	switch strings.ToLower(environment) {
	case constants.EnvDevelopment, "debug":
		return NewAutoMigrate(log)
	default:
		return NewScriptRunner(log)
	}
}
