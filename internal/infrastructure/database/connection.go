// Package database owns the process-wide MySQL connection pool.
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/coachly/coachly/internal/shared/biztime"
	"github.com/coachly/coachly/internal/shared/config"
	appLogger "github.com/coachly/coachly/internal/shared/logger"
)

const (
	pingTimeout   = 5 * time.Second
	slowThreshold = 200 * time.Millisecond
)

var (
	db   *gorm.DB
	dbMu sync.RWMutex
)

// Open connects to MySQL with the pool limits from cfg. Sessions use UTC so
// event times round-trip unchanged.
func Open(cfg *config.DatabaseConfig, log appLogger.Interface) (*gorm.DB, error) {
	conn, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       cfg.GetDSN(),
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:      newGormLogger(log, slowThreshold),
		PrepareStmt: true,
		NowFunc:     biztime.NowUTC,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return conn, nil
}

// Init opens the pool and installs it as the process-wide connection.
func Init(cfg *config.DatabaseConfig) error {
	log := appLogger.NewLogger().Named("database")

	conn, err := Open(cfg, log)
	if err != nil {
		return err
	}
	set(conn)

	log.Infow("database connection established",
		"host", cfg.Host,
		"database", cfg.Database,
		"max_open_conns", cfg.MaxOpenConns,
	)
	return nil
}

func set(conn *gorm.DB) {
	dbMu.Lock()
	db = conn
	dbMu.Unlock()
}

// Get returns the connection installed by Init, nil before it.
func Get() *gorm.DB {
	dbMu.RLock()
	defer dbMu.RUnlock()
	return db
}

// Close releases the pool. It is safe to call when Init never ran.
func Close() error {
	dbMu.Lock()
	conn := db
	db = nil
	dbMu.Unlock()

	if conn == nil {
		return nil
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}
	return nil
}
