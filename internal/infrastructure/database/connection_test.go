package database

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appLogger "github.com/coachly/coachly/internal/shared/logger"
)

func captureLogger() (*bytes.Buffer, appLogger.Interface) {
	var buf bytes.Buffer
	h := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &buf, appLogger.NewLoggerWithSlog(slog.New(h))
}

func statement() (string, int64) {
	return "SELECT * FROM subscriptions", 1
}

func TestGormLogger_Trace(t *testing.T) {
	tests := []struct {
		name    string
		level   gormlogger.LogLevel
		elapsed time.Duration
		err     error
		want    string
	}{
		{"failed statement", gormlogger.Warn, time.Millisecond, errors.New("deadlock found"), "database statement failed"},
		{"slow statement", gormlogger.Warn, time.Second, nil, "slow database statement"},
		{"verbose mode", gormlogger.Info, time.Millisecond, nil, "database statement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, log := captureLogger()
			l := newGormLogger(log, 200*time.Millisecond).LogMode(tt.level)

			l.Trace(context.Background(), time.Now().Add(-tt.elapsed), statement, tt.err)

			assert.Contains(t, buf.String(), tt.want)
			assert.Contains(t, buf.String(), "SELECT * FROM subscriptions")
		})
	}
}

func TestGormLogger_TraceQuiet(t *testing.T) {
	tests := []struct {
		name  string
		level gormlogger.LogLevel
		err   error
	}{
		{"record not found", gormlogger.Warn, gorm.ErrRecordNotFound},
		{"fast statement", gormlogger.Warn, nil},
		{"silent", gormlogger.Silent, errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf, log := captureLogger()
			l := newGormLogger(log, 200*time.Millisecond).LogMode(tt.level)

			l.Trace(context.Background(), time.Now(), statement, tt.err)

			assert.Empty(t, buf.String())
		})
	}
}

func TestGormLogger_LogModeCopies(t *testing.T) {
	_, log := captureLogger()
	base := newGormLogger(log, time.Second)

	_ = base.LogMode(gormlogger.Info)

	assert.Equal(t, gormlogger.Warn, base.level)
}

func TestGet_BeforeInit(t *testing.T) {
	assert.Nil(t, Get())
	assert.NoError(t, Close())
}
