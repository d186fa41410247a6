package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// AuthConfig describes the tokens issued by the external identity service.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// Webhook processing modes.
const (
	ProcessingModeAsync = "async"
	ProcessingModeSync  = "sync"
)

type WebhookConfig struct {
	Secret             string        `mapstructure:"secret"`
	WebhookID          string        `mapstructure:"webhook_id"`
	ProcessingMode     string        `mapstructure:"processing_mode"`
	QueueSize          int           `mapstructure:"queue_size"`
	Workers            int           `mapstructure:"workers"`
	ProcessTimeout     time.Duration `mapstructure:"process_timeout"`
	SignatureTolerance time.Duration `mapstructure:"signature_tolerance"`
	Lease              time.Duration `mapstructure:"lease"`
}

func (w *WebhookConfig) IsAsync() bool {
	return w.ProcessingMode != ProcessingModeSync
}

type BillingConfig struct {
	PeriodMonths         int           `mapstructure:"period_months"`
	ReconcileInterval    time.Duration `mapstructure:"reconcile_interval"`
	ReconcileBatch       int           `mapstructure:"reconcile_batch"`
	IdempotencyRetention time.Duration `mapstructure:"idempotency_retention"`
	RetryInterval        time.Duration `mapstructure:"retry_interval"`
	RetryMaxAttempts     int           `mapstructure:"retry_max_attempts"`
	SubscribePath        string        `mapstructure:"subscribe_path"`
}

// Lock backends.
const (
	LockBackendMemory = "memory"
	LockBackendRedis  = "redis"
)

type LockConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type PermissionConfig struct {
	ModelPath string `mapstructure:"model_path"`
}
