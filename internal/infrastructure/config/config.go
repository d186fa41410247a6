package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "github.com/coachly/coachly/internal/shared/config"
)

type Config struct {
	Server     sharedConfig.ServerConfig     `mapstructure:"server"`
	Database   sharedConfig.DatabaseConfig   `mapstructure:"database"`
	Logger     sharedConfig.LoggerConfig     `mapstructure:"logger"`
	Redis      sharedConfig.RedisConfig      `mapstructure:"redis"`
	Auth       sharedConfig.AuthConfig       `mapstructure:"auth"`
	Webhook    sharedConfig.WebhookConfig    `mapstructure:"webhook"`
	Billing    sharedConfig.BillingConfig    `mapstructure:"billing"`
	Lock       sharedConfig.LockConfig       `mapstructure:"lock"`
	Permission sharedConfig.PermissionConfig `mapstructure:"permission"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from file and environment variables.
// An empty configPath searches ./configs, ../configs and ../../configs.
func Load(env string, configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("COACHLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "coachly_dev")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")

	// Webhook defaults: PayPal acknowledges within ~10s, keep inline work well below it
	v.SetDefault("webhook.secret", "")
	v.SetDefault("webhook.webhook_id", "")
	v.SetDefault("webhook.processing_mode", sharedConfig.ProcessingModeAsync)
	v.SetDefault("webhook.queue_size", 1024)
	v.SetDefault("webhook.workers", 4)
	v.SetDefault("webhook.process_timeout", "5s")
	v.SetDefault("webhook.signature_tolerance", "0s")
	v.SetDefault("webhook.lease", "2m")

	v.SetDefault("billing.period_months", 1)
	v.SetDefault("billing.reconcile_interval", "1m")
	v.SetDefault("billing.reconcile_batch", 500)
	v.SetDefault("billing.idempotency_retention", "720h")
	v.SetDefault("billing.retry_interval", "1m")
	v.SetDefault("billing.retry_max_attempts", 10)
	v.SetDefault("billing.subscribe_path", "/subscription")

	v.SetDefault("lock.backend", sharedConfig.LockBackendMemory)
	v.SetDefault("lock.ttl", "30s")

	v.SetDefault("permission.model_path", "./configs/rbac_model.conf")
}
