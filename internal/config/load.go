package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/joho/godotenv"
)

var (
	configOnce  sync.Once
	configValue *Config
)

// Load 는 환경 변수 기반 설정을 로드한다.
func Load() *Config {
	configOnce.Do(func() {
		_ = godotenv.Load()
		configValue = buildConfig()
	})
	return configValue
}

// ProvideConfig 는 설정을 로드하고 검증한다.
func ProvideConfig() (*Config, error) {
	cfg := Load()
	if cfg == nil {
		return nil, errors.New("config not initialized")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate 는 설정 유효성을 검사한다.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid http port: %d", c.HTTP.Port)
	}
	if c.HTTPAuth.Required && c.HTTPAuth.SharedSecret == "" {
		return errors.New("shared secret required but not set")
	}
	if c.Relay.JoinAlertThreshold <= 0 {
		return fmt.Errorf("invalid join alert threshold: %d", c.Relay.JoinAlertThreshold)
	}
	return nil
}

// LogEnvStatus 는 환경 설정 상태를 로그로 남긴다.
func LogEnvStatus(cfg *Config, logger *slog.Logger) {
	if logger == nil || cfg == nil {
		return
	}

	envFilePresent := fileExists(".env")
	logger.Debug(
		"env_status",
		"env_file", envFilePresent,
		"shared_secret", maskSecret(cfg.HTTPAuth.SharedSecret),
		"network_id", cfg.Relay.NetworkID,
		"db_host", cfg.Database.Host,
		"db_name", cfg.Database.Name,
		"ban_cache_url", cfg.BanCache.URL,
		"webhook_logs", cfg.Webhooks.Logs != "",
		"webhook_bans", cfg.Webhooks.UserBans != "",
		"join_alert_threshold", cfg.Relay.JoinAlertThreshold,
	)

	if cfg.HTTPAuth.SharedSecret == "" {
		logger.Error("env_missing_shared_secret")
	}
}

func buildConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Host:         getEnvString("HOST", "0.0.0.0"),
			Port:         getEnvInt("PORT", 10000),
			HTTP2Enabled: getEnvBool("HTTP2_ENABLED", false),
			GzipEnabled:  getEnvBool("HTTP_GZIP_ENABLED", true),
		},
		HTTPAuth: HTTPAuthConfig{
			SharedSecret: getEnvString("WEBAPP_SHARED_SECRET", ""),
			Required:     getEnvBool("WEBAPP_SHARED_SECRET_REQUIRED", true),
		},
		HTTPRateLimit: HTTPRateLimitConfig{
			RequestsPerMinute: getEnvInt("RATE_LIMIT_PER_MINUTE", 0),
			CacheSize:         getEnvInt("RATE_LIMIT_CACHE_SIZE", 4096),
			CacheTTLSeconds:   getEnvInt("RATE_LIMIT_CACHE_TTL", 120),
		},
		Logging: LoggingConfig{
			Level:      getEnvString("LOG_LEVEL", "info"),
			LogDir:     getEnvString("LOG_DIR", ""),
			MaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 50),
			MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 14),
			Compress:   getEnvBool("LOG_COMPRESS", true),
		},
		Database: DatabaseConfig{
			URL:                    getEnvString("DATABASE_URL", ""),
			Host:                   getEnvString("DB_HOST", "postgres"),
			Port:                   getEnvInt("DB_PORT", 5432),
			Name:                   getEnvString("DB_NAME", "moderation"),
			User:                   getEnvString("DB_USER", "moderation"),
			Password:               getEnvString("DB_PASSWORD", ""),
			MinPool:                getEnvInt("DB_MIN_POOL", 2),
			MaxPool:                getEnvInt("DB_MAX_POOL", 10),
			ConnMaxLifetimeMinutes: getEnvInt("DB_CONN_MAX_LIFETIME_MIN", 30),
			ConnMaxIdleTimeMinutes: getEnvInt("DB_CONN_MAX_IDLE_MIN", 10),
		},
		BanCache: BanCacheConfig{
			URL:          getEnvString("BAN_CACHE_URL", ""),
			Enabled:      getEnvBool("BAN_CACHE_ENABLED", true),
			TTLSeconds:   getEnvInt("BAN_CACHE_TTL", 30),
			CacheSize:    getEnvInt("BAN_CACHE_SIZE", 10000),
			DisableCache: getEnvBool("BAN_CACHE_DISABLE_CLIENT_CACHE", false),
		},
		Webhooks: WebhookConfig{
			Logs:     getEnvString("DISCORD_WEBHOOK_LOGS", ""),
			UserBans: getEnvString("DISCORD_WEBHOOK_USERBANS", ""),
			Teleport: getEnvString("DISCORD_WEBHOOK_TELEPORT", ""),
			Health:   getEnvString("DISCORD_HEALTH", ""),
		},
		Relay: RelayConfig{
			NetworkID:            getEnvString("NETWORK_ID_DEFAULT", "global"),
			JoinAlertThreshold:   getEnvInt64("JOIN_ALERT_THRESHOLD", 3),
			DefaultReason:        getEnvString("DEFAULT_REASON", "Rule violation"),
			NotifyWorkers:        getEnvInt("NOTIFY_WORKERS", 4),
			NotifyQueueSize:      getEnvInt("NOTIFY_QUEUE_SIZE", 256),
			NotifyTimeoutSeconds: getEnvInt("NOTIFY_TIMEOUT", 10),
			NotifyMaxRetries:     getEnvInt("NOTIFY_MAX_RETRIES", 2),
		},
		ChatGuard: ChatGuardConfig{
			Enabled:         getEnvBool("CHAT_GUARD_ENABLED", true),
			RulepacksDir:    getEnvString("CHAT_GUARD_RULEPACKS_DIR", ""),
			CacheMaxSize:    getEnvInt("CHAT_GUARD_CACHE_SIZE", 2048),
			CacheTTLSeconds: getEnvInt("CHAT_GUARD_CACHE_TTL", 300),
		},
	}
}
