package config

import (
	"net"
	"net/url"
	"strconv"
	"strings"
)

// HTTPConfig: HTTP 서버 설정입니다.
type HTTPConfig struct {
	Host         string
	Port         int
	HTTP2Enabled bool
	GzipEnabled  bool
}

// HTTPAuthConfig: 공유 시크릿 인증 설정입니다.
type HTTPAuthConfig struct {
	SharedSecret string
	Required     bool
}

// HTTPRateLimitConfig: 요청 제한 설정입니다.
type HTTPRateLimitConfig struct {
	RequestsPerMinute int
	CacheSize         int
	CacheTTLSeconds   int
}

// LoggingConfig: 로깅 설정입니다.
type LoggingConfig struct {
	Level      string
	LogDir     string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// DatabaseConfig: 밴 레지스트리 DB 연결 설정입니다.
type DatabaseConfig struct {
	URL                    string // 지정 시 개별 필드보다 우선
	Host                   string
	Port                   int
	Name                   string
	User                   string
	Password               string
	MinPool                int
	MaxPool                int
	ConnMaxLifetimeMinutes int
	ConnMaxIdleTimeMinutes int
}

// DSN: DB 접속 문자열을 반환합니다.
func (d DatabaseConfig) DSN() string {
	if strings.TrimSpace(d.URL) != "" {
		return strings.TrimSpace(d.URL)
	}
	host := net.JoinHostPort(d.Host, strconv.Itoa(d.Port))
	u := &url.URL{
		Scheme: "postgresql",
		Host:   host,
		Path:   "/" + d.Name,
	}
	if d.Password == "" {
		u.User = url.User(d.User)
	} else {
		u.User = url.UserPassword(d.User, d.Password)
	}
	return u.String()
}

// BanCacheConfig: 밴 조회 캐시 설정입니다.
// URL이 비어 있으면 프로세스 로컬 메모리 캐시로 동작합니다.
type BanCacheConfig struct {
	URL          string
	Enabled      bool
	TTLSeconds   int
	CacheSize    int
	DisableCache bool
}

// WebhookConfig: 알림 웹훅 대상 URL 설정입니다. 빈 값은 해당 알림을 끕니다.
type WebhookConfig struct {
	Logs     string
	UserBans string
	Teleport string
	Health   string
}

// RelayConfig: 릴레이 코어 동작 설정입니다.
type RelayConfig struct {
	NetworkID            string
	JoinAlertThreshold   int64
	DefaultReason        string
	NotifyWorkers        int
	NotifyQueueSize      int
	NotifyTimeoutSeconds int
	NotifyMaxRetries     int
}

// ChatGuardConfig: 채팅 블록리스트 검사 설정입니다.
type ChatGuardConfig struct {
	Enabled         bool
	RulepacksDir    string
	CacheMaxSize    int
	CacheTTLSeconds int
}

// Config: 애플리케이션 전체 설정입니다.
type Config struct {
	HTTP          HTTPConfig
	HTTPAuth      HTTPAuthConfig
	HTTPRateLimit HTTPRateLimitConfig
	Logging       LoggingConfig
	Database      DatabaseConfig
	BanCache      BanCacheConfig
	Webhooks      WebhookConfig
	Relay         RelayConfig
	ChatGuard     ChatGuardConfig
}
