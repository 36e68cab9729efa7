package banlist

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/valkey-io/valkey-go"

	"github.com/park285/roblox-mod-relay-go/internal/cache"
	"github.com/park285/roblox-mod-relay-go/internal/config"
)

type cacheBackend int

const (
	cacheBackendNone cacheBackend = iota
	cacheBackendMemory
	cacheBackendValkey
)

type cachedBan struct {
	Banned    bool      `json:"banned"`
	Reason    string    `json:"reason"`
	Moderator string    `json:"moderator"`
	BannedAt  time.Time `json:"banned_at"`
}

// CachedStore 는 IsBanned 조회 앞에 짧은 TTL 캐시를 두는 Store 래퍼다.
// 쓰기(UpsertBan/DeleteBan)는 항상 레지스트리를 먼저 거치고 성공 시 캐시를 무효화한다.
// 캐시는 TTL 만큼의 stale 읽기를 허용한다. 수평 확장 시 다른 인스턴스의
// 쓰기는 TTL 경과 후에 반영된다.
type CachedStore struct {
	inner   Store
	backend cacheBackend
	client  valkey.Client
	memory  *cache.TTLCache[string, cachedBan]
	ttl     time.Duration
}

// NewCachedStore 는 설정에 따라 valkey 또는 메모리 캐시 백엔드를 고른다.
// 캐시가 비활성화되면 래핑 없이 조회를 그대로 전달한다.
func NewCachedStore(cfg *config.Config, inner Store) (*CachedStore, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if inner == nil {
		return nil, errors.New("inner store is nil")
	}

	store := &CachedStore{
		inner:   inner,
		backend: cacheBackendNone,
		ttl:     time.Duration(cfg.BanCache.TTLSeconds) * time.Second,
	}
	if !cfg.BanCache.Enabled || store.ttl <= 0 {
		return store, nil
	}

	if cfg.BanCache.URL == "" {
		store.backend = cacheBackendMemory
		store.memory = cache.NewTTLCache[string, cachedBan](cfg.BanCache.CacheSize, store.ttl)
		return store, nil
	}

	conn, err := parseCacheURL(cfg.BanCache.URL)
	if err != nil {
		return nil, fmt.Errorf("parse ban cache url: %w", err)
	}

	var tlsConfig *tls.Config
	if conn.useTLS {
		host, _, splitErr := net.SplitHostPort(conn.addr)
		if splitErr != nil {
			return nil, fmt.Errorf("parse ban cache addr: %w", splitErr)
		}
		tlsConfig = &tls.Config{MinVersion: tls.VersionTLS12, ServerName: host}
	}

	client, err := valkey.NewClient(valkey.ClientOption{
		TLSConfig:    tlsConfig,
		Username:     conn.username,
		Password:     conn.password,
		InitAddress:  []string{conn.addr},
		SelectDB:     conn.selectDB,
		DisableCache: cfg.BanCache.DisableCache,
	})
	if err != nil {
		return nil, fmt.Errorf("connect ban cache: %w", err)
	}

	store.backend = cacheBackendValkey
	store.client = client
	return store, nil
}

// UpsertBan 은 레지스트리에 쓰고 성공 시 해당 키 캐시를 무효화한다.
func (s *CachedStore) UpsertBan(ctx context.Context, networkID string, userID int64, reason string, moderator string) error {
	if err := s.inner.UpsertBan(ctx, networkID, userID, reason, moderator); err != nil {
		return err
	}
	s.invalidate(ctx, networkID, userID)
	return nil
}

// DeleteBan 은 레지스트리에서 지우고 성공 시 해당 키 캐시를 무효화한다.
func (s *CachedStore) DeleteBan(ctx context.Context, networkID string, userID int64) error {
	if err := s.inner.DeleteBan(ctx, networkID, userID); err != nil {
		return err
	}
	s.invalidate(ctx, networkID, userID)
	return nil
}

// IsBanned 는 캐시를 먼저 보고, 미스일 때만 레지스트리를 조회한다.
// 미밴 상태도 캐싱한다(negative caching).
func (s *CachedStore) IsBanned(ctx context.Context, networkID string, userID int64) (*BanRecord, error) {
	if s.backend == cacheBackendNone {
		return s.inner.IsBanned(ctx, networkID, userID)
	}

	key := banKey(networkID, userID)
	if cached, ok := s.getCached(ctx, key); ok {
		if !cached.Banned {
			return nil, nil
		}
		return &BanRecord{
			NetworkID: networkID,
			UserID:    userID,
			Reason:    cached.Reason,
			Moderator: cached.Moderator,
			BannedAt:  cached.BannedAt,
		}, nil
	}

	record, err := s.inner.IsBanned(ctx, networkID, userID)
	if err != nil {
		return nil, err
	}

	value := cachedBan{Banned: false}
	if record != nil {
		value = cachedBan{
			Banned:    true,
			Reason:    record.Reason,
			Moderator: record.Moderator,
			BannedAt:  record.BannedAt,
		}
	}
	s.setCached(ctx, key, value)
	return record, nil
}

// Ping 은 내부 레지스트리 연결을 확인한다.
func (s *CachedStore) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close 는 캐시 클라이언트와 내부 저장소를 정리한다.
func (s *CachedStore) Close() {
	if s.client != nil {
		s.client.Close()
	}
	s.inner.Close()
}

func (s *CachedStore) getCached(ctx context.Context, key string) (cachedBan, bool) {
	switch s.backend {
	case cacheBackendMemory:
		return s.memory.Get(key)
	case cacheBackendValkey:
		cmd := s.client.B().Get().Key(key).Build()
		raw, err := s.client.Do(ctx, cmd).AsBytes()
		if err != nil {
			return cachedBan{}, false
		}
		var value cachedBan
		if err := json.Unmarshal(raw, &value); err != nil {
			return cachedBan{}, false
		}
		return value, true
	default:
		return cachedBan{}, false
	}
}

func (s *CachedStore) setCached(ctx context.Context, key string, value cachedBan) {
	switch s.backend {
	case cacheBackendMemory:
		s.memory.Set(key, value)
	case cacheBackendValkey:
		data, err := json.Marshal(value)
		if err != nil {
			return
		}
		cmd := s.client.B().Set().Key(key).Value(string(data)).Ex(s.ttl).Build()
		_ = s.client.Do(ctx, cmd).Error()
	}
}

func (s *CachedStore) invalidate(ctx context.Context, networkID string, userID int64) {
	key := banKey(networkID, userID)
	switch s.backend {
	case cacheBackendMemory:
		s.memory.Delete(key)
	case cacheBackendValkey:
		cmd := s.client.B().Del().Key(key).Build()
		_ = s.client.Do(ctx, cmd).Error()
	}
}

func banKey(networkID string, userID int64) string {
	return "ban:" + networkID + ":" + strconv.FormatInt(userID, 10)
}
