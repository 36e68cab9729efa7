package banlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/park285/roblox-mod-relay-go/internal/config"
)

// StorageError 는 레지스트리 저장소 실패다. 호출자는 이를 묵살하지 않고
// 운영자에게 보고해야 하며, 밴의 경우 후속 팬아웃을 중단해야 한다.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("ban registry %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Repository 는 밴 레지스트리 DB 접근을 담당한다.
type Repository struct {
	cfg    *config.Config
	logger *slog.Logger
	mu     sync.Mutex
	db     *gorm.DB
	sqlDB  *sql.DB
	now    func() time.Time
}

// NewRepository 는 밴 레지스트리 저장소를 생성한다. 연결은 첫 사용 시 맺는다.
func NewRepository(cfg *config.Config, logger *slog.Logger) *Repository {
	return &Repository{
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// UpsertBan 은 밴 기록을 쓰거나 갱신한다. 재밴 시 reason/moderator/banned_at을 갱신한다.
func (r *Repository) UpsertBan(ctx context.Context, networkID string, userID int64, reason string, moderator string) error {
	db, err := r.getDB(ctx)
	if err != nil {
		return &StorageError{Op: "connect", Err: err}
	}

	row := BanRecord{
		NetworkID: networkID,
		UserID:    userID,
		Reason:    reason,
		Moderator: moderator,
		BannedAt:  r.now(),
	}

	result := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "network_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"reason":    row.Reason,
			"moderator": row.Moderator,
			"banned_at": row.BannedAt,
		}),
	}).Create(&row)
	if result.Error != nil {
		return &StorageError{Op: "upsert", Err: result.Error}
	}
	return nil
}

// DeleteBan 은 밴 기록을 제거한다. 기록이 없어도 오류가 아니다.
func (r *Repository) DeleteBan(ctx context.Context, networkID string, userID int64) error {
	db, err := r.getDB(ctx)
	if err != nil {
		return &StorageError{Op: "connect", Err: err}
	}

	result := db.WithContext(ctx).
		Where("network_id = ? AND user_id = ?", networkID, userID).
		Delete(&BanRecord{})
	if result.Error != nil {
		return &StorageError{Op: "delete", Err: result.Error}
	}
	return nil
}

// IsBanned 는 밴 기록을 조회한다. 기록이 없으면 nil을 반환한다.
func (r *Repository) IsBanned(ctx context.Context, networkID string, userID int64) (*BanRecord, error) {
	db, err := r.getDB(ctx)
	if err != nil {
		return nil, &StorageError{Op: "connect", Err: err}
	}

	var row BanRecord
	result := db.WithContext(ctx).
		Where("network_id = ? AND user_id = ?", networkID, userID).
		First(&row)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, &StorageError{Op: "lookup", Err: result.Error}
	}
	return &row, nil
}

// Ping 은 레지스트리 연결 상태를 확인한다.
func (r *Repository) Ping(ctx context.Context) error {
	if _, err := r.getDB(ctx); err != nil {
		return &StorageError{Op: "connect", Err: err}
	}

	r.mu.Lock()
	sqlDB := r.sqlDB
	r.mu.Unlock()
	if sqlDB == nil {
		return &StorageError{Op: "ping", Err: errors.New("db handle missing")}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return &StorageError{Op: "ping", Err: err}
	}
	return nil
}

// Close 는 DB 연결을 닫는다.
func (r *Repository) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sqlDB == nil {
		return
	}
	_ = r.sqlDB.Close()
	r.sqlDB = nil
	r.db = nil
}

func (r *Repository) getDB(ctx context.Context) (*gorm.DB, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db != nil {
		return r.db, nil
	}
	if r.cfg == nil {
		return nil, errors.New("database config is nil")
	}

	hostUsed := r.cfg.Database.Host
	dsn := r.cfg.Database.DSN()
	gormCfg := &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
	db, err := gorm.Open(postgres.Open(dsn), gormCfg)
	if err != nil && shouldFallbackToLocalhost(err, r.cfg.Database.Host) {
		fallback := r.cfg.Database
		fallback.Host = "127.0.0.1"
		fallback.URL = ""
		db, err = gorm.Open(postgres.Open(fallback.DSN()), gormCfg)
		if err == nil {
			hostUsed = fallback.Host
			if r.logger != nil {
				r.logger.Warn(
					"ban_db_host_fallback",
					"configured_host", r.cfg.Database.Host,
					"effective_host", hostUsed,
				)
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open ban db: %w", err)
	}

	if migrateErr := db.WithContext(ctx).AutoMigrate(&BanRecord{}); migrateErr != nil {
		return nil, fmt.Errorf("prepare ban db: %w", migrateErr)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get ban db handle: %w", err)
	}

	sqlDB.SetMaxIdleConns(r.cfg.Database.MinPool)
	sqlDB.SetMaxOpenConns(r.cfg.Database.MaxPool)
	if r.cfg.Database.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(r.cfg.Database.ConnMaxLifetimeMinutes) * time.Minute)
	}
	if r.cfg.Database.ConnMaxIdleTimeMinutes > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(r.cfg.Database.ConnMaxIdleTimeMinutes) * time.Minute)
	}

	if r.logger != nil {
		r.logger.Info("ban_db_connected", "host", hostUsed, "name", r.cfg.Database.Name)
	}

	r.db = db
	r.sqlDB = sqlDB
	return db, nil
}

func shouldFallbackToLocalhost(err error, host string) bool {
	if err == nil {
		return false
	}
	if host == "" || host == "127.0.0.1" || strings.EqualFold(host, "localhost") {
		return false
	}
	if !strings.EqualFold(host, "postgres") {
		return false
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return strings.EqualFold(dnsErr.Name, host)
	}

	lower := strings.ToLower(err.Error())
	hostLower := strings.ToLower(host)
	if strings.Contains(lower, "lookup "+hostLower) && strings.Contains(lower, "no such host") {
		return true
	}
	return strings.Contains(lower, "no such host") && strings.Contains(lower, hostLower)
}
