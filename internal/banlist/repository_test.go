package banlist

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatal(err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := db.AutoMigrate(&BanRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return &Repository{db: db, sqlDB: sqlDB, now: time.Now}
}

func TestUpsertAndLookup(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.UpsertBan(ctx, "global", 42, "exploiting", "mod#1"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	record, err := repo.IsBanned(ctx, "global", 42)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if record == nil {
		t.Fatalf("expected ban record")
	}
	if record.Reason != "exploiting" || record.Moderator != "mod#1" {
		t.Fatalf("unexpected record: %+v", record)
	}
}

func TestUpsertRefreshesExistingBan(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.UpsertBan(ctx, "global", 42, "first", "mod#1"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	first, err := repo.IsBanned(ctx, "global", 42)
	if err != nil || first == nil {
		t.Fatalf("lookup: %v %v", first, err)
	}

	if err := repo.UpsertBan(ctx, "global", 42, "second", "mod#2"); err != nil {
		t.Fatalf("repeat upsert: %v", err)
	}

	second, err := repo.IsBanned(ctx, "global", 42)
	if err != nil || second == nil {
		t.Fatalf("lookup after refresh: %v %v", second, err)
	}
	if second.Reason != "second" || second.Moderator != "mod#2" {
		t.Fatalf("expected refreshed record, got %+v", second)
	}
	if second.BannedAt.Before(first.BannedAt) {
		t.Fatalf("expected banned_at refreshed")
	}

	// 유일 키 위반 없이 단일 행이어야 한다
	var count int64
	if err := repo.db.Model(&BanRecord{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected single row, got %d", count)
	}
}

func TestDeleteBan(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.UpsertBan(ctx, "global", 42, "exploiting", "mod#1"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.DeleteBan(ctx, "global", 42); err != nil {
		t.Fatalf("delete: %v", err)
	}

	record, err := repo.IsBanned(ctx, "global", 42)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if record != nil {
		t.Fatalf("expected no record after delete, got %+v", record)
	}

	// 없는 기록 삭제는 오류가 아니다
	if err := repo.DeleteBan(ctx, "global", 42); err != nil {
		t.Fatalf("repeat delete: %v", err)
	}
}

func TestNetworkScoping(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	if err := repo.UpsertBan(ctx, "network-a", 42, "exploiting", "mod#1"); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	record, err := repo.IsBanned(ctx, "network-b", 42)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if record != nil {
		t.Fatalf("expected ban scoped to its network")
	}
}
