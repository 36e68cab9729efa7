package banlist

import "context"

// Store: 밴 레지스트리 인터페이스입니다.
// 테스트에서 mock 구현을 주입할 수 있도록 합니다.
type Store interface {
	// UpsertBan 밴 기록 쓰기/갱신
	UpsertBan(ctx context.Context, networkID string, userID int64, reason string, moderator string) error

	// DeleteBan 밴 기록 제거
	DeleteBan(ctx context.Context, networkID string, userID int64) error

	// IsBanned 밴 기록 조회 (없으면 nil)
	IsBanned(ctx context.Context, networkID string, userID int64) (*BanRecord, error)

	// Ping 연결 확인
	Ping(ctx context.Context) error

	// Close 리소스 정리
	Close()
}

// 구현체가 Store 인터페이스를 만족하는지 컴파일 타임 확인
var (
	_ Store = (*Repository)(nil)
	_ Store = (*CachedStore)(nil)
)
