package banlist

import "time"

// BanRecord 는 네트워크 전역 밴 기록 DB 모델이다.
// (network_id, user_id) 쌍으로 유일하며 재밴 시 reason/moderator/banned_at이 갱신된다.
type BanRecord struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	NetworkID string    `gorm:"column:network_id;size:64;uniqueIndex:idx_bans_network_user"`
	UserID    int64     `gorm:"column:user_id;uniqueIndex:idx_bans_network_user"`
	Reason    string    `gorm:"column:reason"`
	Moderator string    `gorm:"column:moderator;size:128"`
	BannedAt  time.Time `gorm:"column:banned_at"`
}

// TableName 은 GORM에서 사용할 테이블명을 반환한다.
func (BanRecord) TableName() string {
	return "bans"
}

// BanStatus 는 조회용 밴 상태 뷰 모델이다.
type BanStatus struct {
	Banned    bool      `json:"banned"`
	Reason    string    `json:"reason,omitempty"`
	Moderator string    `json:"moderator,omitempty"`
	BannedAt  time.Time `json:"banned_at"`
}
