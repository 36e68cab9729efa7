package queue

import (
	"crypto/rand"
	"encoding/hex"
)

// Action 은 게임 서버가 실행할 모더레이션 명령 종류다.
type Action string

const (
	ActionWarn          Action = "warn"
	ActionUnwarn        Action = "unwarn"
	ActionKick          Action = "kick"
	ActionBan           Action = "ban"
	ActionForceTeleport Action = "forceteleport"
)

// Valid 는 알려진 명령 종류인지 여부를 반환한다.
func (a Action) Valid() bool {
	switch a {
	case ActionWarn, ActionUnwarn, ActionKick, ActionBan, ActionForceTeleport:
		return true
	default:
		return false
	}
}

// Command 는 특정 서버 인스턴스가 대상 유저에게 적용할 명령이다.
// 생성 이후 불변이며, 해당 서버가 acknowledge 할 때까지 큐에 남는다.
type Command struct {
	ID      string `json:"id"`
	Action  Action `json:"action"`
	UserID  int64  `json:"userId"`
	Reason  string `json:"reason,omitempty"`
	PlaceID int64  `json:"placeId,omitempty"`
}

// NewCommandID 는 명령 식별 토큰을 생성한다.
func NewCommandID() string {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}
	return hex.EncodeToString(bytes)
}
