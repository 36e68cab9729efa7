package directory

import (
	"sync"
	"time"
)

// Session 은 유저가 현재 어느 서버 인스턴스에 있는지 기록한다.
type Session struct {
	UserID   int64
	ServerID string
	LastSeen time.Time
}

// Directory 는 유저→서버 세션 매핑과 누적 입장 카운터를 보관한다.
// 프로세스 로컬 휘발성 상태이며 뮤텍스 하나가 전체 맵을 소유한다.
type Directory struct {
	mu         sync.Mutex
	sessions   map[int64]Session
	joinCounts map[int64]int64
	now        func() time.Time
}

// NewDirectory 는 빈 세션 디렉토리를 생성한다.
func NewDirectory() *Directory {
	return &Directory{
		sessions:   make(map[int64]Session),
		joinCounts: make(map[int64]int64),
		now:        time.Now,
	}
}

// RecordJoin 은 유저 세션을 기록하고 새 누적 입장 횟수를 반환한다.
// 같은 유저의 기존 세션은 덮어쓴다(last-write-wins). 카운터는
// 이미 다른 서버에 등록돼 있던 경우에도 항상 증가하고, 리셋되지 않는다.
func (d *Directory) RecordJoin(userID int64, serverID string) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.sessions[userID] = Session{
		UserID:   userID,
		ServerID: serverID,
		LastSeen: d.now(),
	}
	d.joinCounts[userID]++
	return d.joinCounts[userID]
}

// RecordLeave 는 유저 세션을 제거한다. 세션이 없으면 아무 일도 하지 않는다.
func (d *Directory) RecordLeave(userID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.sessions, userID)
}

// CurrentServer 는 유저의 최신 세션이 가리키는 서버 id를 반환한다.
func (d *Directory) CurrentServer(userID int64) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	session, ok := d.sessions[userID]
	if !ok {
		return "", false
	}
	return session.ServerID, true
}

// JoinCount 는 유저의 누적 입장 횟수를 반환한다.
func (d *Directory) JoinCount(userID int64) int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.joinCounts[userID]
}

// SessionCount 는 활성 세션 수를 반환한다.
func (d *Directory) SessionCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.sessions)
}
