package queue

import "sync"

// Manager 는 서버 인스턴스별 대기 명령 큐를 관리한다.
// 큐는 서버 id의 첫 참조 시 생성되고 프로세스 종료까지 유지된다.
// poll(Drain)은 비파괴 조회이고 삭제는 Acknowledge 로만 일어나므로
// 응답을 유실한 서버도 다음 poll 에서 같은 명령을 다시 받는다(at-least-once).
type Manager struct {
	mu     sync.Mutex
	queues map[string]map[string]Command
}

// NewManager 는 빈 큐 매니저를 생성한다.
func NewManager() *Manager {
	return &Manager{
		queues: make(map[string]map[string]Command),
	}
}

// Register 는 서버 큐를 미리 생성한다. 등록된 서버는 이후 밴 팬아웃 대상이 된다.
func (m *Manager) Register(serverID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getOrCreateLocked(serverID)
}

// Enqueue 는 명령을 서버 큐에 추가한다. 큐가 없으면 생성한다.
func (m *Manager) Enqueue(serverID string, cmd Command) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getOrCreateLocked(serverID)[cmd.ID] = cmd
}

// Drain 은 서버 큐의 현재 내용을 제거 없이 반환한다.
// enqueue/acknowledge 가 없는 한 반복 호출 결과는 동일하다. 순서는 보장하지 않는다.
func (m *Manager) Drain(serverID string) []Command {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := m.getOrCreateLocked(serverID)
	commands := make([]Command, 0, len(q))
	for _, cmd := range q {
		commands = append(commands, cmd)
	}
	return commands
}

// Acknowledge 는 나열된 id의 명령을 서버 큐에서 제거한다.
// 존재하지 않는 id는 무시되며, 재시도와 중복 호출에 안전하다.
func (m *Manager) Acknowledge(serverID string, ids []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := m.getOrCreateLocked(serverID)
	for _, id := range ids {
		delete(q, id)
	}
}

// ServerIDs 는 큐가 존재하는 모든 서버 id를 반환한다. 밴 팬아웃의 대상 집합이다.
func (m *Manager) ServerIDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.queues))
	for id := range m.queues {
		ids = append(ids, id)
	}
	return ids
}

// Pending 은 서버 큐의 대기 명령 수를 반환한다. 큐가 없으면 0이다.
func (m *Manager) Pending(serverID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queues[serverID])
}

// QueueCount 는 존재하는 큐 수를 반환한다.
func (m *Manager) QueueCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queues)
}

func (m *Manager) getOrCreateLocked(serverID string) map[string]Command {
	q, ok := m.queues[serverID]
	if !ok {
		q = make(map[string]Command)
		m.queues[serverID] = q
	}
	return q
}
