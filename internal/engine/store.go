package engine

import (
	"sync"
)

// Store 结算状态存储
//
// 项目和会话一经创建即为只增的历史记录，Put 仅用于创建和原地状态推进，
// 不存在删除路径。
type Store interface {
	GetProject(id int64) (*Project, bool)
	PutProject(p *Project)
	GetSession(id int64) (*VotingSession, bool)
	PutSession(s *VotingSession)
}

// MemoryStore 内存存储
type MemoryStore struct {
	mu       sync.RWMutex
	projects map[int64]*Project
	sessions map[int64]*VotingSession
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[int64]*Project),
		sessions: make(map[int64]*VotingSession),
	}
}

func (m *MemoryStore) GetProject(id int64) (*Project, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.projects[id]
	return p, ok
}

func (m *MemoryStore) PutProject(p *Project) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.projects[p.ID] = p
}

func (m *MemoryStore) GetSession(id int64) (*VotingSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *MemoryStore) PutSession(s *VotingSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
}
