package wizard

import (
	"sync"

	"resumeflow/internal/draft"
)

// Manager 按用户维护编辑会话，进程内缓存。
// 会话状态以草稿槽为准，进程重启后由 Bootstrap 恢复。
type Manager struct {
	mu       sync.Mutex
	sessions map[uint]*Session
	drafts   draft.Store
	gateway  Gateway
}

// NewManager 构造会话管理器。
func NewManager(drafts draft.Store, gateway Gateway) *Manager {
	return &Manager{
		sessions: make(map[uint]*Session),
		drafts:   drafts,
		gateway:  gateway,
	}
}

// Session 返回用户的会话，没有则新建；新会话的身份固定为该用户。
func (m *Manager) Session(userID uint) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[userID]; ok {
		return s
	}
	id := userID
	s := NewSession(m.drafts, m.gateway, IdentityFunc(func() uint { return id }))
	m.sessions[userID] = s
	return s
}

// Evict 丢弃用户的内存会话（登出时调用），草稿槽不受影响。
func (m *Manager) Evict(userID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
