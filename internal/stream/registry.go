package stream

import (
	"sync"

	"github.com/zeromicro/go-zero/core/logx"
)

// Registry 流注册表
// 进程内所有会话的映射；表本身用读写锁保护，
// 会话内部状态由各自的锁保护，一条流的分发不会阻塞其他流的操作
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry 创建流注册表
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Create 创建会话并登记
// streamID 已存在时返回 DuplicateStreamError
func (r *Registry) Create(streamID string, callbacks Callbacks) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[streamID]; exists {
		return nil, &DuplicateStreamError{StreamID: streamID}
	}

	session := newSession(streamID, callbacks)
	r.sessions[streamID] = session

	logx.Debugf("Stream registered, stream_id=%s", streamID)
	return session, nil
}

// Get 查找会话
func (r *Registry) Get(streamID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[streamID]
	return session, exists
}

// Remove 移除会话，不存在时为空操作
func (r *Registry) Remove(streamID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[streamID]; !exists {
		return
	}
	delete(r.sessions, streamID)
	logx.Debugf("Stream removed, stream_id=%s", streamID)
}

// Active 列出所有未进入终止状态的会话 ID
func (r *Registry) Active() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	active := make([]string, 0, len(r.sessions))
	for streamID, session := range r.sessions {
		if !session.State().Terminal() {
			active = append(active, streamID)
		}
	}
	return active
}

// CloseAll 终止并移除所有会话
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	logx.Debugf("Closing all streams, count=%d", len(r.sessions))

	for _, session := range r.sessions {
		session.Stop()
	}
	r.sessions = make(map[string]*Session)
}
