package stream

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/blackbird-ai/blackbird-go/internal/transport"

	"github.com/zeromicro/go-zero/core/logx"
)

// State 会话生命周期状态
type State string

const (
	StateCreated   State = "CREATED"
	StateOpen      State = "OPEN"
	StateStreaming State = "STREAMING"
	StatePaused    State = "PAUSED"
	StateCompleted State = "COMPLETED"
	StateError     State = "ERROR"
	StateClosed    State = "CLOSED"
)

// Terminal 判断状态是否为终止状态
// 进入终止状态后不再发生任何状态转移，也不再投递片段
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateError || s == StateClosed
}

// Callbacks 会话的回调槽位，创建时注册，之后不可更换
// 三个槽位相互独立，均可为 nil
type Callbacks struct {
	// OnChunk 每收到一个文本片段调用一次，参数为该片段本身
	OnChunk func(text string)
	// OnComplete 流正常完成时调用，至多一次
	OnComplete func()
	// OnError 流出错或回调异常被转发时调用，至多一次
	// 与 OnComplete 互斥，同一会话不会两者都触发
	OnError func(err error)
}

// Session 一条打开或已结束的流式聊天交换
// 状态只沿状态机单调前进；片段累积是追加式的，
// 与投递给 OnChunk 的序列完全一致
type Session struct {
	id        string
	callbacks Callbacks
	createdAt time.Time

	// deliverMu 串行化所有回调调用
	// 实时投递与恢复时的缓冲冲刷经过同一把锁，保证投递顺序
	deliverMu sync.Mutex

	mu        sync.RWMutex
	state     State
	prePause  State // 暂停前的状态，恢复时回退
	fragments []string
	buffered  []string // 暂停期间缓冲的片段
	lastErr   error
	notified  bool // 终止回调（OnComplete 或 OnError）是否已触发
	closedAt  time.Time
	conn      transport.Connection
	cancel    context.CancelFunc
	done      chan struct{} // 进入终止状态时关闭，供 Bounded Waiter 等待
}

func newSession(id string, callbacks Callbacks) *Session {
	return &Session{
		id:        id,
		callbacks: callbacks,
		createdAt: time.Now(),
		state:     StateCreated,
		done:      make(chan struct{}),
	}
}

// ID 返回会话标识
func (s *Session) ID() string {
	return s.id
}

// State 返回当前状态
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Text 返回已累积文本的快照
// 流仍在进行时返回的是调用时刻的部分结果
func (s *Session) Text() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return strings.Join(s.fragments, "")
}

// Fragments 返回已累积片段的拷贝
func (s *Session) Fragments() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.fragments))
	copy(out, s.fragments)
	return out
}

// LastError 返回导致 ERROR 状态的错误，未出错时为 nil
func (s *Session) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// CreatedAt 返回会话创建时间
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// ClosedAt 返回进入终止状态的时间，未终止时为零值
func (s *Session) ClosedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closedAt
}

// Done 返回终止信号通道，进入终止状态时关闭
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// attach 绑定连接与取消函数，CREATED -> OPEN
func (s *Session) attach(conn transport.Connection, cancel context.CancelFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCreated {
		return
	}
	s.state = StateOpen
	s.conn = conn
	s.cancel = cancel
}

// deliver 投递一个文本片段
// 暂停中的会话只缓冲不回调；OPEN 状态下首个片段触发 OPEN -> STREAMING
func (s *Session) deliver(text string) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	switch s.state {
	case StatePaused:
		s.buffered = append(s.buffered, text)
		s.mu.Unlock()
		return
	case StateOpen:
		s.state = StateStreaming
	case StateStreaming:
	default:
		// 终止状态不再接收片段
		s.mu.Unlock()
		return
	}

	s.fragments = append(s.fragments, text)
	onChunk := s.callbacks.OnChunk
	s.mu.Unlock()

	if onChunk != nil {
		s.invoke(func() { onChunk(text) })
	}
}

// Pause 暂停会话：停止回调投递，后续片段进入缓冲
// 仅 OPEN/STREAMING 状态可暂停
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateOpen, StateStreaming:
		s.prePause = s.state
		s.state = StatePaused
		logx.Debugf("Stream paused, stream_id=%s", s.id)
		return nil
	default:
		return &InvalidStreamStateError{StreamID: s.id, State: s.state, Op: "pause"}
	}
}

// Resume 恢复会话，并按原始顺序冲刷暂停期间缓冲的片段
func (s *Session) Resume() error {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if s.state != StatePaused {
		state := s.state
		s.mu.Unlock()
		return &InvalidStreamStateError{StreamID: s.id, State: state, Op: "resume"}
	}

	s.state = s.prePause
	buffered := s.buffered
	s.buffered = nil
	if len(buffered) > 0 {
		if s.state == StateOpen {
			s.state = StateStreaming
		}
		s.fragments = append(s.fragments, buffered...)
	}
	onChunk := s.callbacks.OnChunk
	s.mu.Unlock()

	logx.Debugf("Stream resumed, stream_id=%s, flushed_chunks=%d", s.id, len(buffered))

	if onChunk != nil {
		for _, text := range buffered {
			text := text
			s.invoke(func() { onChunk(text) })
		}
	}
	return nil
}

// complete 完成转移：-> COMPLETED，触发一次 OnComplete
// 暂停期间缓冲的片段在完成前先行冲刷，不丢片段
func (s *Session) complete() {
	s.terminate(StateCompleted, nil, true)
}

// fail 错误转移：-> ERROR，记录 lastError 并触发一次 OnError
func (s *Session) fail(err error) {
	s.terminate(StateError, err, false)
}

// terminate 终止转移的公共路径，终止状态下调用为空操作
func (s *Session) terminate(to State, err error, flush bool) {
	s.deliverMu.Lock()
	defer s.deliverMu.Unlock()

	s.mu.Lock()
	if s.state.Terminal() {
		s.mu.Unlock()
		return
	}

	var flushed []string
	if flush && len(s.buffered) > 0 {
		flushed = s.buffered
		s.buffered = nil
		s.fragments = append(s.fragments, flushed...)
	}

	s.state = to
	s.closedAt = time.Now()
	if err != nil {
		s.lastErr = err
	}

	var notify func()
	if !s.notified {
		switch to {
		case StateCompleted:
			if cb := s.callbacks.OnComplete; cb != nil {
				s.notified = true
				notify = cb
			}
		case StateError:
			if cb := s.callbacks.OnError; cb != nil {
				s.notified = true
				notify = func() { cb(err) }
			}
		}
	}

	onChunk := s.callbacks.OnChunk
	close(s.done)
	s.mu.Unlock()

	if onChunk != nil {
		for _, text := range flushed {
			text := text
			s.invoke(func() { onChunk(text) })
		}
	}
	if notify != nil {
		s.invoke(notify)
	}
}

// Stop 显式终止会话：通知读取循环退出、关闭底层连接、状态置为 CLOSED
// 可重复调用；已处于终止状态时不再发生状态转移，仅释放资源
func (s *Session) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	conn := s.conn
	if !s.state.Terminal() {
		s.state = StateClosed
		s.closedAt = time.Now()
		close(s.done)
		logx.Debugf("Stream closed, stream_id=%s", s.id)
	}
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		_ = conn.Close()
	}
}

// invoke 调用用户回调并就地捕获 panic
// 回调异常绝不中断读取循环，也不影响其他会话
func (s *Session) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.containCallbackFailure(r)
		}
	}()
	fn()
}

// containCallbackFailure 处理回调异常：
// 终止回调尚未触发且注册了 OnError 时转发给它（占用终止回调名额），
// 否则记录日志后吞掉
func (s *Session) containCallbackFailure(r any) {
	cbErr := &CallbackError{StreamID: s.id, Value: r}

	s.mu.Lock()
	onError := s.callbacks.OnError
	fired := s.notified
	if !fired && onError != nil {
		s.notified = true
	}
	s.mu.Unlock()

	if fired || onError == nil {
		logx.Errorf("Callback panic swallowed, stream_id=%s, error=%v", s.id, cbErr)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("OnError callback panicked, stream_id=%s, error=%v", s.id, r)
		}
	}()
	onError(cbErr)
}
