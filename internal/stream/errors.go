package stream

import "fmt"

// DuplicateStreamError 创建会话时 stream_id 冲突
type DuplicateStreamError struct {
	StreamID string
}

func (e *DuplicateStreamError) Error() string {
	return fmt.Sprintf("stream already exists, stream_id=%s", e.StreamID)
}

// InvalidStreamStateError 控制调用作用于不合法状态的会话
type InvalidStreamStateError struct {
	StreamID string
	State    State
	Op       string
}

func (e *InvalidStreamStateError) Error() string {
	return fmt.Sprintf("cannot %s stream in state %s, stream_id=%s", e.Op, e.State, e.StreamID)
}

// StreamTransportError 传输层在流中途报告的失败
// 会被记录为会话的 lastError 并触发一次 onError 回调，不会静默丢弃
type StreamTransportError struct {
	StreamID string
	Err      error
}

func (e *StreamTransportError) Error() string {
	return fmt.Sprintf("stream transport failure, stream_id=%s: %v", e.StreamID, e.Err)
}

func (e *StreamTransportError) Unwrap() error {
	return e.Err
}

// CallbackError 用户回调中抛出的异常
// 在分发路径中就地捕获，转发给 onError 或记录日志后吞掉，
// 不会中断读取循环，也不会影响其他会话
type CallbackError struct {
	StreamID string
	Value    any
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("callback panic, stream_id=%s: %v", e.StreamID, e.Value)
}
