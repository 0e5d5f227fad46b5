package transport

import (
	"context"
	"io"
	"sync"

	"github.com/blackbird-ai/blackbird-go/internal/protocol"
)

const defaultPipeBuffer = 100

// eventPipe 连接内部的事件队列
// 读取 goroutine 解码事件后推入队列，Read 从队列取出；
// SSE 与 WebSocket 连接共用这套收发逻辑
type eventPipe struct {
	// incoming 事件队列，由读取 goroutine 在结束时关闭
	incoming chan *protocol.Event

	// done 本地关闭信号
	done chan struct{}

	mu      sync.Mutex
	closed  bool
	readErr error // 读取 goroutine 遇到的错误，在关闭 incoming 前设置
}

func newEventPipe() *eventPipe {
	return &eventPipe{
		incoming: make(chan *protocol.Event, defaultPipeBuffer),
		done:     make(chan struct{}),
	}
}

// dispatch 将事件推入队列
// 返回 false 表示连接已被本地关闭，读取 goroutine 应当退出
func (p *eventPipe) dispatch(ev *protocol.Event) bool {
	select {
	case p.incoming <- ev:
		return true
	case <-p.done:
		return false
	}
}

// fail 记录读取错误，随后的 Read 会返回该错误
func (p *eventPipe) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.readErr == nil {
		p.readErr = err
	}
}

func (p *eventPipe) failure() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readErr
}

// Read 读取下一条事件（实现 Connection 接口的读取部分）
func (p *eventPipe) Read(ctx context.Context) (*protocol.Event, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.done:
		return nil, ErrConnectionClosed
	case ev, ok := <-p.incoming:
		if !ok {
			if err := p.failure(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		return ev, nil
	}
}

// shutdown 标记本地关闭
// 返回 false 表示已经关闭过
func (p *eventPipe) shutdown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false
	}
	p.closed = true
	close(p.done)
	return true
}
