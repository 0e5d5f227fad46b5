package stream

import (
	"context"
	"errors"
	"io"

	"github.com/blackbird-ai/blackbird-go/internal/protocol"
	"github.com/blackbird-ai/blackbird-go/internal/transport"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/threading"
)

// Dispatcher 事件分发器
// 每条打开的流由一个独立的读取 goroutine 驱动：
// 从传输层连接逐条读取事件，按规则更新会话状态并投递回调
type Dispatcher struct{}

// NewDispatcher 创建事件分发器
func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Launch 绑定连接并启动读取循环
// 立即返回；此后的事件投递全部是异步的
func (d *Dispatcher) Launch(session *Session, conn transport.Connection) {
	runCtx, cancel := context.WithCancel(context.Background())
	session.attach(conn, cancel)

	threading.GoSafe(func() {
		d.run(runCtx, session, conn)
	})
}

// run 读取循环，直到流进入终止状态或被 Stop 取消
func (d *Dispatcher) run(ctx context.Context, session *Session, conn transport.Connection) {
	defer conn.Close()

	logx.WithContext(ctx).Debugf("Read loop started, stream_id=%s", session.ID())

	for {
		ev, err := conn.Read(ctx)
		if err != nil {
			d.finish(ctx, session, err)
			return
		}

		if d.process(ctx, session, ev) {
			return
		}
	}
}

// finish 处理读取结束：
// 流读尽视为完成；Stop 触发的取消不再转移状态；其余映射为 ERROR
func (d *Dispatcher) finish(ctx context.Context, session *Session, err error) {
	switch {
	case errors.Is(err, io.EOF):
		session.complete()
	case errors.Is(err, context.Canceled), errors.Is(err, transport.ErrConnectionClosed):
		logx.WithContext(ctx).Debugf("Read loop stopped, stream_id=%s, state=%s", session.ID(), session.State())
	default:
		logx.WithContext(ctx).Errorf("Stream transport failure, stream_id=%s, error=%v", session.ID(), err)
		session.fail(&StreamTransportError{StreamID: session.ID(), Err: err})
	}
}

// process 按固定顺序应用处理规则，返回 true 表示停止读取
func (d *Dispatcher) process(ctx context.Context, session *Session, ev *protocol.Event) bool {
	// 已关闭的会话只丢弃事件
	if session.State() == StateClosed {
		logx.WithContext(ctx).Debugf("Discarding event on closed stream, stream_id=%s", session.ID())
		return false
	}

	// 完成信号
	if ev.Complete() {
		logx.WithContext(ctx).Debugf("Stream completed, stream_id=%s", session.ID())
		session.complete()
		return true
	}

	// 错误信号
	if ev.Failed() {
		logx.WithContext(ctx).Errorf("Stream error event, stream_id=%s, error=%s", session.ID(), ev.ErrorMessage())
		session.fail(errors.New(ev.ErrorMessage()))
		return true
	}

	// 按优先级提取文本；未命中任何键的事件视为心跳
	text, ok := ev.Text()
	if !ok {
		logx.WithContext(ctx).Debugf("Heartbeat event, stream_id=%s", session.ID())
		return false
	}

	session.deliver(text)
	return false
}
