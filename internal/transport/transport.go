package transport

import (
	"context"
	"errors"

	"github.com/blackbird-ai/blackbird-go/internal/protocol"
)

// ErrUnavailable 请求了流式发送但未配置流式传输层
var ErrUnavailable = errors.New("streaming transport not configured")

// ErrConnectionClosed 连接已被本地关闭
var ErrConnectionClosed = errors.New("connection closed")

// Transport 流式传输层接口，负责打开一次聊天交换的事件流
// 连接级别的重试和退避由实现方负责，上层不感知
type Transport interface {
	// Open 建立事件流连接
	// 每次调用建立一条独立的连接，互不影响
	Open(ctx context.Context, req *protocol.ChatRequest) (Connection, error)
}

// Connection 单向（只读）事件流连接
type Connection interface {
	// Read 读取下一条事件
	// 流正常结束返回 io.EOF；连接被本地关闭返回 ErrConnectionClosed
	Read(ctx context.Context) (*protocol.Event, error)

	// Close 关闭连接并释放底层资源，可重复调用
	Close() error
}
