package transport

import (
	"context"
	"fmt"
	"net/http"

	"github.com/blackbird-ai/blackbird-go/internal/protocol"

	"github.com/gorilla/websocket"
	"github.com/zeromicro/go-zero/core/threading"
)

// WSTransport WebSocket 流式传输实现
// 建立连接后将请求作为首帧发送，此后服务端推送的每一帧解码为一条事件；
// 事件形状与 SSE 传输完全一致，上层不感知传输方式
type WSTransport struct {
	url    string
	dialer *websocket.Dialer
	header http.Header
}

// NewWSTransport 创建 WebSocket 传输层
// url 为 ws:// 或 wss:// 端点地址；header 可为 nil
func NewWSTransport(url string, header http.Header) *WSTransport {
	return &WSTransport{
		url:    url,
		dialer: websocket.DefaultDialer,
		header: header,
	}
}

// Open 建立 WebSocket 连接并发送请求帧（实现 Transport 接口）
func (t *WSTransport) Open(ctx context.Context, req *protocol.ChatRequest) (Connection, error) {
	conn, resp, err := t.dialer.DialContext(ctx, t.url, t.header)
	if err != nil {
		return nil, fmt.Errorf("dial websocket: %w", err)
	}
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	if err := conn.WriteJSON(req.Payload()); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("send chat request: %w", err)
	}

	return newWSConnection(conn), nil
}

// wsConnection WebSocket 连接
type wsConnection struct {
	*eventPipe
	conn *websocket.Conn
}

func newWSConnection(conn *websocket.Conn) *wsConnection {
	c := &wsConnection{
		eventPipe: newEventPipe(),
		conn:      conn,
	}

	threading.GoSafe(c.readLoop)
	return c
}

// readLoop 读取服务端帧并解码
// 正常关闭帧等价于流结束，Read 随之返回 io.EOF
func (c *wsConnection) readLoop() {
	defer close(c.incoming)

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return
			}
			c.fail(fmt.Errorf("read websocket stream: %w", err))
			return
		}

		ev, err := protocol.DecodeEvent(data)
		if err != nil {
			c.fail(fmt.Errorf("decode websocket event: %w", err))
			return
		}

		if !c.dispatch(ev) {
			return
		}
	}
}

// Close 关闭连接（实现 Connection 接口）
func (c *wsConnection) Close() error {
	if !c.shutdown() {
		return nil
	}

	// 尽力发送关闭帧，失败不影响连接关闭
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.conn.Close()
}
