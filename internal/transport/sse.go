package transport

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/blackbird-ai/blackbird-go/internal/protocol"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/core/threading"
	"github.com/zeromicro/go-zero/rest/httpc"
)

// 单行 data 载荷的扫描上限
const maxSSELineSize = 1024 * 1024

// SSETransport SSE 流式传输实现（默认传输层）
// 通过 POST 打开事件流端点，逐行读取 data 帧并解码为事件
type SSETransport struct {
	url     string
	headers map[string]string
}

// NewSSETransport 创建 SSE 传输层
// url 为事件流端点的完整地址；headers 可为 nil
func NewSSETransport(url string, headers map[string]string) *SSETransport {
	return &SSETransport{
		url:     url,
		headers: headers,
	}
}

// Open 建立 SSE 连接（实现 Transport 接口）
func (t *SSETransport) Open(ctx context.Context, req *protocol.ChatRequest) (Connection, error) {
	body, err := req.Marshal()
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build stream request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Cache-Control", "no-cache")
	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := httpc.DoRequest(httpReq)
	if err != nil {
		return nil, fmt.Errorf("open sse stream: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("open sse stream: unexpected status %d", resp.StatusCode)
	}

	return newSSEConnection(resp.Body), nil
}

// sseConnection SSE 连接，从响应体中逐帧读取事件
type sseConnection struct {
	*eventPipe
	body io.ReadCloser
}

func newSSEConnection(body io.ReadCloser) *sseConnection {
	c := &sseConnection{
		eventPipe: newEventPipe(),
		body:      body,
	}

	threading.GoSafe(c.readLoop)
	return c
}

// readLoop 逐行扫描响应体，组装 data 帧并解码
// 响应体读尽后关闭 incoming，Read 随之返回 io.EOF
func (c *sseConnection) readLoop() {
	defer close(c.incoming)

	scanner := bufio.NewScanner(c.body)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELineSize)

	var data []string
	for scanner.Scan() {
		line := scanner.Text()

		// 空行表示一个事件结束
		if line == "" {
			if !c.flush(data) {
				return
			}
			data = data[:0]
			continue
		}

		// 注释行
		if strings.HasPrefix(line, ":") {
			continue
		}

		if payload, ok := strings.CutPrefix(line, "data:"); ok {
			data = append(data, strings.TrimPrefix(payload, " "))
		}
		// event/id/retry 字段与本协议无关，忽略
	}

	// 最后一个事件可能没有空行收尾
	if !c.flush(data) {
		return
	}

	if err := scanner.Err(); err != nil {
		c.fail(fmt.Errorf("read sse stream: %w", err))
	}
}

// flush 解码累积的 data 行并推入队列
// 返回 false 表示连接已关闭或载荷非法，读取循环应当退出
func (c *sseConnection) flush(data []string) bool {
	if len(data) == 0 {
		return true
	}

	ev, err := protocol.DecodeEvent([]byte(strings.Join(data, "\n")))
	if err != nil {
		logx.Errorf("Failed to decode sse event, error=%v", err)
		c.fail(fmt.Errorf("decode sse event: %w", err))
		return false
	}

	return c.dispatch(ev)
}

// Close 关闭连接（实现 Connection 接口）
// 关闭响应体以解除读取 goroutine 的阻塞
func (c *sseConnection) Close() error {
	if !c.shutdown() {
		return nil
	}
	return c.body.Close()
}
