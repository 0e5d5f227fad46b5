package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/zeromicro/go-zero/rest/httpc"
)

// HTTPClient 单次请求客户端，承载非流式的请求/响应路径
type HTTPClient struct {
	baseURL string
	headers map[string]string
}

// NewHTTPClient 创建单次请求客户端
// baseURL 形如 http://localhost:5012，不含路径；headers 可为 nil
func NewHTTPClient(baseURL string, headers map[string]string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		headers: headers,
	}
}

// PostJSON 发送 JSON 请求并解析响应
// 响应体是合法 JSON 时返回解码结果，否则原样返回字符串
func (c *HTTPClient) PostJSON(ctx context.Context, path string, payload any) (any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := httpc.DoRequest(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("post %s: unexpected status %d: %s", path, resp.StatusCode, data)
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return string(data), nil
	}
	return decoded, nil
}
