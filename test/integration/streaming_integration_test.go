// Package integration_test 集成测试：经公开 API 串联门面、注册表、分发器与 SSE 传输。
// 使用 go test ./test/integration/... 运行；加 -short 可跳过耗时集成测试。
package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	blackbird "github.com/blackbird-ai/blackbird-go/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newChatServer 模拟聊天服务端：/chat 单次请求，/chat/stream 逐词 SSE 流
func newChatServer(t *testing.T, words []string, delay time.Duration) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.NotEmpty(t, payload["agent"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"response": "single reply",
		})
	})

	mux.HandleFunc("/chat/stream", func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)

		for _, word := range words {
			data, err := json.Marshal(map[string]any{"response": word})
			require.NoError(t, err)
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
			time.Sleep(delay)
		}

		fmt.Fprintf(w, "data: %s\n\n", `{"status": "complete", "tokens_per_second": 99.5}`)
		flusher.Flush()
	})

	return httptest.NewServer(mux)
}

// TestIntegration_StreamingRoundTrip 集成测试：完整的流式往返。
// 走真实 HTTP + SSE 解析路径，短测试时跳过。
func TestIntegration_StreamingRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	server := newChatServer(t, []string{"The ", "quick ", "brown ", "fox."}, 20*time.Millisecond)
	defer server.Close()

	service := blackbird.NewChatService(&blackbird.ServiceOptional{
		BaseURL: server.URL,
	})
	defer service.Close()

	ctx := context.Background()

	// 单次请求路径
	reply, err := service.Send(ctx, "hello", &blackbird.SendOptions{Agent: "general"})
	require.NoError(t, err)
	assert.Equal(t, "single reply", reply)

	// 流式路径：回调逐片投递，完成后状态与文本齐备
	var mu sync.Mutex
	var chunks []string
	done := make(chan struct{})

	streamID, err := service.SendStreaming(ctx, "stream it", &blackbird.SendOptions{Agent: "general"}, blackbird.Callbacks{
		OnChunk: func(text string) {
			mu.Lock()
			defer mu.Unlock()
			chunks = append(chunks, text)
		},
		OnComplete: func() {
			close(done)
		},
		OnError: func(err error) {
			t.Errorf("unexpected stream error: %v", err)
			close(done)
		},
	})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not complete")
	}

	mu.Lock()
	assert.Equal(t, []string{"The ", "quick ", "brown ", "fox."}, chunks)
	mu.Unlock()

	state, exists := service.Status(streamID)
	require.True(t, exists)
	assert.Equal(t, blackbird.StateCompleted, state)

	session, _ := service.Session(streamID)
	assert.Equal(t, "The quick brown fox.", session.Text())

	// 同步收集路径
	text, err := service.SendStreamingCollect(ctx, "collect it", &blackbird.SendOptions{Agent: "general"}, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "The quick brown fox.", text)
}

// TestIntegration_PauseResume 集成测试：真实流上的暂停恢复，不丢片段。
func TestIntegration_PauseResume(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	server := newChatServer(t, []string{"a", "b", "c", "d", "e", "f"}, 80*time.Millisecond)
	defer server.Close()

	service := blackbird.NewChatService(&blackbird.ServiceOptional{
		BaseURL: server.URL,
	})
	defer service.Close()

	var mu sync.Mutex
	var chunks []string
	done := make(chan struct{})

	streamID, err := service.SendStreaming(context.Background(), "stream it", &blackbird.SendOptions{Agent: "general"}, blackbird.Callbacks{
		OnChunk: func(text string) {
			mu.Lock()
			defer mu.Unlock()
			chunks = append(chunks, text)
		},
		OnComplete: func() { close(done) },
	})
	require.NoError(t, err)

	// 流中途暂停再恢复
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, service.Pause(streamID))
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, service.Resume(streamID))

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not complete")
	}

	// 暂停不丢片段，顺序保持
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, chunks)
}

// TestIntegration_StopMidStream 集成测试：中途停止释放连接并置 CLOSED。
func TestIntegration_StopMidStream(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	server := newChatServer(t, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}, 50*time.Millisecond)
	defer server.Close()

	service := blackbird.NewChatService(&blackbird.ServiceOptional{
		BaseURL: server.URL,
	})
	defer service.Close()

	completeCalled := false
	streamID, err := service.SendStreaming(context.Background(), "stream it", &blackbird.SendOptions{Agent: "general"}, blackbird.Callbacks{
		OnComplete: func() { completeCalled = true },
	})
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	session, exists := service.Session(streamID)
	require.True(t, exists)

	service.Stop(streamID)

	select {
	case <-session.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("stop did not terminate session")
	}

	assert.Equal(t, blackbird.StateClosed, session.State())
	assert.False(t, completeCalled)
	_, exists = service.Status(streamID)
	assert.False(t, exists)
}
