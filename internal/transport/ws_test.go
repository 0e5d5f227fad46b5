package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/blackbird-ai/blackbird-go/internal/protocol"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{}

// newWSServer 返回一个读取请求帧后按给定帧回放的 WebSocket 测试服务
func newWSServer(t *testing.T, frames []string, onRequest func(map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		var req map[string]any
		require.NoError(t, conn.ReadJSON(&req))
		if onRequest != nil {
			onRequest(req)
		}

		for _, frame := range frames {
			require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
		}

		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestWSTransport_Open(t *testing.T) {
	t.Run("StreamsAndCompletes", func(t *testing.T) {
		var gotReq map[string]any
		server := newWSServer(t, []string{
			`{"response":"Hi"}`,
			`{"status":"complete"}`,
		}, func(req map[string]any) { gotReq = req })
		defer server.Close()

		trans := NewWSTransport(wsURL(server), nil)
		conn, err := trans.Open(context.Background(), &protocol.ChatRequest{
			Message: "Hello",
			Agent:   "general",
		})
		require.NoError(t, err)
		defer conn.Close()

		ctx := context.Background()

		ev, err := conn.Read(ctx)
		require.NoError(t, err)
		text, _ := ev.Text()
		assert.Equal(t, "Hi", text)

		ev, err = conn.Read(ctx)
		require.NoError(t, err)
		assert.True(t, ev.Complete())

		// 正常关闭帧等价于流结束
		_, err = conn.Read(ctx)
		assert.ErrorIs(t, err, io.EOF)

		// 请求作为首帧送达服务端
		assert.Equal(t, "Hello", gotReq["message"])
		assert.Equal(t, "general", gotReq["agent"])
	})

	t.Run("DialFailure", func(t *testing.T) {
		trans := NewWSTransport("ws://127.0.0.1:1/ws", nil)
		_, err := trans.Open(context.Background(), &protocol.ChatRequest{Message: "x", Agent: "general"})
		assert.Error(t, err)
	})

	t.Run("DecodeFailure", func(t *testing.T) {
		server := newWSServer(t, []string{`not json`}, nil)
		defer server.Close()

		trans := NewWSTransport(wsURL(server), nil)
		conn, err := trans.Open(context.Background(), &protocol.ChatRequest{Message: "x", Agent: "general"})
		require.NoError(t, err)
		defer conn.Close()

		_, err = conn.Read(context.Background())
		require.Error(t, err)
		assert.NotErrorIs(t, err, io.EOF)
	})
}
