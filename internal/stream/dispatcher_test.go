package stream

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/blackbird-ai/blackbird-go/internal/protocol"
	"github.com/blackbird-ai/blackbird-go/internal/transport"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frame 脚本化连接的单步读取结果
type frame struct {
	fields map[string]any
	err    error
}

// scriptedConn 按脚本回放事件的假连接，脚本耗尽后返回 io.EOF
type scriptedConn struct {
	frames chan frame

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

func newScriptedConn(frames ...frame) *scriptedConn {
	c := &scriptedConn{
		frames: make(chan frame, len(frames)+1),
		done:   make(chan struct{}),
	}
	for _, f := range frames {
		c.frames <- f
	}
	close(c.frames)
	return c
}

func (c *scriptedConn) Read(ctx context.Context) (*protocol.Event, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, transport.ErrConnectionClosed
	case f, ok := <-c.frames:
		if !ok {
			return nil, io.EOF
		}
		if f.err != nil {
			return nil, f.err
		}
		return protocol.NewEvent(f.fields), nil
	}
}

func (c *scriptedConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.done)
	}
	return nil
}

func (c *scriptedConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func waitDone(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(3 * time.Second):
		t.Fatalf("stream %s did not terminate, state=%s", s.ID(), s.State())
	}
}

func TestDispatcherLaunch(t *testing.T) {
	t.Run("ChunksThenComplete", func(t *testing.T) {
		rec := &recorder{}
		s := newSession("d1", rec.callbacks())
		conn := newScriptedConn(
			frame{fields: map[string]any{"response": "Hello"}},
			frame{fields: map[string]any{"response": ", world"}},
			frame{fields: map[string]any{"status": "complete"}},
		)

		NewDispatcher().Launch(s, conn)
		waitDone(t, s)

		chunks, completes, errs := rec.snapshot()
		assert.Equal(t, []string{"Hello", ", world"}, chunks)
		assert.Equal(t, 1, completes)
		assert.Empty(t, errs)
		assert.Equal(t, "Hello, world", s.Text())
		assert.Equal(t, StateCompleted, s.State())
		assert.True(t, conn.Closed())
	})

	t.Run("EndOfStreamCompletes", func(t *testing.T) {
		rec := &recorder{}
		s := newSession("d2", rec.callbacks())
		conn := newScriptedConn(
			frame{fields: map[string]any{"response": "partial"}},
		)

		NewDispatcher().Launch(s, conn)
		waitDone(t, s)

		_, completes, _ := rec.snapshot()
		assert.Equal(t, 1, completes)
		assert.Equal(t, StateCompleted, s.State())
		assert.Equal(t, "partial", s.Text())
	})

	t.Run("ErrorEventFails", func(t *testing.T) {
		rec := &recorder{}
		s := newSession("d3", rec.callbacks())
		conn := newScriptedConn(
			frame{fields: map[string]any{"response": "so far"}},
			frame{fields: map[string]any{"status": "error", "error": "model overloaded"}},
			frame{fields: map[string]any{"response": "never delivered"}},
		)

		NewDispatcher().Launch(s, conn)
		waitDone(t, s)

		chunks, completes, errs := rec.snapshot()
		assert.Equal(t, []string{"so far"}, chunks)
		assert.Zero(t, completes)
		require.Len(t, errs, 1)
		assert.EqualError(t, errs[0], "model overloaded")
		assert.Equal(t, StateError, s.State())
		assert.Equal(t, "so far", s.Text())
	})

	t.Run("ErrorFieldWithoutStatus", func(t *testing.T) {
		rec := &recorder{}
		s := newSession("d4", rec.callbacks())
		conn := newScriptedConn(
			frame{fields: map[string]any{"error": "backend unreachable"}},
		)

		NewDispatcher().Launch(s, conn)
		waitDone(t, s)

		_, _, errs := rec.snapshot()
		require.Len(t, errs, 1)
		assert.EqualError(t, errs[0], "backend unreachable")
		assert.Equal(t, StateError, s.State())
	})

	t.Run("TransportFailure", func(t *testing.T) {
		rec := &recorder{}
		s := newSession("d5", rec.callbacks())
		readErr := errors.New("connection reset")
		conn := newScriptedConn(
			frame{fields: map[string]any{"response": "partial"}},
			frame{err: readErr},
		)

		NewDispatcher().Launch(s, conn)
		waitDone(t, s)

		_, completes, errs := rec.snapshot()
		assert.Zero(t, completes)
		require.Len(t, errs, 1)

		var tErr *StreamTransportError
		require.ErrorAs(t, errs[0], &tErr)
		assert.Equal(t, "d5", tErr.StreamID)
		assert.ErrorIs(t, tErr, readErr)
		assert.Equal(t, StateError, s.State())
	})

	t.Run("HeartbeatsAreIgnored", func(t *testing.T) {
		rec := &recorder{}
		s := newSession("d6", rec.callbacks())
		conn := newScriptedConn(
			frame{fields: map[string]any{"tokens_per_second": 42.5}},
			frame{fields: map[string]any{"response": "data"}},
			frame{fields: map[string]any{}},
			frame{fields: map[string]any{"status": "complete"}},
		)

		NewDispatcher().Launch(s, conn)
		waitDone(t, s)

		chunks, _, _ := rec.snapshot()
		assert.Equal(t, []string{"data"}, chunks)
		assert.Equal(t, StateCompleted, s.State())
	})

	t.Run("StopEndsReadLoop", func(t *testing.T) {
		rec := &recorder{}
		s := newSession("d7", rec.callbacks())
		// 无限流：只有心跳，永不完成
		conn := &scriptedConn{
			frames: make(chan frame),
			done:   make(chan struct{}),
		}

		NewDispatcher().Launch(s, conn)
		s.Stop()
		waitDone(t, s)

		assert.Equal(t, StateClosed, s.State())
		assert.True(t, conn.Closed())

		_, completes, errs := rec.snapshot()
		assert.Zero(t, completes)
		assert.Empty(t, errs)
	})
}

func TestDispatcherProcess(t *testing.T) {
	t.Run("DiscardsEventsOnClosedStream", func(t *testing.T) {
		rec := &recorder{}
		s := newSession("d8", rec.callbacks())
		s.attach(nil, nil)
		s.Stop()

		d := NewDispatcher()
		stop := d.process(context.Background(), s, protocol.NewEvent(map[string]any{"response": "late"}))
		assert.False(t, stop)

		chunks, _, _ := rec.snapshot()
		assert.Empty(t, chunks)
		assert.Equal(t, StateClosed, s.State())
	})

	t.Run("CompleteEventStopsLoop", func(t *testing.T) {
		s := newSession("d9", Callbacks{})
		s.attach(nil, nil)

		d := NewDispatcher()
		stop := d.process(context.Background(), s, protocol.NewEvent(map[string]any{"status": "complete"}))
		assert.True(t, stop)
		assert.Equal(t, StateCompleted, s.State())
	})
}
