package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blackbird-ai/blackbird-go/internal/protocol"
	"github.com/blackbird-ai/blackbird-go/internal/stream"
	"github.com/blackbird-ai/blackbird-go/internal/transport"

	"github.com/google/uuid"
	"github.com/zeromicro/go-zero/core/logx"
)

// ChatService 聊天服务门面
// 持有流注册表与事件分发器，对外提供单次发送、流式发送
// 以及针对已打开流的控制调用；所有方法可并发使用
type ChatService struct {
	client         *transport.HTTPClient
	transport      transport.Transport
	chatPath       string
	defaultModel   string
	collectTimeout time.Duration

	registry   *stream.Registry
	dispatcher *stream.Dispatcher
}

// NewChatService 创建聊天服务
func NewChatService(opt *ServiceOptional) *ChatService {
	service := &ChatService{
		chatPath:       defaultChatPath,
		defaultModel:   platformDefaultModel(),
		collectTimeout: defaultCollectTimeout,
		registry:       stream.NewRegistry(),
		dispatcher:     stream.NewDispatcher(),
	}

	// 应用可选配置
	if opt != nil {
		if opt.ChatPath != "" {
			service.chatPath = opt.ChatPath
		}
		if opt.DefaultModel != "" {
			service.defaultModel = opt.DefaultModel
		}
		if opt.CollectTimeout > 0 {
			service.collectTimeout = opt.CollectTimeout
		}
		if opt.BaseURL != "" {
			service.client = transport.NewHTTPClient(opt.BaseURL, opt.Headers)
		}
		if opt.Transport != nil {
			service.transport = opt.Transport
		} else if opt.BaseURL != "" {
			streamPath := opt.StreamPath
			if streamPath == "" {
				streamPath = defaultStreamPath
			}
			service.transport = transport.NewSSETransport(opt.BaseURL+streamPath, opt.Headers)
		}
	}

	return service
}

// Send 单次请求/响应发送，不创建会话
// 返回按优先级键提取出的回复文本
func (s *ChatService) Send(ctx context.Context, message string, opts *SendOptions) (string, error) {
	req, err := s.buildRequest(message, opts)
	if err != nil {
		return "", err
	}
	if s.client == nil {
		return "", fmt.Errorf("chat endpoint not configured")
	}

	logx.WithContext(ctx).Debugf("Sending chat request, agent=%s, model=%s", req.Agent, req.Model)

	resp, err := s.client.PostJSON(ctx, s.chatPath, req.Payload())
	if err != nil {
		return "", err
	}
	return protocol.ResponseText(resp), nil
}

// SendStreaming 流式发送：创建会话、打开传输流并立即返回流 ID
// 此后片段、完成和错误全部经由 callbacks 异步投递
// 流的生命周期独立于 ctx，显式结束需调用 Stop
func (s *ChatService) SendStreaming(ctx context.Context, message string, opts *SendOptions, callbacks stream.Callbacks) (string, error) {
	req, err := s.buildRequest(message, opts)
	if err != nil {
		return "", err
	}
	if s.transport == nil {
		return "", transport.ErrUnavailable
	}

	streamID := ""
	if opts != nil {
		streamID = opts.StreamID
	}
	if streamID == "" {
		streamID = uuid.NewString()
	}

	session, err := s.registry.Create(streamID, callbacks)
	if err != nil {
		return "", err
	}

	conn, err := s.transport.Open(context.WithoutCancel(ctx), req)
	if err != nil {
		s.registry.Remove(streamID)
		return "", fmt.Errorf("open stream %s: %w", streamID, err)
	}

	s.dispatcher.Launch(session, conn)

	logx.WithContext(ctx).Debugf("Streaming started, stream_id=%s, agent=%s", streamID, req.Agent)
	return streamID, nil
}

// SendStreamingCollect 流式发送并同步收集结果
// 底层仍走流式传输，阻塞至流结束或超时（timeout <= 0 时用默认值）；
// 超时返回此刻已累积的部分文本，不取消底层流
func (s *ChatService) SendStreamingCollect(ctx context.Context, message string, opts *SendOptions, timeout time.Duration) (string, error) {
	streamID, err := s.SendStreaming(ctx, message, opts, stream.Callbacks{})
	if err != nil {
		return "", err
	}

	session, _ := s.registry.Get(streamID)
	if timeout <= 0 {
		timeout = s.collectTimeout
	}

	text := stream.WaitFor(session, timeout)

	if session.State().Terminal() {
		s.registry.Remove(streamID)
		if err := session.LastError(); err != nil {
			return text, err
		}
	}
	return text, nil
}

// Stop 终止指定流并从注册表移除，流不存在时为空操作
func (s *ChatService) Stop(streamID string) {
	session, exists := s.registry.Get(streamID)
	if !exists {
		return
	}
	session.Stop()
	s.registry.Remove(streamID)
}

// Pause 暂停指定流，流不存在时为空操作
func (s *ChatService) Pause(streamID string) error {
	session, exists := s.registry.Get(streamID)
	if !exists {
		return nil
	}
	return session.Pause()
}

// Resume 恢复指定流并冲刷暂停期间缓冲的片段，流不存在时为空操作
func (s *ChatService) Resume(streamID string) error {
	session, exists := s.registry.Get(streamID)
	if !exists {
		return nil
	}
	return session.Resume()
}

// Status 查询指定流的当前状态
func (s *ChatService) Status(streamID string) (stream.State, bool) {
	session, exists := s.registry.Get(streamID)
	if !exists {
		return "", false
	}
	return session.State(), true
}

// Session 查询指定流的会话对象，供调用方读取文本快照等
func (s *ChatService) Session(streamID string) (*stream.Session, bool) {
	return s.registry.Get(streamID)
}

// ActiveStreams 列出所有未进入终止状态的流 ID
func (s *ChatService) ActiveStreams() []string {
	return s.registry.Active()
}

// Close 终止并移除所有流
func (s *ChatService) Close() {
	s.registry.CloseAll()
}

// buildRequest 校验发送参数并构造请求载荷
func (s *ChatService) buildRequest(message string, opts *SendOptions) (*protocol.ChatRequest, error) {
	if opts == nil {
		opts = &SendOptions{}
	}
	if strings.TrimSpace(message) == "" {
		return nil, &ValidationError{Field: "message", Message: "message is required"}
	}
	if opts.Agent == "" {
		return nil, &ValidationError{Field: "agent", Message: "agent is required"}
	}

	model := opts.Model
	if model == "" {
		model = s.defaultModel
	}

	return &protocol.ChatRequest{
		Message:        message,
		Agent:          opts.Agent,
		Model:          model,
		IncludeHistory: opts.IncludeHistory,
		Extra:          opts.Extra,
	}, nil
}
