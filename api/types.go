package blackbird

import (
	chat "github.com/blackbird-ai/blackbird-go/internal"
	"github.com/blackbird-ai/blackbird-go/internal/agent"
	"github.com/blackbird-ai/blackbird-go/internal/stream"
	"github.com/blackbird-ai/blackbird-go/internal/transport"
)

// 以下类型从 internal 重导出，供应用层使用。

// ChatService 聊天服务门面：单次发送、流式发送与流控制。
type ChatService = chat.ChatService

// ServiceOptional 创建 ChatService 时的可选配置。
type ServiceOptional = chat.ServiceOptional

// SendOptions 单次发送的选项，Agent 为必填项。
type SendOptions = chat.SendOptions

// ValidationError 发送参数校验失败。
type ValidationError = chat.ValidationError

// Callbacks 流式发送的回调槽位，三个槽位均可为 nil。
type Callbacks = stream.Callbacks

// Session 一条打开或已结束的流式交换，可读取状态与文本快照。
type Session = stream.Session

// State 会话生命周期状态。
type State = stream.State

// 会话状态取值。
const (
	StateCreated   = stream.StateCreated
	StateOpen      = stream.StateOpen
	StateStreaming = stream.StateStreaming
	StatePaused    = stream.StatePaused
	StateCompleted = stream.StateCompleted
	StateError     = stream.StateError
	StateClosed    = stream.StateClosed
)

// DuplicateStreamError 流 ID 冲突。
type DuplicateStreamError = stream.DuplicateStreamError

// InvalidStreamStateError 控制调用命中了不合法的会话状态。
type InvalidStreamStateError = stream.InvalidStreamStateError

// StreamTransportError 传输层在流进行中报告的失败。
type StreamTransportError = stream.StreamTransportError

// CallbackError 用户回调中抛出的异常，被就地捕获后转发。
type CallbackError = stream.CallbackError

// Transport 流式传输层接口，可自定义实现替换内置 SSE/WebSocket。
type Transport = transport.Transport

// Connection 一条打开的流式连接。
type Connection = transport.Connection

// ErrTransportUnavailable 请求了流式发送但未配置流式传输层。
var ErrTransportUnavailable = transport.ErrUnavailable

// AgentBuilder Agent 配置的流式构建器。
type AgentBuilder = agent.Builder

// AgentConfig 自定义 Agent 的配置。
type AgentConfig = agent.Config

// Agent 按配置组装提示词并经 ChatService 发送的自定义 Agent。
type Agent = agent.Agent

// Sender Agent 的消息发送端，ChatService 实现此接口。
type Sender = agent.Sender

// Personality 预定义的 Agent 人格。
type Personality = agent.Personality

// Capability 可启用的 Agent 能力。
type Capability = agent.Capability
