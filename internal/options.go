package chat

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/blackbird-ai/blackbird-go/internal/transport"

	"gopkg.in/yaml.v3"
)

// 默认路径与等待时长
const (
	defaultChatPath       = "/chat"
	defaultStreamPath     = "/chat/stream"
	defaultCollectTimeout = 30 * time.Second
)

// ValidationError 发送参数校验失败
// 校验在任何网络请求之前完成，同步返回给调用方
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid option %q: %s", e.Field, e.Message)
}

// ServiceOptional 聊天服务的可选配置
type ServiceOptional struct {
	// BaseURL 服务端基地址，形如 http://localhost:5012
	BaseURL string `yaml:"base_url"`
	// ChatPath 单次请求端点路径，默认 /chat
	ChatPath string `yaml:"chat_path"`
	// StreamPath 流式端点路径，默认 /chat/stream
	StreamPath string `yaml:"stream_path"`
	// Headers 附加到每个请求的头部（如鉴权）
	Headers map[string]string `yaml:"headers"`
	// DefaultModel 未在发送选项中指定模型时的默认值
	// 为空时按运行平台选择内置默认模型
	DefaultModel string `yaml:"default_model"`
	// CollectTimeout SendStreamingCollect 的默认等待时长，默认 30s
	CollectTimeout time.Duration `yaml:"-"`
	// Transport 流式传输层
	// 为 nil 时基于 BaseURL+StreamPath 构造 SSE 传输
	Transport transport.Transport `yaml:"-"`
}

// LoadServiceOptional 从 YAML 文件加载服务配置
func LoadServiceOptional(path string) (*ServiceOptional, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	opt := &ServiceOptional{}
	if err := yaml.Unmarshal(data, opt); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return opt, nil
}

// SendOptions 单次发送的选项
// Agent 为必填项，其余均可省略
type SendOptions struct {
	// Agent 路由目标，缺失时发送失败
	Agent string
	// Model 指定模型，为空时使用服务默认模型
	Model string
	// IncludeHistory 请求服务端携带会话历史
	IncludeHistory bool
	// StreamID 指定流 ID（仅流式发送），为空时自动生成
	StreamID string
	// Extra 平铺到请求顶层的附加字段，不覆盖保留字段
	Extra map[string]any
}

// platformDefaultModel 按运行平台选择默认模型
func platformDefaultModel() string {
	if runtime.GOOS == "darwin" {
		return "mlx-community/Qwen3-1.7B-bnb-4bit"
	}
	return "unsloth/Qwen3-1.7B-bnb-4bit"
}
