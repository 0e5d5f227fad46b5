package blackbird

import (
	"net/http"

	chat "github.com/blackbird-ai/blackbird-go/internal"
	"github.com/blackbird-ai/blackbird-go/internal/agent"
	"github.com/blackbird-ai/blackbird-go/internal/transport"
)

// NewChatService 创建聊天服务。opt 可为 nil，使用默认配置。
func NewChatService(opt *ServiceOptional) *ChatService {
	return chat.NewChatService(opt)
}

// LoadServiceOptional 从 YAML 文件加载服务配置。
func LoadServiceOptional(path string) (*ServiceOptional, error) {
	return chat.LoadServiceOptional(path)
}

// NewSSETransport 创建 SSE 流式传输层。url 为完整的流式端点地址。
func NewSSETransport(url string, headers map[string]string) Transport {
	return transport.NewSSETransport(url, headers)
}

// NewWSTransport 创建 WebSocket 流式传输层。url 形如 ws://host/path。
func NewWSTransport(url string, header http.Header) Transport {
	return transport.NewWSTransport(url, header)
}

// NewAgentBuilder 创建 Agent 构建器。
func NewAgentBuilder() *AgentBuilder {
	return agent.NewBuilder()
}

// AgentTemplate 按名称取内置 Agent 模板。
func AgentTemplate(name string) (AgentConfig, bool) {
	return agent.Template(name)
}

// AgentTemplateNames 列出全部内置 Agent 模板名。
func AgentTemplateNames() []string {
	return agent.TemplateNames()
}
