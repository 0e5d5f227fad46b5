package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	chat "github.com/blackbird-ai/blackbird-go/internal"
)

// Sender 消息发送端，由聊天服务门面实现
// Agent 只依赖此最小接口，便于测试替身
type Sender interface {
	Send(ctx context.Context, message string, opts *chat.SendOptions) (string, error)
}

// Agent 按配置包装消息发送：
// 将系统提示词、人格、自定义指令和上下文组装成完整提示词，
// 并以配置名作为默认路由目标
type Agent struct {
	config Config
	sender Sender
}

func newAgent(config Config, sender Sender) *Agent {
	return &Agent{
		config: config,
		sender: sender,
	}
}

// Config 返回 Agent 的配置拷贝
func (a *Agent) Config() Config {
	return a.config
}

// ProcessMessage 组装完整提示词并发送
// opts 为 nil 或未指定 agent 时，以配置名路由
func (a *Agent) ProcessMessage(ctx context.Context, message string, opts *chat.SendOptions) (string, error) {
	if a.sender == nil {
		return "", fmt.Errorf("agent %s has no sender configured", a.config.Name)
	}

	prompt := a.buildPrompt(message, nil)

	if opts == nil {
		opts = &chat.SendOptions{}
	}
	if opts.Agent == "" {
		opts.Agent = a.config.Name
	}

	return a.sender.Send(ctx, prompt, opts)
}

// ProcessMessageWithContext 同 ProcessMessage，附带上下文数据
// 上下文以 JSON 形式拼入提示词
func (a *Agent) ProcessMessageWithContext(ctx context.Context, message string, contextData map[string]any, opts *chat.SendOptions) (string, error) {
	if a.sender == nil {
		return "", fmt.Errorf("agent %s has no sender configured", a.config.Name)
	}

	prompt := a.buildPrompt(message, contextData)

	if opts == nil {
		opts = &chat.SendOptions{}
	}
	if opts.Agent == "" {
		opts.Agent = a.config.Name
	}

	return a.sender.Send(ctx, prompt, opts)
}

// buildPrompt 分层组装提示词：
// 系统提示词、人格提示词、自定义指令、上下文、用户消息，空段跳过
func (a *Agent) buildPrompt(message string, contextData map[string]any) string {
	var parts []string

	if a.config.SystemPrompt != "" {
		parts = append(parts, "System: "+a.config.SystemPrompt)
	}

	if prompt := a.config.Personality.Prompt(); prompt != "" {
		parts = append(parts, prompt)
	}

	// 指令按键名排序，保证提示词可复现
	instructionTypes := make([]string, 0, len(a.config.CustomInstructions))
	for instructionType := range a.config.CustomInstructions {
		instructionTypes = append(instructionTypes, instructionType)
	}
	sort.Strings(instructionTypes)
	for _, instructionType := range instructionTypes {
		parts = append(parts, instructionType+": "+a.config.CustomInstructions[instructionType])
	}

	if len(contextData) > 0 {
		data, err := json.MarshalIndent(contextData, "", "  ")
		if err == nil {
			parts = append(parts, "Context: "+string(data))
		}
	}

	parts = append(parts, "User: "+message)

	return strings.Join(parts, "\n\n")
}
