package agent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"
	"gopkg.in/yaml.v3"
)

// ConfigError Agent 配置非法
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return "invalid agent config: " + e.Message
}

// Builder Agent 配置的流式构建器
// 所有设置方法返回自身，最后通过 Build 产出 Agent
type Builder struct {
	config Config
}

// NewBuilder 创建构建器
func NewBuilder() *Builder {
	return &Builder{config: defaultConfig()}
}

// Name 设置名称
func (b *Builder) Name(name string) *Builder {
	b.config.Name = name
	return b
}

// Description 设置描述
func (b *Builder) Description(description string) *Builder {
	b.config.Description = description
	return b
}

// Personality 设置人格
func (b *Builder) Personality(personality Personality) *Builder {
	b.config.Personality = personality
	return b
}

// SystemPrompt 设置系统提示词
func (b *Builder) SystemPrompt(prompt string) *Builder {
	b.config.SystemPrompt = prompt
	return b
}

// WithCapability 启用一项能力，重复添加自动去重
func (b *Builder) WithCapability(capability Capability) *Builder {
	if !b.config.HasCapability(capability) {
		b.config.Capabilities = append(b.config.Capabilities, capability)
	}
	return b
}

// WithCapabilities 批量启用能力
func (b *Builder) WithCapabilities(capabilities ...Capability) *Builder {
	for _, capability := range capabilities {
		b.WithCapability(capability)
	}
	return b
}

// Temperature 设置生成温度
func (b *Builder) Temperature(temperature float64) *Builder {
	b.config.Temperature = temperature
	return b
}

// MaxTokens 设置最大 token 数
func (b *Builder) MaxTokens(tokens int) *Builder {
	b.config.MaxTokens = tokens
	return b
}

// ContextLength 设置上下文长度
func (b *Builder) ContextLength(length int) *Builder {
	b.config.ContextLength = length
	return b
}

// FileTypes 设置支持的文件类型
func (b *Builder) FileTypes(types ...string) *Builder {
	b.config.FileTypes = types
	return b
}

// Instruction 添加一条自定义指令
func (b *Builder) Instruction(instructionType, instruction string) *Builder {
	if b.config.CustomInstructions == nil {
		b.config.CustomInstructions = make(map[string]string)
	}
	b.config.CustomInstructions[instructionType] = instruction
	return b
}

// Metadata 添加一条元数据
func (b *Builder) Metadata(key string, value any) *Builder {
	if b.config.Metadata == nil {
		b.config.Metadata = make(map[string]any)
	}
	b.config.Metadata[key] = value
	return b
}

// FromTemplate 从内置模板初始化配置
// 模板不存在时保留当前配置不变
func (b *Builder) FromTemplate(templateName string) *Builder {
	template, exists := Template(templateName)
	if !exists {
		logx.Errorf("Unknown agent template, template=%s", templateName)
		return b
	}
	b.config = template
	return b
}

// FromFile 从 YAML 或 JSON 文件加载配置
// 按扩展名选择解析器：.yaml/.yml 走 YAML，其余走 JSON
func (b *Builder) FromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read agent config %s: %w", path, err)
	}

	config := defaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return fmt.Errorf("parse agent config %s: %w", path, err)
	}

	b.config = config
	return nil
}

// Validate 校验配置，返回全部问题
func (b *Builder) Validate() []string {
	var problems []string

	if b.config.Name == "" {
		problems = append(problems, "agent name is required")
	}
	if b.config.Description == "" {
		problems = append(problems, "agent description is required")
	}
	if b.config.Temperature < 0 || b.config.Temperature > 2 {
		problems = append(problems, "temperature must be between 0 and 2")
	}
	if b.config.MaxTokens <= 0 {
		problems = append(problems, "max tokens must be positive")
	}

	return problems
}

// Build 校验并产出 Agent
func (b *Builder) Build(sender Sender) (*Agent, error) {
	if problems := b.Validate(); len(problems) > 0 {
		return nil, &ConfigError{Message: strings.Join(problems, "; ")}
	}
	return newAgent(b.config, sender), nil
}

// Config 返回当前配置的拷贝
func (b *Builder) Config() Config {
	return b.config
}

// SaveFile 将配置写入 YAML 或 JSON 文件，按扩展名选择编码
func (b *Builder) SaveFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(&b.config)
	default:
		data, err = json.MarshalIndent(&b.config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode agent config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write agent config %s: %w", path, err)
	}
	return nil
}
