package agent

// Personality 预定义的 Agent 人格
type Personality string

const (
	PersonalityProfessional Personality = "professional"
	PersonalityFriendly     Personality = "friendly"
	PersonalityAnalytical   Personality = "analytical"
	PersonalityCreative     Personality = "creative"
	PersonalityTechnical    Personality = "technical"
	PersonalitySupportive   Personality = "supportive"
	PersonalityConcise      Personality = "concise"
	PersonalityDetailed     Personality = "detailed"
)

// personalityPrompts 各人格对应的提示词
var personalityPrompts = map[Personality]string{
	PersonalityProfessional: "Respond in a professional, formal manner.",
	PersonalityFriendly:     "Respond in a warm, friendly, and approachable manner.",
	PersonalityAnalytical:   "Provide detailed, analytical responses with logical reasoning.",
	PersonalityCreative:     "Think creatively and provide innovative solutions.",
	PersonalityTechnical:    "Focus on technical accuracy and provide detailed explanations.",
	PersonalitySupportive:   "Be encouraging and provide helpful guidance.",
	PersonalityConcise:      "Provide brief, direct responses.",
	PersonalityDetailed:     "Provide comprehensive, detailed explanations.",
}

// Prompt 返回人格对应的提示词，未知人格返回空串
func (p Personality) Prompt() string {
	return personalityPrompts[p]
}

// Capability 可启用的 Agent 能力
type Capability string

const (
	CapabilityFileProcessing     Capability = "file_processing"
	CapabilityWebSearch          Capability = "web_search"
	CapabilityCalculations       Capability = "calculations"
	CapabilityCodeAnalysis       Capability = "code_analysis"
	CapabilityImageGeneration    Capability = "image_generation"
	CapabilityEmailIntegration   Capability = "email_integration"
	CapabilityCalendarManagement Capability = "calendar_management"
	CapabilityDataAnalysis       Capability = "data_analysis"
	CapabilityDocumentCreation   Capability = "document_creation"
	CapabilityAPIIntegration     Capability = "api_integration"
)

// Config 自定义 Agent 的配置
// 可经 Builder 流式构造，也可从 YAML/JSON 文件加载
type Config struct {
	Name               string            `yaml:"name" json:"name"`
	Description        string            `yaml:"description" json:"description"`
	Personality        Personality       `yaml:"personality" json:"personality"`
	SystemPrompt       string            `yaml:"system_prompt" json:"system_prompt"`
	Capabilities       []Capability      `yaml:"capabilities" json:"capabilities"`
	Temperature        float64           `yaml:"temperature" json:"temperature"`
	MaxTokens          int               `yaml:"max_tokens" json:"max_tokens"`
	ContextLength      int               `yaml:"context_length" json:"context_length"`
	FileTypes          []string          `yaml:"file_types" json:"file_types"`
	CustomInstructions map[string]string `yaml:"custom_instructions" json:"custom_instructions"`
	Metadata           map[string]any    `yaml:"metadata" json:"metadata"`
}

// defaultConfig 返回带默认调参值的空白配置
func defaultConfig() Config {
	return Config{
		Personality:   PersonalityProfessional,
		Temperature:   0.7,
		MaxTokens:     2000,
		ContextLength: 4096,
	}
}

// HasCapability 判断配置是否启用了指定能力
func (c *Config) HasCapability(capability Capability) bool {
	for _, cap := range c.Capabilities {
		if cap == capability {
			return true
		}
	}
	return false
}
