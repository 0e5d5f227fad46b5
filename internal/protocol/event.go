package protocol

import (
	"encoding/json"
)

// 服务端事件中的保留字段
const (
	fieldStatus          = "status"
	fieldError           = "error"
	fieldTokensPerSecond = "tokens_per_second"
)

// 事件 status 字段的取值
const (
	StatusComplete = "complete"
	StatusError    = "error"
)

// textKeys 文本提取的候选键，按优先级排列
// 事件命中第一个存在的键即返回，全部未命中视为心跳事件
var textKeys = []string{"response", "message", "text", "content", "answer"}

// Event 解码后的服务端事件
// 保留字段（status/error/tokens_per_second）提升为结构体字段，
// 其余字段保留在 fields 中用于文本提取
type Event struct {
	Status          string
	Error           string
	TokensPerSecond float64

	fields map[string]any
}

// DecodeEvent 从 JSON 字节解码服务端事件
func DecodeEvent(data []byte) (*Event, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return NewEvent(fields), nil
}

// NewEvent 从已解码的字段映射构造事件
func NewEvent(fields map[string]any) *Event {
	ev := &Event{fields: fields}
	if s, ok := fields[fieldStatus].(string); ok {
		ev.Status = s
	}
	if s, ok := fields[fieldError].(string); ok {
		ev.Error = s
	}
	if f, ok := fields[fieldTokensPerSecond].(float64); ok {
		ev.TokensPerSecond = f
	}
	return ev
}

// Complete 判断事件是否为完成信号
func (e *Event) Complete() bool {
	return e.Status == StatusComplete
}

// Failed 判断事件是否为错误信号
func (e *Event) Failed() bool {
	return e.Status == StatusError || e.Error != ""
}

// ErrorMessage 获取错误信号携带的错误信息
func (e *Event) ErrorMessage() string {
	if e.Error != "" {
		return e.Error
	}
	return "stream error"
}

// Text 按优先级提取事件携带的文本片段
// 返回 false 表示事件不携带文本（心跳事件）
func (e *Event) Text() (string, bool) {
	for _, key := range textKeys {
		if v, ok := e.fields[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s, true
			}
		}
	}
	return "", false
}

// Field 获取事件的原始字段值
func (e *Event) Field(key string) (any, bool) {
	v, ok := e.fields[key]
	return v, ok
}

// ResponseText 从单次请求的响应中提取回复文本
// 按 textKeys 的优先级查找；字符串原样返回；
// 未命中任何键时返回响应的 JSON 编码
func ResponseText(response any) string {
	switch v := response.(type) {
	case string:
		return v
	case map[string]any:
		for _, key := range textKeys {
			if raw, ok := v[key]; ok {
				if s, ok := raw.(string); ok {
					return s
				}
				data, err := json.Marshal(raw)
				if err == nil {
					return string(data)
				}
			}
		}
	}

	data, err := json.Marshal(response)
	if err != nil {
		return ""
	}
	return string(data)
}
