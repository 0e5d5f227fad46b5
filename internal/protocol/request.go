package protocol

import "encoding/json"

// ChatRequest 发往 /chat 端点的请求载荷
// Extra 中的键会平铺到顶层 JSON 对象中，与原始字段同级；
// 保留字段不会被 Extra 覆盖
type ChatRequest struct {
	Message        string `json:"message"`
	Agent          string `json:"agent"`
	Model          string `json:"model,omitempty"`
	IncludeHistory bool   `json:"include_history,omitempty"`

	Extra map[string]any `json:"-"`
}

// Payload 构造请求的顶层字段映射
func (r *ChatRequest) Payload() map[string]any {
	payload := make(map[string]any, len(r.Extra)+4)
	for k, v := range r.Extra {
		payload[k] = v
	}

	payload["message"] = r.Message
	payload["agent"] = r.Agent
	if r.Model != "" {
		payload["model"] = r.Model
	}
	if r.IncludeHistory {
		payload["include_history"] = r.IncludeHistory
	}

	return payload
}

// Marshal 序列化请求为 JSON 字节
func (r *ChatRequest) Marshal() ([]byte, error) {
	return json.Marshal(r.Payload())
}
