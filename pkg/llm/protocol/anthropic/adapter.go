package anthropic

import (
	"strings"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
)

// ═══════════════════════════════════════════════════════════════════════════
// Anthropic Messages 协议格式
// ═══════════════════════════════════════════════════════════════════════════

// MessageParam Messages API 请求消息
//
// 只允许 user/assistant 角色；system 通过顶层 system 字段传递。
type MessageParam struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConvertMessages 将对话转换为 Anthropic 消息数组，丢弃 system 消息
func ConvertMessages(conv llm.Conversation) []MessageParam {
	result := make([]MessageParam, 0, conv.Len())
	for _, msg := range conv.All() {
		if msg.Role != llm.RoleUser && msg.Role != llm.RoleAssistant {
			continue
		}
		result = append(result, MessageParam{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return result
}

// ExtractSystem 从末尾开始查找最后一条 system 消息
//
// 没有 system 消息时 ok 为 false，请求中应省略 system 字段。
func ExtractSystem(conv llm.Conversation) (content string, ok bool) {
	for _, msg := range conv.Backward() {
		if msg.Role == llm.RoleSystem {
			return msg.Content, true
		}
	}
	return "", false
}

// ═══════════════════════════════════════════════════════════════════════════
// 响应解析
// ═══════════════════════════════════════════════════════════════════════════

// MessageResponse Messages API 响应
//
//	{
//	  "content": [{"type": "text", "text": "..."}],
//	  "stop_reason": "end_turn"
//	}
type MessageResponse struct {
	Model      string         `json:"model,omitempty"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason,omitempty"`
}

// ContentBlock 响应内容块
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// DecodeResponse 拼接所有 text 块，无内容返回 ""
func DecodeResponse(resp *MessageResponse) string {
	if resp == nil {
		return ""
	}
	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String()
}
