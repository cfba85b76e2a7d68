package openai

import (
	"encoding/json"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/core"
)

// ═══════════════════════════════════════════════════════════════════════════
// OpenAI SSE 事件处理器
// ═══════════════════════════════════════════════════════════════════════════

// ChatCompletionChunk 流式响应块
//
//	{"choices": [{"delta": {"content": "..."}, "finish_reason": null}]}
type ChatCompletionChunk struct {
	Choices []struct {
		Delta struct {
			Content json.RawMessage `json:"content"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error *StreamErrorBody `json:"error,omitempty"`
}

// StreamErrorBody 流中返回的错误对象
type StreamErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
	Code    any    `json:"code,omitempty"`
}

// EventHandler OpenAI SSE 事件处理器
//
// OpenAI 流式格式：
//   - 无显式事件类型（eventType 总是空字符串）
//   - 文本增量：choices[0].delta.content
//   - 终止信号：data: [DONE]
//   - usage 块等没有 choices 的块直接跳过
type EventHandler struct{}

// NewEventHandler 创建 OpenAI 事件处理器
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// HandleEvent 提取文本增量
func (h *EventHandler) HandleEvent(_ string, data []byte) (string, bool, error) {
	var chunk ChatCompletionChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return "", false, llm.NewStreamError("decode chunk", err)
	}

	if chunk.Error != nil {
		return "", false, llm.NewStreamError(chunk.Error.Message, nil)
	}

	if len(chunk.Choices) == 0 {
		return "", false, nil
	}

	text, err := DecodeContent(chunk.Choices[0].Delta.Content)
	if err != nil {
		return "", false, llm.NewStreamError("decode delta", err)
	}
	return text, false, nil
}

// ShouldStopOnData 检查 [DONE] 终止信号
func (h *EventHandler) ShouldStopOnData(data string) bool {
	return data == "[DONE]"
}

// 确保 EventHandler 实现了 core.EventHandler 接口
var _ core.EventHandler = (*EventHandler)(nil)
