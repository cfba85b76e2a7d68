package anthropic

import (
	"encoding/json"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/core"
)

// ═══════════════════════════════════════════════════════════════════════════
// Anthropic SSE 事件处理器
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler Anthropic SSE 事件处理器
//
// 事件类型：
//   - content_block_delta: 内容增量，只取 text_delta
//   - message_stop:        消息结束
//   - error:               流中错误
//   - message_start, content_block_start, content_block_stop,
//     message_delta, ping: 控制事件，跳过
type EventHandler struct{}

// NewEventHandler 创建 Anthropic 事件处理器
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

type streamEvent struct {
	Type  string `json:"type"`
	Delta struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"delta"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// HandleEvent 处理 Anthropic 流式事件
//
// 事件类型优先取 "event:" 行，缺失时取数据中的 type 字段。
func (h *EventHandler) HandleEvent(eventType string, data []byte) (string, bool, error) {
	var ev streamEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return "", false, llm.NewStreamError("decode event", err)
	}

	if eventType == "" {
		eventType = ev.Type
	}

	switch eventType {
	case "content_block_delta":
		if ev.Delta.Type == "text_delta" {
			return ev.Delta.Text, false, nil
		}
		return "", false, nil

	case "message_stop":
		return "", true, nil

	case "error":
		msg := ev.Error.Message
		if msg == "" {
			msg = ev.Error.Type
		}
		return "", false, llm.NewStreamError(msg, nil)

	default:
		return "", false, nil
	}
}

// ShouldStopOnData Anthropic 使用 message_stop 事件终止，总是返回 false
func (h *EventHandler) ShouldStopOnData(string) bool {
	return false
}

// 确保 EventHandler 实现了 core.EventHandler 接口
var _ core.EventHandler = (*EventHandler)(nil)
