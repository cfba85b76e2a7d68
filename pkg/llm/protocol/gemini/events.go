package gemini

import (
	"encoding/json"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/core"
)

// ═══════════════════════════════════════════════════════════════════════════
// Gemini SSE 事件处理器
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler Gemini SSE 事件处理器（streamGenerateContent?alt=sse）
//
// 每个 data 行是一个完整的 GenerateContentResponse。
// 无 [DONE] 信号：带 finishReason 的块产出其文本后结束。
type EventHandler struct{}

// NewEventHandler 创建 Gemini 事件处理器
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

type streamChunk struct {
	GenerateContentResponse

	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// HandleEvent 提取文本增量
//
// 没有 candidates 的块（如只含 usageMetadata）跳过。
func (h *EventHandler) HandleEvent(_ string, data []byte) (string, bool, error) {
	var chunk streamChunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return "", false, llm.NewStreamError("decode chunk", err)
	}

	if chunk.Error != nil {
		return "", false, llm.NewStreamError(chunk.Error.Message, nil)
	}

	if len(chunk.Candidates) == 0 {
		return "", false, nil
	}

	candidate := chunk.Candidates[0]
	return CandidateText(candidate), candidate.FinishReason != "", nil
}

// ShouldStopOnData Gemini 不使用显式终止信号
func (h *EventHandler) ShouldStopOnData(string) bool {
	return false
}

// 确保 EventHandler 实现了 core.EventHandler 接口
var _ core.EventHandler = (*EventHandler)(nil)
