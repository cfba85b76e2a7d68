package core

import (
	"errors"
	"io"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
)

// ═══════════════════════════════════════════════════════════════════════════
// 流式事件处理器接口
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler 流式事件处理器
//
// 每个协议实现此接口，从 SSE 事件中提取文本增量。
//
// 协议差异示例：
//   - OpenAI: 无事件类型，"data: [DONE]" 终止
//   - Anthropic: 有事件类型，message_stop 终止
//   - Gemini: 无终止信号，读到 EOF 结束
type EventHandler interface {
	// HandleEvent 处理单个事件
	//
	// 返回：
	//   - text: 文本增量，控制类事件返回 ""
	//   - stop: 处理完本事件后结束流（text 仍会被产出）
	//   - err: Provider 在流中返回的错误或无法解析的数据
	HandleEvent(eventType string, data []byte) (text string, stop bool, err error)

	// ShouldStopOnData 检查原始数据是否为终止信号（如 OpenAI 的 [DONE]）
	ShouldStopOnData(data string) bool
}

// ═══════════════════════════════════════════════════════════════════════════
// 事件流
// ═══════════════════════════════════════════════════════════════════════════

// NewEventStream 将 SSE 响应体包装为 llm.Stream
//
// body 在流结束、出错或 Stream.Close 时关闭。
func NewEventStream(body io.ReadCloser, handler EventHandler) *llm.Stream {
	reader := NewSSEReader(body)
	stopped := false

	recv := func() (string, error) {
		if stopped {
			return "", io.EOF
		}

		ev, err := reader.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			return "", llm.NewStreamError("read stream", err)
		}

		if handler.ShouldStopOnData(ev.Data) {
			stopped = true
			return "", io.EOF
		}

		text, stop, err := handler.HandleEvent(ev.Event, []byte(ev.Data))
		if err != nil {
			return "", err
		}
		if stop {
			stopped = true
		}
		return text, nil
	}

	return llm.NewStream(recv, body)
}
