package openai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/core"
)

// ═══════════════════════════════════════════════════════════════════════════
// OpenAI 协议消息格式
// ═══════════════════════════════════════════════════════════════════════════

// ChatMessage Chat Completions 请求消息
//
// 供所有 OpenAI 兼容 Provider 共用（OpenAI、Groq、Together、Mistral 等）。
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ConvertMessages 将对话转换为 OpenAI 消息数组
//
// 角色原样映射（system 内联在消息数组中），顺序保持不变。
func ConvertMessages(conv llm.Conversation) []ChatMessage {
	result := make([]ChatMessage, 0, conv.Len())
	for _, msg := range conv.All() {
		result = append(result, ChatMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return result
}

// ═══════════════════════════════════════════════════════════════════════════
// 响应解析
// ═══════════════════════════════════════════════════════════════════════════

// ChatCompletion Chat Completions 响应（只保留需要的字段）
//
//	{
//	  "choices": [{
//	    "message": {"role": "assistant", "content": "..."},
//	    "finish_reason": "stop"
//	  }]
//	}
type ChatCompletion struct {
	Model   string   `json:"model,omitempty"`
	Choices []Choice `json:"choices"`
}

// Choice 单个候选
type Choice struct {
	Index        int              `json:"index"`
	Message      *ResponseMessage `json:"message"`
	FinishReason string           `json:"finish_reason,omitempty"`
}

// ResponseMessage 响应消息
//
// Content 可能是字符串、null，或内容块数组（Mistral 等）。
type ResponseMessage struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

// DecodeResponse 提取第一个候选的文本内容
//
// content 为 null 或缺失时返回 ""；choices 缺失是协议违例，返回 ResponseError。
func DecodeResponse(resp *ChatCompletion) (string, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return "", llm.NewResponseError("choices", fmt.Errorf("response has no choices"))
	}
	msg := resp.Choices[0].Message
	if msg == nil {
		return "", llm.NewResponseError("choices[0].message", fmt.Errorf("choice has no message"))
	}
	return DecodeContent(msg.Content)
}

// DecodeContent 解析 content 字段
//
// 支持：
//   - "text"
//   - null
//   - ["part", ...] 或 [{"type": "text", "text": "..."}, ...]
func DecodeContent(raw json.RawMessage) (string, error) {
	if core.IsJSONNull(raw) {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return "", llm.NewResponseError("content", err)
	}

	var sb strings.Builder
	for _, part := range parts {
		var text string
		if err := json.Unmarshal(part, &text); err == nil {
			sb.WriteString(text)
			continue
		}
		var block struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}
		if err := json.Unmarshal(part, &block); err != nil {
			return "", llm.NewResponseError("content", err)
		}
		if block.Type == "" || block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// ═══════════════════════════════════════════════════════════════════════════
// Embeddings
// ═══════════════════════════════════════════════════════════════════════════

// EmbeddingResponse /embeddings 响应
type EmbeddingResponse struct {
	Data []EmbeddingData `json:"data"`
}

// EmbeddingData 单条向量
type EmbeddingData struct {
	Index     *int      `json:"index"`
	Embedding []float64 `json:"embedding"`
}

// DecodeEmbeddings 按输入顺序返回向量
//
// 带 index 字段时按 index 重排；数量与 want 不符返回 ResponseError。
func DecodeEmbeddings(resp *EmbeddingResponse, want int) ([][]float64, error) {
	if resp == nil || resp.Data == nil {
		return nil, llm.NewResponseError("data", fmt.Errorf("response has no data"))
	}
	if len(resp.Data) != want {
		return nil, llm.NewResponseError("data", fmt.Errorf("expected %d embeddings, got %d", want, len(resp.Data)))
	}

	out := make([][]float64, want)
	for i, d := range resp.Data {
		pos := i
		if d.Index != nil {
			pos = *d.Index
		}
		if pos < 0 || pos >= want || out[pos] != nil {
			return nil, llm.NewResponseError("data.index", fmt.Errorf("invalid or duplicate index %d", pos))
		}
		if d.Embedding == nil {
			return nil, llm.NewResponseError("data.embedding", fmt.Errorf("missing embedding at index %d", pos))
		}
		out[pos] = d.Embedding
	}
	return out, nil
}
