package llm

import "context"

// ═══════════════════════════════════════════════════════════════════════════
// 能力接口
// ═══════════════════════════════════════════════════════════════════════════

// TextGenerator 文本生成能力
//
// 实现在构造后不持有可变状态，可被多个 goroutine 并发调用。
type TextGenerator interface {
	// Model 返回绑定的模型名称
	Model() string

	// Response 单次非流式请求，返回完整文本
	//
	// Provider 返回空内容时返回 ""，不视为错误。
	// overrides 覆盖构造时的默认调用选项，可为 nil。
	Response(ctx context.Context, conv Conversation, overrides CallOptions) (string, error)

	// StreamingResponse 流式请求，返回单次消费的文本片段流
	//
	// 调用方必须消费到结束或调用 Stream.Close 释放连接。
	StreamingResponse(ctx context.Context, conv Conversation, overrides CallOptions) (*Stream, error)

	// Close 释放底层网络客户端的空闲连接
	Close() error
}

// TextEmbedder 文本向量化能力
type TextEmbedder interface {
	// Model 返回绑定的模型名称
	Model() string

	// EmbedText 向量化单条文本
	EmbedText(ctx context.Context, text string) ([]float64, error)

	// EmbedTexts 批量向量化，结果顺序与输入一致
	EmbedTexts(ctx context.Context, texts []string) ([][]float64, error)

	// Close 释放底层网络客户端的空闲连接
	Close() error
}

// Capability 能力类型，用于工厂查表和错误报告
type Capability string

const (
	CapabilityGeneration Capability = "generation"
	CapabilityEmbedding  Capability = "embedding"
)
