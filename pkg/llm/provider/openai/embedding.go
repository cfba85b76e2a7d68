package openai

import (
	"context"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/core"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/protocol/openai"
)

const embeddingsPath = "/embeddings"

// Embedder OpenAI 兼容的向量化客户端
//
// 实现 [llm.TextEmbedder] 接口（openai、mistral 使用）。
type Embedder struct {
	variant  Variant
	model    string
	defaults llm.CallOptions
	http     *core.Client
}

// NewEmbedder 创建向量化客户端
func NewEmbedder(v Variant, cfg llm.ResolvedConfig, opts ...core.ClientOption) (*Embedder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Embedder{
		variant:  v,
		model:    cfg.Model,
		defaults: cfg.CallOptions.Clone(),
		http:     newTransport(v, cfg, opts),
	}, nil
}

// Model 返回模型名称
func (e *Embedder) Model() string {
	return e.model
}

// Provider 返回 Provider 类型
func (e *Embedder) Provider() llm.ProviderType {
	return e.variant.Type
}

// EmbedText 向量化单条文本
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float64, error) {
	vectors, err := e.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts 批量向量化
//
// 空输入直接返回空结果，不发请求。
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}
	return e.embed(ctx, texts)
}

func (e *Embedder) embed(ctx context.Context, texts []string) ([][]float64, error) {
	body := core.BuildBody(e.defaults.WithModel(e.model), map[string]any{
		"input": texts,
	})

	var resp openai.EmbeddingResponse
	if err := e.http.PostJSON(ctx, embeddingsPath, body, &resp); err != nil {
		return nil, err
	}
	return openai.DecodeEmbeddings(&resp, len(texts))
}

// Close 关闭客户端
func (e *Embedder) Close() error {
	return e.http.Close()
}

// 确保 Embedder 实现了 TextEmbedder 接口
var _ llm.TextEmbedder = (*Embedder)(nil)
