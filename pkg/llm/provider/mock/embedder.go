package mock

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"math"
	"sync"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
)

// DefaultDimensions 默认向量维度
const DefaultDimensions = 8

// Embedder 内存中的 [llm.TextEmbedder] 实现
//
// 相同文本总是得到相同的单位向量，不同文本的向量几乎必然不同。
type Embedder struct {
	mu     sync.Mutex
	model  string
	dims   int
	err    error
	inputs [][]string
}

// EmbedderOption Embedder 配置选项
type EmbedderOption func(*Embedder)

// NewEmbedder 创建 Mock Embedder
func NewEmbedder(opts ...EmbedderOption) *Embedder {
	e := &Embedder{
		model: "mock-embedding",
		dims:  DefaultDimensions,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// WithDimensions 设置向量维度（小于 1 时忽略）
func WithDimensions(n int) EmbedderOption {
	return func(e *Embedder) {
		if n > 0 {
			e.dims = n
		}
	}
}

// WithEmbeddingModel 设置模型名称
func WithEmbeddingModel(model string) EmbedderOption {
	return func(e *Embedder) {
		e.model = model
	}
}

// WithEmbeddingError 设置返回错误
func WithEmbeddingError(err error) EmbedderOption {
	return func(e *Embedder) {
		e.err = err
	}
}

// Model 返回模型名称
func (e *Embedder) Model() string {
	return e.model
}

// EmbedText 向量化单条文本
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float64, error) {
	vectors, err := e.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedTexts 批量向量化，空输入返回空结果且不记录调用
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	e.mu.Lock()
	e.inputs = append(e.inputs, append([]string(nil), texts...))
	err := e.err
	e.mu.Unlock()

	if err != nil {
		return nil, err
	}

	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = Vector(text, e.dims)
	}
	return out, nil
}

// Inputs 返回每次调用的输入副本
func (e *Embedder) Inputs() [][]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([][]string, len(e.inputs))
	copy(out, e.inputs)
	return out
}

// Close 空操作
func (e *Embedder) Close() error {
	return nil
}

// Vector 由文本哈希生成确定性的单位向量
func Vector(text string, dims int) []float64 {
	v := make([]float64, dims)
	var norm float64
	var idx [8]byte
	for i := range v {
		h := fnv.New64a()
		_, _ = h.Write([]byte(text))
		binary.LittleEndian.PutUint64(idx[:], uint64(i))
		_, _ = h.Write(idx[:])
		v[i] = float64(h.Sum64()%2001)/1000 - 1
		norm += v[i] * v[i]
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] /= norm
	}
	return v
}

// 确保 Embedder 实现了 TextEmbedder 接口
var _ llm.TextEmbedder = (*Embedder)(nil)
