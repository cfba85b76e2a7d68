// Package provider 提供按 "<provider>:<model>" 标识创建适配器的统一工厂
//
// 使用方式：
//
//	gen, err := provider.NewGenerator("openai:gpt-4o-mini",
//	    provider.WithCallOptions(llm.CallOptions{"max_tokens": 256}),
//	)
//
//	emb, err := provider.NewEmbedder("mistral:mistral-embed",
//	    provider.WithAPIKey("xxx"),
//	)
//
// 凭证未显式给出时从环境变量读取（如 OPENAI_API_KEY）。
// 所有解析错误都在构造网络客户端之前返回。
package provider

import (
	"maps"
	"slices"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/core"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/provider/anthropic"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/provider/gemini"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/provider/openai"
)

// ═══════════════════════════════════════════════════════════════════════════
// 能力表
// ═══════════════════════════════════════════════════════════════════════════

// entry 能力表条目：凭证映射 + 构造函数
type entry[T any] struct {
	credentials func() llm.CredentialSpec
	construct   func(cfg llm.ResolvedConfig, opts []core.ClientOption) (T, error)
}

var (
	generators = buildGenerators()
	embedders  = buildEmbedders()
)

func buildGenerators() map[llm.ProviderType]entry[llm.TextGenerator] {
	table := map[llm.ProviderType]entry[llm.TextGenerator]{
		llm.ProviderTypeAnthropic: {
			credentials: anthropic.Credentials,
			construct: func(cfg llm.ResolvedConfig, opts []core.ClientOption) (llm.TextGenerator, error) {
				c, err := anthropic.New(cfg, opts...)
				if err != nil {
					return nil, err
				}
				return c, nil
			},
		},
		llm.ProviderTypeGoogle: {
			credentials: gemini.Credentials,
			construct: func(cfg llm.ResolvedConfig, opts []core.ClientOption) (llm.TextGenerator, error) {
				c, err := gemini.New(cfg, opts...)
				if err != nil {
					return nil, err
				}
				return c, nil
			},
		},
	}

	for _, v := range openai.Variants() {
		table[v.Type] = entry[llm.TextGenerator]{
			credentials: v.Credentials,
			construct: func(cfg llm.ResolvedConfig, opts []core.ClientOption) (llm.TextGenerator, error) {
				c, err := openai.New(v, cfg, opts...)
				if err != nil {
					return nil, err
				}
				return c, nil
			},
		}
	}
	return table
}

func buildEmbedders() map[llm.ProviderType]entry[llm.TextEmbedder] {
	table := map[llm.ProviderType]entry[llm.TextEmbedder]{}
	for _, v := range []openai.Variant{openai.OpenAI(), openai.Mistral()} {
		table[v.Type] = entry[llm.TextEmbedder]{
			credentials: v.Credentials,
			construct: func(cfg llm.ResolvedConfig, opts []core.ClientOption) (llm.TextEmbedder, error) {
				e, err := openai.NewEmbedder(v, cfg, opts...)
				if err != nil {
					return nil, err
				}
				return e, nil
			},
		}
	}
	return table
}

// GenerationProviders 返回支持文本生成的 Provider（按声明顺序）
func GenerationProviders() []llm.ProviderType {
	return supported(generators)
}

// EmbeddingProviders 返回支持向量化的 Provider（按声明顺序）
func EmbeddingProviders() []llm.ProviderType {
	return supported(embedders)
}

func supported[T any](table map[llm.ProviderType]entry[T]) []llm.ProviderType {
	keys := slices.Collect(maps.Keys(table))
	order := llm.AllProviderTypes()
	slices.SortFunc(keys, func(a, b llm.ProviderType) int {
		return slices.Index(order, a) - slices.Index(order, b)
	})
	return keys
}

// ═══════════════════════════════════════════════════════════════════════════
// 工厂函数
// ═══════════════════════════════════════════════════════════════════════════

// NewGenerator 按标识创建文本生成适配器
func NewGenerator(identifier string, opts ...Option) (llm.TextGenerator, error) {
	return build(identifier, llm.CapabilityGeneration, generators, newOptions(opts))
}

// NewEmbedder 按标识创建向量化适配器
func NewEmbedder(identifier string, opts ...Option) (llm.TextEmbedder, error) {
	return build(identifier, llm.CapabilityEmbedding, embedders, newOptions(opts))
}

// MustGenerator 创建文本生成适配器，失败时 panic
func MustGenerator(identifier string, opts ...Option) llm.TextGenerator {
	g, err := NewGenerator(identifier, opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// MustEmbedder 创建向量化适配器，失败时 panic
func MustEmbedder(identifier string, opts ...Option) llm.TextEmbedder {
	e, err := NewEmbedder(identifier, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

func build[T any](identifier string, capability llm.Capability, table map[llm.ProviderType]entry[T], o *options) (T, error) {
	var zero T

	p, model, err := ParseIdentifier(identifier)
	if err != nil {
		return zero, err
	}

	e, ok := table[p]
	if !ok {
		return zero, llm.NewUnsupportedCapabilityError(p, capability)
	}

	values, sources, err := resolve(p, e.credentials(), o.credentials, o.lookup)
	if err != nil {
		return zero, err
	}

	o.logger.Debug("llm adapter resolved",
		"provider", p.String(),
		"model", model,
		"capability", string(capability),
		"credential_sources", sources,
	)

	return e.construct(llm.ResolvedConfig{
		Provider:    p,
		Model:       model,
		Credentials: values,
		CallOptions: o.callOptions.Clone(),
	}, o.transportOptions())
}
