package openai

import (
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
)

// ═══════════════════════════════════════════════════════════════════════════
// OpenAI 兼容变体
// ═══════════════════════════════════════════════════════════════════════════

// Variant OpenAI 兼容 Provider 的差异参数
//
// 协议逻辑完全共用，变体只决定凭证来源和默认地址。
type Variant struct {
	// Type Provider 类型
	Type llm.ProviderType

	// APIKeyEnv API Key 环境变量
	APIKeyEnv string

	// BaseURLEnv Base URL 环境变量，为空表示 Base URL 只接受显式参数
	BaseURLEnv string

	// DefaultBaseURL 显式参数和环境变量都缺失时使用
	DefaultBaseURL string
}

// Credentials 返回该变体的凭证映射
func (v Variant) Credentials() llm.CredentialSpec {
	if v.BaseURLEnv == "" {
		return llm.APIKeyWithDefaultBaseURL(v.APIKeyEnv, v.DefaultBaseURL)
	}
	return llm.APIKeyAndBaseURL(v.APIKeyEnv, v.BaseURLEnv, v.DefaultBaseURL)
}

// baseURL 解析最终地址
func (v Variant) baseURL(cfg llm.ResolvedConfig) string {
	if u := cfg.BaseURL(); u != "" {
		return u
	}
	return v.DefaultBaseURL
}

func variant(t llm.ProviderType, apiKeyEnv, baseURLEnv string) Variant {
	return Variant{
		Type:           t,
		APIKeyEnv:      apiKeyEnv,
		BaseURLEnv:     baseURLEnv,
		DefaultBaseURL: t.DefaultBaseURL(),
	}
}

// 内置变体（函数返回值，调用方无法修改全局状态）

// OpenAI 官方 API
func OpenAI() Variant { return variant(llm.ProviderTypeOpenAI, "OPENAI_API_KEY", "") }

// Together Together AI
func Together() Variant { return variant(llm.ProviderTypeTogether, "TOGETHER_API_KEY", "") }

// Groq Groq
func Groq() Variant { return variant(llm.ProviderTypeGroq, "GROQ_API_KEY", "") }

// Mistral Mistral AI
func Mistral() Variant { return variant(llm.ProviderTypeMistral, "MISTRAL_API_KEY", "") }

// Perplexity Perplexity
func Perplexity() Variant {
	return variant(llm.ProviderTypePerplexity, "PERPLEXITY_API_KEY", "PERPLEXITY_BASE_URL")
}

// DeepInfra DeepInfra
func DeepInfra() Variant {
	return variant(llm.ProviderTypeDeepInfra, "DEEPINFRA_API_KEY", "DEEPINFRA_BASE_URL")
}

// DeepSeek DeepSeek
func DeepSeek() Variant {
	return variant(llm.ProviderTypeDeepSeek, "DEEPSEEK_API_KEY", "DEEPSEEK_BASE_URL")
}

// OpenRouter OpenRouter
func OpenRouter() Variant {
	return variant(llm.ProviderTypeOpenRouter, "OPENROUTER_API_KEY", "OPENROUTER_BASE_URL")
}

// DashScope 阿里云 DashScope 兼容模式
func DashScope() Variant {
	return variant(llm.ProviderTypeDashScope, "DASHSCOPE_API_KEY", "DASHSCOPE_BASE_URL")
}

// Variants 返回全部内置变体
func Variants() []Variant {
	return []Variant{
		OpenAI(), Together(), Groq(), Mistral(), Perplexity(),
		DeepInfra(), DeepSeek(), OpenRouter(), DashScope(),
	}
}

// VariantFor 按 Provider 类型查找变体
func VariantFor(t llm.ProviderType) (Variant, bool) {
	for _, v := range Variants() {
		if v.Type == t {
			return v, true
		}
	}
	return Variant{}, false
}
