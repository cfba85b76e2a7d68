package llm

import "slices"

// ProviderType LLM Provider 类型（封闭枚举）
//
// 新增 Provider 只追加成员，不修改已有成员。
type ProviderType string

const (
	// ProviderTypeOpenAI OpenAI 原生 API
	ProviderTypeOpenAI ProviderType = "openai"

	// ProviderTypeGoogle Google Gemini API
	ProviderTypeGoogle ProviderType = "google"

	// ProviderTypeTogether Together AI（OpenAI 兼容）
	ProviderTypeTogether ProviderType = "together"

	// ProviderTypeGroq Groq 快速推理 API（OpenAI 兼容）
	ProviderTypeGroq ProviderType = "groq"

	// ProviderTypeAnthropic Anthropic 原生 API
	ProviderTypeAnthropic ProviderType = "anthropic"

	// ProviderTypeMistral Mistral AI API（OpenAI 兼容）
	ProviderTypeMistral ProviderType = "mistral"

	// ProviderTypePerplexity Perplexity API（OpenAI 兼容）
	ProviderTypePerplexity ProviderType = "perplexity"

	// ProviderTypeDeepInfra DeepInfra API（OpenAI 兼容）
	ProviderTypeDeepInfra ProviderType = "deepinfra"

	// ProviderTypeDeepSeek DeepSeek API（OpenAI 兼容）
	ProviderTypeDeepSeek ProviderType = "deepseek"

	// ProviderTypeOpenRouter OpenRouter 聚合服务（OpenAI 兼容）
	ProviderTypeOpenRouter ProviderType = "openrouter"

	// ProviderTypeDashScope 阿里云百炼 DashScope（OpenAI 兼容模式）
	ProviderTypeDashScope ProviderType = "dashscope"
)

// AllProviderTypes 按声明顺序返回全部 Provider 类型
func AllProviderTypes() []ProviderType {
	return []ProviderType{
		ProviderTypeOpenAI,
		ProviderTypeGoogle,
		ProviderTypeTogether,
		ProviderTypeGroq,
		ProviderTypeAnthropic,
		ProviderTypeMistral,
		ProviderTypePerplexity,
		ProviderTypeDeepInfra,
		ProviderTypeDeepSeek,
		ProviderTypeOpenRouter,
		ProviderTypeDashScope,
	}
}

// ParseProviderType 精确匹配 Provider 标识（区分大小写）
func ParseProviderType(token string) (ProviderType, error) {
	t := ProviderType(token)
	if !t.IsValid() {
		return "", NewUnknownProviderError(token)
	}
	return t, nil
}

// IsValid 检查是否为枚举成员
func (t ProviderType) IsValid() bool {
	return slices.Contains(AllProviderTypes(), t)
}

// String 返回字符串表示
func (t ProviderType) String() string {
	return string(t)
}

// IsOpenAICompatible 判断是否为 OpenAI 兼容协议
func (t ProviderType) IsOpenAICompatible() bool {
	switch t {
	case ProviderTypeOpenAI, ProviderTypeTogether, ProviderTypeGroq,
		ProviderTypeMistral, ProviderTypePerplexity, ProviderTypeDeepInfra,
		ProviderTypeDeepSeek, ProviderTypeOpenRouter, ProviderTypeDashScope:
		return true
	default:
		return false
	}
}

// DefaultBaseURL 返回默认 Base URL
func (t ProviderType) DefaultBaseURL() string {
	switch t {
	case ProviderTypeOpenAI:
		return "https://api.openai.com/v1"
	case ProviderTypeGoogle:
		return "https://generativelanguage.googleapis.com/v1beta"
	case ProviderTypeTogether:
		return "https://api.together.xyz/v1"
	case ProviderTypeGroq:
		return "https://api.groq.com/openai/v1"
	case ProviderTypeAnthropic:
		return "https://api.anthropic.com/v1"
	case ProviderTypeMistral:
		return "https://api.mistral.ai/v1"
	case ProviderTypePerplexity:
		return "https://api.perplexity.ai"
	case ProviderTypeDeepInfra:
		return "https://api.deepinfra.com/v1/openai"
	case ProviderTypeDeepSeek:
		return "https://api.deepseek.com/v1"
	case ProviderTypeOpenRouter:
		return "https://openrouter.ai/api/v1"
	case ProviderTypeDashScope:
		return "https://dashscope.aliyuncs.com/compatible-mode/v1"
	default:
		return ""
	}
}
