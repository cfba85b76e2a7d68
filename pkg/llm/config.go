package llm

import "maps"

// ═══════════════════════════════════════════════════════════════════════════
// 解析后的配置
// ═══════════════════════════════════════════════════════════════════════════

// ResolvedConfig 单个适配器实例的最终配置
//
// 由工厂解析生成，适配器构造时复制保存，之后不再修改。
//
//	cfg := llm.ResolvedConfig{
//	    Provider:    llm.ProviderTypeOpenAI,
//	    Model:       "gpt-4o-mini",
//	    Credentials: map[string]string{llm.FieldAPIKey: "sk-xxx"},
//	    CallOptions: llm.CallOptions{"max_tokens": 512},
//	}
type ResolvedConfig struct {
	Provider    ProviderType
	Model       string
	Credentials map[string]string
	CallOptions CallOptions
}

// APIKey 返回 api_key 字段
func (c ResolvedConfig) APIKey() string {
	return c.Credentials[FieldAPIKey]
}

// BaseURL 返回 base_url 字段（可能为空）
func (c ResolvedConfig) BaseURL() string {
	return c.Credentials[FieldBaseURL]
}

// Clone 深拷贝 map 字段
func (c ResolvedConfig) Clone() ResolvedConfig {
	out := c
	out.Credentials = maps.Clone(c.Credentials)
	out.CallOptions = c.CallOptions.Clone()
	return out
}

// Validate 检查适配器构造所需的最小字段
func (c ResolvedConfig) Validate() error {
	if c.Model == "" {
		return NewConfigError("model is required", nil)
	}
	if c.APIKey() == "" {
		return NewConfigError("API key is required", nil)
	}
	return nil
}
