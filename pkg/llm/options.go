package llm

import "maps"

// OptionModel 调用选项中的模型字段名
const OptionModel = "model"

// CallOptions 调用选项
//
// 键值原样转发到 Provider 请求体（如 max_tokens、temperature）。
type CallOptions map[string]any

// Clone 返回浅拷贝（nil 返回空 map）
func (o CallOptions) Clone() CallOptions {
	out := make(CallOptions, len(o))
	maps.Copy(out, o)
	return out
}

// Merge 返回 o 与 overrides 的合并结果，overrides 中的键优先
//
// 两个输入均不会被修改。
func (o CallOptions) Merge(overrides CallOptions) CallOptions {
	out := make(CallOptions, len(o)+len(overrides))
	maps.Copy(out, o)
	maps.Copy(out, overrides)
	return out
}

// WithModel 返回注入 model 字段后的副本
func (o CallOptions) WithModel(model string) CallOptions {
	out := o.Clone()
	out[OptionModel] = model
	return out
}

// Without 返回删除指定键后的副本
func (o CallOptions) Without(keys ...string) CallOptions {
	out := o.Clone()
	for _, k := range keys {
		delete(out, k)
	}
	return out
}

// Has 检查键是否存在
func (o CallOptions) Has(key string) bool {
	_, ok := o[key]
	return ok
}
