package openai

import (
	"strings"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
)

// ═══════════════════════════════════════════════════════════════════════════
// 推理模型参数适配
// ═══════════════════════════════════════════════════════════════════════════

// 推理模型只接受 temperature=1，且拒绝 top_p
var reasoningModelPrefixes = []string{
	"o1", "o3", "o4",
	"gpt-5",
	"deepseek-reasoner", "deepseek-r1",
}

// IsReasoningModel 按模型名前缀判断是否为推理模型
//
// 兼容带路由前缀的写法，如 OpenRouter 的 "openai/o3-mini"。
func IsReasoningModel(model string) bool {
	name := strings.ToLower(model)
	if _, after, ok := strings.Cut(name, "/"); ok {
		name = after
	}
	for _, prefix := range reasoningModelPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// AdaptOptions 按模型调整默认调用选项
//
// 普通模型原样返回。推理模型删除 top_p，已设置的 temperature 改为 1。
// 不修改入参。Client 只对构造时的默认选项调用它，单次调用的 overrides 不经过这里。
func AdaptOptions(model string, opts llm.CallOptions) llm.CallOptions {
	if !IsReasoningModel(model) {
		return opts
	}
	out := opts.Without("top_p")
	if out.Has("temperature") {
		out["temperature"] = 1.0
	}
	return out
}
