package provider

import (
	"os"
	"strings"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
)

// ═══════════════════════════════════════════════════════════════════════════
// 标识解析
// ═══════════════════════════════════════════════════════════════════════════

// ParseIdentifier 解析 "<provider>:<model>" 标识
//
// 只按第一个 ":" 分割，模型名可以继续包含 ":"（如 "openrouter:meta/llama:free"）。
// 缺少 ":" 或模型名为空返回 MalformedIdentifierError；
// 未知 Provider 返回 UnknownProviderError。
func ParseIdentifier(identifier string) (llm.ProviderType, string, error) {
	token, model, ok := strings.Cut(identifier, ":")
	if !ok || model == "" {
		return "", "", llm.NewMalformedIdentifierError(identifier)
	}

	p, err := llm.ParseProviderType(token)
	if err != nil {
		return "", "", err
	}
	return p, model, nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 凭证解析
// ═══════════════════════════════════════════════════════════════════════════

// 凭证来源，仅用于日志
const (
	sourceExplicit = "explicit"
	sourceEnv      = "env"
	sourceDefault  = "default"
)

// Resolve 按凭证映射逐字段解析凭证
//
// 每个字段的优先级：explicit 中的非空值 > 环境变量 > 字段默认值。
// EnvVar 为空的字段不读环境变量。
// 全部缺失返回 MissingCredentialError（消息中包含环境变量名）。
// lookup 为 nil 时使用 [os.LookupEnv]。
func Resolve(provider llm.ProviderType, spec llm.CredentialSpec, explicit map[string]string, lookup LookupFunc) (map[string]string, error) {
	values, _, err := resolve(provider, spec, explicit, lookup)
	return values, err
}

func resolve(provider llm.ProviderType, spec llm.CredentialSpec, explicit map[string]string, lookup LookupFunc) (values, sources map[string]string, err error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	values = make(map[string]string, len(spec))
	sources = make(map[string]string, len(spec))
	for _, f := range spec {
		if v := explicit[f.Name]; v != "" {
			values[f.Name], sources[f.Name] = v, sourceExplicit
			continue
		}
		if v, ok := lookupField(lookup, f); ok {
			values[f.Name], sources[f.Name] = v, sourceEnv
			continue
		}
		if f.Default != "" {
			values[f.Name], sources[f.Name] = f.Default, sourceDefault
			continue
		}
		return nil, nil, llm.NewMissingCredentialError(provider, f.Name, f.EnvVar)
	}
	return values, sources, nil
}

// lookupField 读取字段的环境变量，空值视为缺失
func lookupField(lookup LookupFunc, f llm.CredentialField) (string, bool) {
	if f.EnvVar == "" {
		return "", false
	}
	v, ok := lookup(f.EnvVar)
	return v, ok && v != ""
}
