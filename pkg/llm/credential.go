package llm

// 凭证字段名
const (
	FieldAPIKey  = "api_key"
	FieldBaseURL = "base_url"
)

// CredentialField 单个凭证字段到环境变量的映射
//
// EnvVar 为空表示只接受显式参数。Default 非空时，显式参数和环境变量
// 都缺失会回退到该值；为空时缺失即失败。
type CredentialField struct {
	Name    string
	EnvVar  string
	Default string
}

// CredentialSpec 按顺序排列的凭证映射
//
// 每个 Provider 通过函数返回新值，调用方修改返回值不会影响其他调用。
type CredentialSpec []CredentialField

// Field 按名称查找字段
func (s CredentialSpec) Field(name string) (CredentialField, bool) {
	for _, f := range s {
		if f.Name == name {
			return f, true
		}
	}
	return CredentialField{}, false
}

// EnvVars 返回字段名到环境变量名的映射，不读环境变量的字段不在其中
func (s CredentialSpec) EnvVars() map[string]string {
	out := make(map[string]string, len(s))
	for _, f := range s {
		if f.EnvVar != "" {
			out[f.Name] = f.EnvVar
		}
	}
	return out
}

// APIKeyOnly 只需要 API Key 的凭证映射
func APIKeyOnly(envVar string) CredentialSpec {
	return CredentialSpec{{Name: FieldAPIKey, EnvVar: envVar}}
}

// APIKeyWithDefaultBaseURL API Key 读环境变量，Base URL 只接受显式参数
//
// 未显式给出 Base URL 时使用 defaultBaseURL。
func APIKeyWithDefaultBaseURL(apiKeyEnv, defaultBaseURL string) CredentialSpec {
	return CredentialSpec{
		{Name: FieldAPIKey, EnvVar: apiKeyEnv},
		{Name: FieldBaseURL, Default: defaultBaseURL},
	}
}

// APIKeyAndBaseURL 需要 API Key 和 Base URL 的凭证映射
func APIKeyAndBaseURL(apiKeyEnv, baseURLEnv, defaultBaseURL string) CredentialSpec {
	return CredentialSpec{
		{Name: FieldAPIKey, EnvVar: apiKeyEnv},
		{Name: FieldBaseURL, EnvVar: baseURLEnv, Default: defaultBaseURL},
	}
}
