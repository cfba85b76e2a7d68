package provider

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/core"
)

//go:embed examples/profiles.yaml
var exampleProfilesYAML []byte

// ═══════════════════════════════════════════════════════════════════════════
// Profile 配置
// ═══════════════════════════════════════════════════════════════════════════

// Profile 单个命名配置
type Profile struct {
	// Model 完整标识 "<provider>:<model>"（必需）
	Model string `yaml:"model" json:"model"`

	// APIKey 显式 API Key，为空时从环境变量读取
	APIKey string `yaml:"api_key,omitempty" json:"api_key,omitempty"`

	// BaseURL 显式 Base URL
	BaseURL string `yaml:"base_url,omitempty" json:"base_url,omitempty"`

	// Timeout 传输超时（如 "30s", "2m"），为空表示不设超时
	Timeout string `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Headers 额外请求头
	Headers map[string]string `yaml:"headers,omitempty" json:"headers,omitempty"`

	// CallOptions 默认调用选项
	CallOptions map[string]any `yaml:"call_options,omitempty" json:"call_options,omitempty"`
}

// ProfileSet 配置文件结构
type ProfileSet struct {
	Profiles map[string]Profile `yaml:"profiles" json:"profiles"`
}

// LoadProfiles 从文件加载 Profile（按扩展名选择 YAML 或 JSON）
func LoadProfiles(path string) (*ProfileSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, llm.NewConfigError("read profile file", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	return LoadProfilesFromBytes(data, ext)
}

// LoadProfilesFromBytes 从字节数据加载 Profile
//
// format 支持 "yaml"、"yml"、"json"，可带前导点。
// 加载时校验每个 Profile，错误的模型标识或超时格式立即返回。
func LoadProfilesFromBytes(data []byte, format string) (*ProfileSet, error) {
	set := &ProfileSet{}

	format = strings.TrimPrefix(strings.ToLower(format), ".")

	switch format {
	case "yaml", "yml":
		if err := yaml.Unmarshal(data, set); err != nil {
			return nil, llm.NewConfigError("parse YAML profiles", err)
		}
	case "json":
		if err := json.Unmarshal(data, set); err != nil {
			return nil, llm.NewConfigError("parse JSON profiles", err)
		}
	default:
		return nil, llm.NewConfigError(fmt.Sprintf("unsupported profile format: %s (expected yaml, yml, or json)", format), nil)
	}

	for name, p := range set.Profiles {
		if err := p.Validate(); err != nil {
			return nil, llm.NewConfigError(fmt.Sprintf("profile %q", name), err)
		}
	}
	return set, nil
}

// ExampleProfiles 加载内嵌的示例配置
func ExampleProfiles() (*ProfileSet, error) {
	return LoadProfilesFromBytes(exampleProfilesYAML, "yaml")
}

// Validate 校验模型标识和超时格式
func (p Profile) Validate() error {
	if _, _, err := ParseIdentifier(p.Model); err != nil {
		return err
	}
	if _, err := p.timeout(); err != nil {
		return err
	}
	return nil
}

func (p Profile) timeout() (time.Duration, error) {
	if p.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0, llm.NewConfigError(fmt.Sprintf("invalid timeout %q", p.Timeout), err)
	}
	return d, nil
}

// Options 将 Profile 转换为工厂选项
func (p Profile) Options() ([]Option, error) {
	timeout, err := p.timeout()
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithAPIKey(p.APIKey),
		WithBaseURL(p.BaseURL),
		WithCallOptions(p.CallOptions),
	}

	var clientOpts []core.ClientOption
	if timeout > 0 {
		clientOpts = append(clientOpts, core.WithTimeout(timeout))
	}
	if len(p.Headers) > 0 {
		clientOpts = append(clientOpts, core.WithHeaders(p.Headers))
	}
	if len(clientOpts) > 0 {
		opts = append(opts, WithClientOptions(clientOpts...))
	}
	return opts, nil
}

// Names 返回排序后的 Profile 名称
func (s *ProfileSet) Names() []string {
	names := make([]string, 0, len(s.Profiles))
	for name := range s.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Get 按名称查找 Profile
func (s *ProfileSet) Get(name string) (Profile, error) {
	p, ok := s.Profiles[name]
	if !ok {
		return Profile{}, llm.NewConfigError(fmt.Sprintf("unknown profile %q", name), nil)
	}
	return p, nil
}

// Generator 按 Profile 创建文本生成适配器
//
// extra 在 Profile 选项之后应用，可覆盖其中的设置。
func (s *ProfileSet) Generator(name string, extra ...Option) (llm.TextGenerator, error) {
	p, opts, err := s.options(name, extra)
	if err != nil {
		return nil, err
	}
	return NewGenerator(p.Model, opts...)
}

// Embedder 按 Profile 创建向量化适配器
func (s *ProfileSet) Embedder(name string, extra ...Option) (llm.TextEmbedder, error) {
	p, opts, err := s.options(name, extra)
	if err != nil {
		return nil, err
	}
	return NewEmbedder(p.Model, opts...)
}

func (s *ProfileSet) options(name string, extra []Option) (Profile, []Option, error) {
	p, err := s.Get(name)
	if err != nil {
		return Profile{}, nil, err
	}
	opts, err := p.Options()
	if err != nil {
		return Profile{}, nil, err
	}
	return p, append(opts, extra...), nil
}
