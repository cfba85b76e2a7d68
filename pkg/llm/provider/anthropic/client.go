package anthropic

import (
	"context"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/core"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/protocol/anthropic"
)

// ═══════════════════════════════════════════════════════════════════════════
// 配置和客户端
// ═══════════════════════════════════════════════════════════════════════════

const (
	// APIKeyEnv API Key 环境变量
	APIKeyEnv = "ANTHROPIC_API_KEY"

	// Version anthropic-version 请求头
	Version = "2023-06-01"

	// DefaultMaxTokens 调用选项未给出 max_tokens 时使用（API 要求必填）
	DefaultMaxTokens = 4096

	messagesPath = "/messages"
)

// Credentials 返回 Anthropic 凭证映射
func Credentials() llm.CredentialSpec {
	return llm.APIKeyWithDefaultBaseURL(APIKeyEnv, llm.ProviderTypeAnthropic.DefaultBaseURL())
}

// Client Anthropic Messages API 客户端
//
// 实现 [llm.TextGenerator] 接口。
type Client struct {
	model    string
	defaults llm.CallOptions
	http     *core.Client
	handler  *anthropic.EventHandler
}

// New 创建 Anthropic 客户端
//
// cfg 必须包含 api_key；base_url 为空时使用官方地址。
func New(cfg llm.ResolvedConfig, opts ...core.ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL()
	if baseURL == "" {
		baseURL = llm.ProviderTypeAnthropic.DefaultBaseURL()
	}

	http := core.NewClient(core.Config{
		Provider: llm.ProviderTypeAnthropic.String(),
		BaseURL:  baseURL,
		Headers: map[string]string{
			"X-Api-Key":         cfg.APIKey(),
			"anthropic-version": Version,
		},
	}, opts...)

	return &Client{
		model:    cfg.Model,
		defaults: cfg.CallOptions.Clone(),
		http:     http,
		handler:  anthropic.NewEventHandler(),
	}, nil
}

// Model 返回模型名称
func (c *Client) Model() string {
	return c.model
}

// ═══════════════════════════════════════════════════════════════════════════
// TextGenerator 接口实现
// ═══════════════════════════════════════════════════════════════════════════

// Response 同步完成
func (c *Client) Response(ctx context.Context, conv llm.Conversation, overrides llm.CallOptions) (string, error) {
	var resp anthropic.MessageResponse
	if err := c.http.PostJSON(ctx, messagesPath, c.buildRequest(conv, overrides, false), &resp); err != nil {
		return "", err
	}
	return anthropic.DecodeResponse(&resp), nil
}

// StreamingResponse 流式完成
func (c *Client) StreamingResponse(ctx context.Context, conv llm.Conversation, overrides llm.CallOptions) (*llm.Stream, error) {
	body, err := c.http.PostStream(ctx, messagesPath, c.buildRequest(conv, overrides, true))
	if err != nil {
		return nil, err
	}
	return core.NewEventStream(body, c.handler), nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	return c.http.Close()
}

// buildRequest 构建 Messages API 请求体
//
// system 消息提升到顶层 system 字段（只取最后一条），其余消息进入 messages。
func (c *Client) buildRequest(conv llm.Conversation, overrides llm.CallOptions, stream bool) map[string]any {
	options := c.defaults.Merge(overrides).WithModel(c.model)
	if !options.Has("max_tokens") {
		options["max_tokens"] = DefaultMaxTokens
	}

	fields := map[string]any{
		"messages": anthropic.ConvertMessages(conv),
	}
	if system, ok := anthropic.ExtractSystem(conv); ok {
		fields["system"] = system
	}
	if stream {
		fields["stream"] = true
	}
	return core.BuildBody(options, fields)
}

// 确保 Client 实现了 TextGenerator 接口
var _ llm.TextGenerator = (*Client)(nil)
