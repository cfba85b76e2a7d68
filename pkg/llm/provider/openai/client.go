package openai

import (
	"context"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/core"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/protocol/openai"
)

// ═══════════════════════════════════════════════════════════════════════════
// 配置和客户端
// ═══════════════════════════════════════════════════════════════════════════

const chatCompletionsPath = "/chat/completions"

// Client OpenAI 兼容的文本生成客户端
//
// 实现 [llm.TextGenerator] 接口。同一实现服务所有 OpenAI 兼容变体，
// 变体只影响凭证和默认地址。
type Client struct {
	variant  Variant
	model    string
	defaults llm.CallOptions
	http     *core.Client
	handler  *openai.EventHandler
}

// New 创建 OpenAI 兼容客户端
//
// cfg 必须包含 api_key。opts 原样转发给传输客户端。
func New(v Variant, cfg llm.ResolvedConfig, opts ...core.ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		variant:  v,
		model:    cfg.Model,
		defaults: cfg.CallOptions.Clone(),
		http:     newTransport(v, cfg, opts),
		handler:  openai.NewEventHandler(),
	}, nil
}

func newTransport(v Variant, cfg llm.ResolvedConfig, opts []core.ClientOption) *core.Client {
	return core.NewClient(core.Config{
		Provider: v.Type.String(),
		BaseURL:  v.baseURL(cfg),
		Headers: map[string]string{
			"Authorization": "Bearer " + cfg.APIKey(),
		},
	}, opts...)
}

// Model 返回模型名称
func (c *Client) Model() string {
	return c.model
}

// Provider 返回 Provider 类型
func (c *Client) Provider() llm.ProviderType {
	return c.variant.Type
}

// CallOptions 计算本次调用的合并选项（默认值被 overrides 覆盖，并注入 model）
//
// 推理模型只调整构造时的默认选项（见 [AdaptOptions]），overrides 原样转发。
func (c *Client) CallOptions(overrides llm.CallOptions) llm.CallOptions {
	return AdaptOptions(c.model, c.defaults).Merge(overrides).WithModel(c.model)
}

// ═══════════════════════════════════════════════════════════════════════════
// TextGenerator 接口实现
// ═══════════════════════════════════════════════════════════════════════════

// Response 同步完成
func (c *Client) Response(ctx context.Context, conv llm.Conversation, overrides llm.CallOptions) (string, error) {
	var resp openai.ChatCompletion
	if err := c.http.PostJSON(ctx, chatCompletionsPath, c.buildRequest(conv, overrides, false), &resp); err != nil {
		return "", err
	}
	return openai.DecodeResponse(&resp)
}

// StreamingResponse 流式完成
func (c *Client) StreamingResponse(ctx context.Context, conv llm.Conversation, overrides llm.CallOptions) (*llm.Stream, error) {
	body, err := c.http.PostStream(ctx, chatCompletionsPath, c.buildRequest(conv, overrides, true))
	if err != nil {
		return nil, err
	}
	return core.NewEventStream(body, c.handler), nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	return c.http.Close()
}

// buildRequest 构建请求体：合并选项 + messages (+ stream)
func (c *Client) buildRequest(conv llm.Conversation, overrides llm.CallOptions, stream bool) map[string]any {
	fields := map[string]any{
		"messages": openai.ConvertMessages(conv),
	}
	if stream {
		fields["stream"] = true
	}
	return core.BuildBody(c.CallOptions(overrides), fields)
}

// 确保 Client 实现了 TextGenerator 接口
var _ llm.TextGenerator = (*Client)(nil)
