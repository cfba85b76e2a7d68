package gemini

import (
	"context"
	"net/url"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/core"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/protocol/gemini"
)

// ═══════════════════════════════════════════════════════════════════════════
// 常量定义
// ═══════════════════════════════════════════════════════════════════════════

const (
	// APIKeyEnv API Key 环境变量
	APIKeyEnv = "GOOGLE_API_KEY"

	// HeaderAPIKey Gemini API Key 请求头
	HeaderAPIKey = "x-goog-api-key"
)

// 模型常量
const (
	ModelGemini25Pro       = "gemini-2.5-pro"
	ModelGemini25Flash     = "gemini-2.5-flash"
	ModelGemini25FlashLite = "gemini-2.5-flash-lite"
	ModelGemini20Flash     = "gemini-2.0-flash"
)

// Credentials 返回 Google 凭证映射
func Credentials() llm.CredentialSpec {
	return llm.APIKeyWithDefaultBaseURL(APIKeyEnv, llm.ProviderTypeGoogle.DefaultBaseURL())
}

// ═══════════════════════════════════════════════════════════════════════════
// 客户端
// ═══════════════════════════════════════════════════════════════════════════

// Client Gemini generateContent 客户端
//
// 实现 [llm.TextGenerator] 接口。模型绑定在请求路径中，
// 调用选项整体放入 generationConfig。
type Client struct {
	model    string
	defaults llm.CallOptions
	http     *core.Client
	handler  *gemini.EventHandler
}

// New 创建 Gemini 客户端
func New(cfg llm.ResolvedConfig, opts ...core.ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseURL := cfg.BaseURL()
	if baseURL == "" {
		baseURL = llm.ProviderTypeGoogle.DefaultBaseURL()
	}

	http := core.NewClient(core.Config{
		Provider: llm.ProviderTypeGoogle.String(),
		BaseURL:  baseURL,
		Headers: map[string]string{
			HeaderAPIKey: cfg.APIKey(),
		},
	}, opts...)

	return &Client{
		model:    cfg.Model,
		defaults: cfg.CallOptions.Clone(),
		http:     http,
		handler:  gemini.NewEventHandler(),
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
	var resp gemini.GenerateContentResponse
	if err := c.http.PostJSON(ctx, c.endpoint(false), c.buildRequest(conv, overrides), &resp); err != nil {
		return "", err
	}
	return gemini.DecodeResponse(&resp)
}

// StreamingResponse 流式完成
func (c *Client) StreamingResponse(ctx context.Context, conv llm.Conversation, overrides llm.CallOptions) (*llm.Stream, error) {
	body, err := c.http.PostStream(ctx, c.endpoint(true), c.buildRequest(conv, overrides))
	if err != nil {
		return nil, err
	}
	return core.NewEventStream(body, c.handler), nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	return c.http.Close()
}

// endpoint 模型名按路径段转义
func (c *Client) endpoint(stream bool) string {
	model := url.PathEscape(c.model)
	if stream {
		return "/models/" + model + ":streamGenerateContent?alt=sse"
	}
	return "/models/" + model + ":generateContent"
}

// buildRequest 构建 generateContent 请求体
//
//	{"contents": [...], "generationConfig": {...}}
//
// model 已在路径中，不进入 generationConfig。
func (c *Client) buildRequest(conv llm.Conversation, overrides llm.CallOptions) map[string]any {
	body := map[string]any{
		"contents": gemini.ConvertMessages(conv),
	}
	if config := c.defaults.Merge(overrides).Without(llm.OptionModel); len(config) > 0 {
		body["generationConfig"] = config
	}
	return body
}

// 确保 Client 实现了 TextGenerator 接口
var _ llm.TextGenerator = (*Client)(nil)
