package core

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
)

// ═══════════════════════════════════════════════════════════════════════════
// 客户端选项
// ═══════════════════════════════════════════════════════════════════════════

// HeaderRequestID 客户端生成的请求 ID 头
const HeaderRequestID = "X-Request-ID"

// ClientOption 传输客户端构造选项
//
// 工厂收到的额外客户端参数原样转发给 NewClient。
type ClientOption func(*clientOptions)

type clientOptions struct {
	timeout    time.Duration
	headers    map[string]string
	httpClient *http.Client
	logger     *slog.Logger
	requestID  bool
}

// WithTimeout 设置请求超时（默认不设超时）
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithHeader 追加单个请求头
func WithHeader(key, value string) ClientOption {
	return func(o *clientOptions) {
		o.headers[key] = value
	}
}

// WithHeaders 追加多个请求头
func WithHeaders(headers map[string]string) ClientOption {
	return func(o *clientOptions) {
		maps.Copy(o.headers, headers)
	}
}

// WithHTTPClient 使用自定义 *http.Client（代理、TLS 等）
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(o *clientOptions) {
		o.httpClient = hc
	}
}

// WithLogger 设置日志记录器（默认丢弃）
func WithLogger(logger *slog.Logger) ClientOption {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// WithRequestIDHeader 是否为每个请求附加 X-Request-ID（默认开启）
func WithRequestIDHeader(enabled bool) ClientOption {
	return func(o *clientOptions) {
		o.requestID = enabled
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Client 传输客户端
// ═══════════════════════════════════════════════════════════════════════════

// Config 传输配置（由具体 Provider 填充）
type Config struct {
	// Provider 名称，用于错误和日志
	Provider string

	// BaseURL API 基础地址
	BaseURL string

	// Headers 认证头和协议固定头
	Headers map[string]string
}

// Client 基于 resty 的 JSON/SSE 传输客户端
//
// 每个适配器独占一个 Client。构造后不再修改，可并发使用。
type Client struct {
	provider  string
	resty     *resty.Client
	logger    *slog.Logger
	requestID bool
}

// NewClient 创建传输客户端
//
// cfg.Headers 先于 opts 中的头设置，opts 可以覆盖它们。
func NewClient(cfg Config, opts ...ClientOption) *Client {
	o := &clientOptions{
		headers:   map[string]string{},
		requestID: true,
	}
	for _, opt := range opts {
		opt(o)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var r *resty.Client
	if o.httpClient != nil {
		r = resty.NewWithClient(o.httpClient)
	} else {
		r = resty.New()
	}
	r.SetBaseURL(cfg.BaseURL)
	if o.timeout > 0 {
		r.SetTimeout(o.timeout)
	}

	headers := map[string]string{"Content-Type": "application/json"}
	maps.Copy(headers, cfg.Headers)
	maps.Copy(headers, o.headers)
	for k, v := range headers {
		r.SetHeader(k, v)
	}

	return &Client{
		provider:  cfg.Provider,
		resty:     r,
		logger:    logger.With("provider", cfg.Provider),
		requestID: o.requestID,
	}
}

// Provider 返回 Provider 名称
func (c *Client) Provider() string {
	return c.provider
}

// BaseURL 返回基础地址
func (c *Client) BaseURL() string {
	return c.resty.BaseURL
}

// Header 返回已设置的请求头
func (c *Client) Header(key string) string {
	return c.resty.Header.Get(key)
}

// Logger 返回带 provider 字段的日志记录器
func (c *Client) Logger() *slog.Logger {
	return c.logger
}

// Close 关闭空闲连接
func (c *Client) Close() error {
	c.resty.GetClient().CloseIdleConnections()
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 请求
// ═══════════════════════════════════════════════════════════════════════════

// PostJSON 发送 JSON 请求并把响应体解码到 out
//
// 错误类型：
//   - RequestError: 请求体序列化失败
//   - HTTPError: 网络层失败
//   - APIError: 状态码 >= 400
//   - ResponseError: 响应体不是合法 JSON
func (c *Client) PostJSON(ctx context.Context, path string, body any, out any) error {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return llm.NewRequestError("marshal", err)
	}

	req, reqID := c.newRequest(ctx)
	c.logger.DebugContext(ctx, "llm request", "path", path, "stream", false, "request_id", reqID)

	resp, err := req.SetBody(bodyBytes).Post(path)
	if err != nil {
		return llm.NewHTTPError("request failed", err)
	}

	if resp.StatusCode() >= 400 {
		return c.apiError(ctx, resp.StatusCode(), resp.String(), resp.Header(), reqID)
	}

	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return llm.NewResponseError("body", err)
	}
	return nil
}

// PostStream 发送流式请求，返回未解析的响应体
//
// 调用方负责关闭返回的 body。
func (c *Client) PostStream(ctx context.Context, path string, body any) (io.ReadCloser, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, llm.NewRequestError("marshal", err)
	}

	req, reqID := c.newRequest(ctx)
	c.logger.DebugContext(ctx, "llm request", "path", path, "stream", true, "request_id", reqID)

	resp, err := req.
		SetBody(bodyBytes).
		SetHeader("Accept", "text/event-stream").
		SetDoNotParseResponse(true).
		Post(path)
	if err != nil {
		return nil, llm.NewHTTPError("request failed", err)
	}

	raw := resp.RawBody()
	if resp.StatusCode() >= 400 {
		var text string
		if raw != nil {
			data, _ := io.ReadAll(io.LimitReader(raw, 64<<10))
			_ = raw.Close()
			text = string(data)
		}
		return nil, c.apiError(ctx, resp.StatusCode(), text, resp.Header(), reqID)
	}
	if raw == nil {
		return nil, llm.NewResponseError("body", io.ErrUnexpectedEOF)
	}

	return raw, nil
}

func (c *Client) newRequest(ctx context.Context) (*resty.Request, string) {
	req := c.resty.R().SetContext(ctx)
	var reqID string
	if c.requestID {
		reqID = uuid.NewString()
		req.SetHeader(HeaderRequestID, reqID)
	}
	return req, reqID
}

func (c *Client) apiError(ctx context.Context, status int, body string, header http.Header, reqID string) error {
	apiErr := llm.NewAPIError(status, body).WithProvider(c.provider)

	// 优先使用服务端返回的请求 ID
	if serverID := header.Get("X-Request-ID"); serverID != "" {
		apiErr = apiErr.WithRequestID(serverID)
	} else if reqID != "" {
		apiErr = apiErr.WithRequestID(reqID)
	}

	if code := extractErrorCode(body); code != "" {
		apiErr = apiErr.WithErrorCode(code)
	}

	c.logger.DebugContext(ctx, "llm api error", "status", status, "request_id", apiErr.RequestID)
	return apiErr
}

// extractErrorCode 从常见错误体中提取错误代码
//
//	{"error": {"code": "...", "type": "..."}}   OpenAI 兼容
//	{"type": "error", "error": {"type": "..."}} Anthropic
//	{"error": {"status": "..."}}                Gemini
func extractErrorCode(body string) string {
	var payload map[string]any
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return ""
	}
	errObj, ok := payload["error"].(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range []string{"code", "type", "status"} {
		if s := GetString(errObj[key]); s != "" {
			return s
		}
	}
	return ""
}
