package provider

import (
	"io"
	"log/slog"
	"maps"
	"os"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/core"
)

// LookupFunc 环境变量查找函数，签名与 [os.LookupEnv] 一致
type LookupFunc func(key string) (string, bool)

// Option 工厂选项
type Option func(*options)

type options struct {
	credentials   map[string]string
	callOptions   llm.CallOptions
	clientOptions []core.ClientOption
	lookup        LookupFunc
	logger        *slog.Logger
}

func newOptions(opts []Option) *options {
	o := &options{
		credentials: map[string]string{},
		callOptions: llm.CallOptions{},
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.lookup == nil {
		o.lookup = os.LookupEnv
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// WithAPIKey 显式指定 api_key（空字符串视为未指定）
func WithAPIKey(key string) Option {
	return WithCredential(llm.FieldAPIKey, key)
}

// WithBaseURL 显式指定 base_url（空字符串视为未指定）
func WithBaseURL(url string) Option {
	return WithCredential(llm.FieldBaseURL, url)
}

// WithCredential 显式指定任意凭证字段
//
// Provider 凭证映射中不存在的字段会被忽略。
func WithCredential(field, value string) Option {
	return func(o *options) {
		o.credentials[field] = value
	}
}

// WithCallOptions 设置默认调用选项，多次调用按顺序合并
func WithCallOptions(opts llm.CallOptions) Option {
	return func(o *options) {
		maps.Copy(o.callOptions, opts)
	}
}

// WithClientOptions 追加传输客户端选项（超时、请求头、自定义 http.Client 等）
func WithClientOptions(opts ...core.ClientOption) Option {
	return func(o *options) {
		o.clientOptions = append(o.clientOptions, opts...)
	}
}

// WithLookupEnv 替换环境变量查找（测试或自定义密钥源）
func WithLookupEnv(lookup LookupFunc) Option {
	return func(o *options) {
		o.lookup = lookup
	}
}

// WithLogger 设置日志记录器，同时传给传输客户端
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// transportOptions 日志选项在前，调用方的客户端选项可以覆盖
func (o *options) transportOptions() []core.ClientOption {
	out := make([]core.ClientOption, 0, len(o.clientOptions)+1)
	out = append(out, core.WithLogger(o.logger))
	return append(out, o.clientOptions...)
}
