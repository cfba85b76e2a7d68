package mock

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
)

// DefaultResponse 未配置响应时返回的文本
const DefaultResponse = "This is a mock response."

// CallRecord 记录一次调用的详情
type CallRecord struct {
	Conversation llm.Conversation
	Options      llm.CallOptions // 合并后的调用选项（含 model）
	Stream       bool
	Time         time.Time
}

// ResponseFunc 动态响应函数类型
//
// 接收对话和调用次数（从 1 开始），返回响应文本。
type ResponseFunc func(conv llm.Conversation, callCount int) string

// Generator 内存中的 [llm.TextGenerator] 实现
//
// 不访问网络，适合调用方的单元测试。
type Generator struct {
	mu        sync.Mutex
	model     string
	defaults  llm.CallOptions
	response  string       // 默认响应
	responses []string     // 响应队列（依次返回，用完后循环）
	respIdx   int          // 当前响应索引
	respFunc  ResponseFunc // 动态响应函数
	delay     time.Duration
	err       error
	calls     []CallRecord
	closed    bool
}

// Option 配置选项函数
type Option func(*Generator)

// New 创建 Mock Generator
//
//	gen := mock.New(mock.WithResponse("hi"), mock.WithDelay(10*time.Millisecond))
func New(opts ...Option) *Generator {
	g := &Generator{
		model:    "mock-model",
		defaults: llm.CallOptions{},
		response: DefaultResponse,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// WithModel 设置模型名称
func WithModel(model string) Option {
	return func(g *Generator) {
		g.model = model
	}
}

// WithCallOptions 设置默认调用选项
func WithCallOptions(opts llm.CallOptions) Option {
	return func(g *Generator) {
		g.defaults = opts.Clone()
	}
}

// WithResponse 设置预设响应文本
func WithResponse(text string) Option {
	return func(g *Generator) {
		g.response = text
	}
}

// WithResponses 设置响应队列
func WithResponses(texts ...string) Option {
	return func(g *Generator) {
		g.responses = texts
	}
}

// WithResponseFunc 设置动态响应函数（优先于响应队列）
func WithResponseFunc(fn ResponseFunc) Option {
	return func(g *Generator) {
		g.respFunc = fn
	}
}

// WithDelay 设置响应延迟（流式为首包延迟）
func WithDelay(d time.Duration) Option {
	return func(g *Generator) {
		g.delay = d
	}
}

// WithError 设置返回错误
func WithError(err error) Option {
	return func(g *Generator) {
		g.err = err
	}
}

// Model 返回模型名称
func (g *Generator) Model() string {
	return g.model
}

// Response 返回预设响应
func (g *Generator) Response(ctx context.Context, conv llm.Conversation, overrides llm.CallOptions) (string, error) {
	response, err := g.next(conv, overrides, false)
	if err != nil {
		return "", err
	}
	if err := g.wait(ctx); err != nil {
		return "", err
	}
	return response, nil
}

// StreamingResponse 按单词切分预设响应，逐段返回
//
// 各片段拼接后与 Response 的结果一致。
func (g *Generator) StreamingResponse(ctx context.Context, conv llm.Conversation, overrides llm.CallOptions) (*llm.Stream, error) {
	response, err := g.next(conv, overrides, true)
	if err != nil {
		return nil, err
	}

	fragments := strings.SplitAfter(response, " ")
	first := true
	recv := func() (string, error) {
		if first {
			first = false
			if err := g.wait(ctx); err != nil {
				return "", err
			}
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if len(fragments) == 0 {
			return "", io.EOF
		}
		fragment := fragments[0]
		fragments = fragments[1:]
		return fragment, nil
	}
	return llm.NewStream(recv, nil), nil
}

// Close 标记为已关闭（调用记录保留）
func (g *Generator) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return nil
}

// next 记录调用并选出响应
func (g *Generator) next(conv llm.Conversation, overrides llm.CallOptions, stream bool) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, CallRecord{
		Conversation: conv,
		Options:      g.defaults.Merge(overrides).WithModel(g.model),
		Stream:       stream,
		Time:         time.Now(),
	})

	if g.err != nil {
		return "", g.err
	}

	switch {
	case g.respFunc != nil:
		return g.respFunc(conv, len(g.calls)), nil
	case len(g.responses) > 0:
		resp := g.responses[g.respIdx%len(g.responses)]
		g.respIdx++
		return resp, nil
	default:
		return g.response, nil
	}
}

func (g *Generator) wait(ctx context.Context) error {
	if g.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(g.delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// 调用记录
// ═══════════════════════════════════════════════════════════════════════════

// Calls 返回全部调用记录的副本
func (g *Generator) Calls() []CallRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]CallRecord, len(g.calls))
	copy(out, g.calls)
	return out
}

// CallCount 返回调用次数
func (g *Generator) CallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

// LastCall 返回最近一次调用，无调用时返回 false
func (g *Generator) LastCall() (CallRecord, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.calls) == 0 {
		return CallRecord{}, false
	}
	return g.calls[len(g.calls)-1], true
}

// IsClosed 是否已调用 Close
func (g *Generator) IsClosed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

// Reset 清空调用记录和响应队列位置
func (g *Generator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = nil
	g.respIdx = 0
}

// 确保 Generator 实现了 TextGenerator 接口
var _ llm.TextGenerator = (*Generator)(nil)
