package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/core"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/provider/anthropic"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/provider/gemini"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/provider/openai"
)

// noEnv 模拟没有任何环境变量
func noEnv(string) (string, bool) { return "", false }

// env 基于固定映射的环境变量查找
func env(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

// chatServer 返回 OpenAI 兼容的固定响应，并记录请求
type chatServer struct {
	*httptest.Server
	bodies  []map[string]any
	headers []http.Header
}

func newChatServer(t *testing.T) *chatServer {
	t.Helper()
	s := &chatServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		s.bodies = append(s.bodies, body)
		s.headers = append(s.headers, r.Header.Clone())
		_, _ = w.Write([]byte(`{"choices":[{"index":0,"message":{"role":"assistant","content":"pong"}}]}`))
	}))
	t.Cleanup(s.Close)
	return s
}

// ═══════════════════════════════════════════════════════════════════════════
// 标识解析
// ═══════════════════════════════════════════════════════════════════════════

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantType  llm.ProviderType
		wantModel string
	}{
		{"标准格式", "openai:gpt-4o-mini", llm.ProviderTypeOpenAI, "gpt-4o-mini"},
		{"模型名含冒号", "openrouter:meta-llama/llama-3.1-8b:free", llm.ProviderTypeOpenRouter, "meta-llama/llama-3.1-8b:free"},
		{"模型名含斜杠", "together:meta-llama/Llama-3-8b-chat-hf", llm.ProviderTypeTogether, "meta-llama/Llama-3-8b-chat-hf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, model, err := ParseIdentifier(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, p)
			assert.Equal(t, tt.wantModel, model)
		})
	}

	t.Run("格式错误", func(t *testing.T) {
		for _, input := range []string{"gpt-4", "openai:", "", "openai"} {
			_, _, err := ParseIdentifier(input)
			assert.True(t, llm.IsMalformedIdentifierError(err), "input %q", input)
		}
	})

	t.Run("未知 Provider", func(t *testing.T) {
		for _, input := range []string{"foo:bar", "OpenAI:gpt-4o", ":gpt-4o"} {
			_, _, err := ParseIdentifier(input)
			assert.True(t, llm.IsUnknownProviderError(err), "input %q", input)
		}
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// 凭证解析
// ═══════════════════════════════════════════════════════════════════════════

func TestResolve(t *testing.T) {
	spec := openai.DeepSeek().Credentials()

	t.Run("显式值优先于环境变量", func(t *testing.T) {
		values, err := Resolve(llm.ProviderTypeDeepSeek, spec,
			map[string]string{llm.FieldAPIKey: "explicit"},
			env(map[string]string{"DEEPSEEK_API_KEY": "from-env"}),
		)
		require.NoError(t, err)
		assert.Equal(t, "explicit", values[llm.FieldAPIKey])
	})

	t.Run("逐字段解析", func(t *testing.T) {
		values, sources, err := resolve(llm.ProviderTypeDeepSeek, spec,
			map[string]string{llm.FieldAPIKey: "explicit"},
			env(map[string]string{"DEEPSEEK_BASE_URL": "https://proxy.local/v1"}),
		)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			llm.FieldAPIKey:  "explicit",
			llm.FieldBaseURL: "https://proxy.local/v1",
		}, values)
		assert.Equal(t, map[string]string{
			llm.FieldAPIKey:  sourceExplicit,
			llm.FieldBaseURL: sourceEnv,
		}, sources)
	})

	t.Run("使用默认值", func(t *testing.T) {
		values, sources, err := resolve(llm.ProviderTypeDeepSeek, spec,
			nil, env(map[string]string{"DEEPSEEK_API_KEY": "k"}),
		)
		require.NoError(t, err)
		assert.Equal(t, "https://api.deepseek.com/v1", values[llm.FieldBaseURL])
		assert.Equal(t, sourceDefault, sources[llm.FieldBaseURL])
	})

	t.Run("空字符串视为缺失", func(t *testing.T) {
		_, err := Resolve(llm.ProviderTypeDeepSeek, spec,
			map[string]string{llm.FieldAPIKey: ""},
			env(map[string]string{"DEEPSEEK_API_KEY": ""}),
		)
		mc, ok := errorAs[*llm.MissingCredentialError](err)
		require.True(t, ok)
		assert.Equal(t, "DEEPSEEK_API_KEY", mc.EnvVar)
	})

	t.Run("没有环境变量的字段只取显式值", func(t *testing.T) {
		spec := openai.OpenAI().Credentials()
		lookup := func(key string) (string, bool) {
			assert.NotEmpty(t, key, "不查找空环境变量名")
			return "from-env", true
		}

		values, sources, err := resolve(llm.ProviderTypeOpenAI, spec,
			map[string]string{llm.FieldBaseURL: "http://localhost:11434/v1"}, lookup)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:11434/v1", values[llm.FieldBaseURL])
		assert.Equal(t, sourceExplicit, sources[llm.FieldBaseURL])

		values, sources, err = resolve(llm.ProviderTypeOpenAI, spec, nil, lookup)
		require.NoError(t, err)
		assert.Equal(t, "https://api.openai.com/v1", values[llm.FieldBaseURL])
		assert.Equal(t, sourceDefault, sources[llm.FieldBaseURL])
		assert.Equal(t, "from-env", values[llm.FieldAPIKey])
	})

	t.Run("nil lookup 使用进程环境", func(t *testing.T) {
		t.Setenv("DEEPSEEK_API_KEY", "process-env")
		values, err := Resolve(llm.ProviderTypeDeepSeek, spec, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, "process-env", values[llm.FieldAPIKey])
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// 工厂函数
// ═══════════════════════════════════════════════════════════════════════════

func TestNewGenerator_AllProviders(t *testing.T) {
	for _, p := range GenerationProviders() {
		t.Run(p.String(), func(t *testing.T) {
			gen, err := NewGenerator(p.String()+":some-model", WithAPIKey("k"), WithLookupEnv(noEnv))
			require.NoError(t, err)
			defer func() { _ = gen.Close() }()

			assert.Equal(t, "some-model", gen.Model())
		})
	}
}

func TestNewGenerator_ConcreteTypes(t *testing.T) {
	opts := []Option{WithAPIKey("k"), WithLookupEnv(noEnv)}

	gen, err := NewGenerator("anthropic:claude-3-5-haiku-latest", opts...)
	require.NoError(t, err)
	assert.IsType(t, &anthropic.Client{}, gen)

	gen, err = NewGenerator("google:gemini-2.5-flash", opts...)
	require.NoError(t, err)
	assert.IsType(t, &gemini.Client{}, gen)

	gen, err = NewGenerator("groq:llama-3.1-8b-instant", opts...)
	require.NoError(t, err)
	c, ok := gen.(*openai.Client)
	require.True(t, ok)
	assert.Equal(t, llm.ProviderTypeGroq, c.Provider())
}

func TestNewEmbedder(t *testing.T) {
	t.Run("支持的 Provider", func(t *testing.T) {
		for _, p := range EmbeddingProviders() {
			emb, err := NewEmbedder(p.String()+":embed-model", WithAPIKey("k"), WithLookupEnv(noEnv))
			require.NoError(t, err, p)
			assert.Equal(t, "embed-model", emb.Model())
			_ = emb.Close()
		}
	})

	t.Run("不支持的 Provider", func(t *testing.T) {
		for _, p := range llm.AllProviderTypes() {
			if p == llm.ProviderTypeOpenAI || p == llm.ProviderTypeMistral {
				continue
			}
			_, err := NewEmbedder(p.String()+":x", WithAPIKey("k"), WithLookupEnv(noEnv))
			uc, ok := errorAs[*llm.UnsupportedCapabilityError](err)
			require.True(t, ok, p)
			assert.Equal(t, p, uc.Provider)
			assert.Equal(t, llm.CapabilityEmbedding, uc.Capability)
		}
	})
}

func TestProviderLists(t *testing.T) {
	assert.Equal(t, llm.AllProviderTypes(), GenerationProviders())
	assert.Equal(t, []llm.ProviderType{llm.ProviderTypeOpenAI, llm.ProviderTypeMistral}, EmbeddingProviders())
}

func TestNewGenerator_Errors(t *testing.T) {
	t.Run("未知 Provider", func(t *testing.T) {
		_, err := NewGenerator("foo:bar")
		assert.True(t, llm.IsUnknownProviderError(err))
	})

	t.Run("格式错误", func(t *testing.T) {
		_, err := NewGenerator("gpt-4")
		assert.True(t, llm.IsMalformedIdentifierError(err))

		_, err = NewEmbedder("openai:")
		assert.True(t, llm.IsMalformedIdentifierError(err))
	})

	t.Run("缺少凭证", func(t *testing.T) {
		_, err := NewGenerator("openai:gpt-4o", WithLookupEnv(noEnv))
		require.True(t, llm.IsMissingCredentialError(err))
		assert.Contains(t, err.Error(), "OPENAI_API_KEY")
	})

	t.Run("进程环境变量为空", func(t *testing.T) {
		t.Setenv("ANTHROPIC_API_KEY", "")
		_, err := NewGenerator("anthropic:claude")
		assert.True(t, llm.IsMissingCredentialError(err))
		assert.Contains(t, err.Error(), "ANTHROPIC_API_KEY")
	})

	t.Run("MustGenerator panic", func(t *testing.T) {
		assert.Panics(t, func() { MustGenerator("nope") })
		assert.Panics(t, func() { MustEmbedder("groq:x", WithAPIKey("k")) })
		assert.NotPanics(t, func() { _ = MustEmbedder("openai:x", WithAPIKey("k")).Close() })
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// 端到端
// ═══════════════════════════════════════════════════════════════════════════

func TestNewGenerator_CallOptions(t *testing.T) {
	server := newChatServer(t)

	gen, err := NewGenerator("openai:gpt-4o-mini",
		WithAPIKey("sk-test"),
		WithBaseURL(server.URL),
		WithCallOptions(llm.CallOptions{"max_tokens": 100}),
		WithCallOptions(llm.CallOptions{"temperature": 0.2}),
		WithClientOptions(core.WithHeader("X-Team", "search")),
	)
	require.NoError(t, err)
	defer func() { _ = gen.Close() }()

	text, err := gen.Response(context.Background(), llm.MustConversation(llm.UserMessage("ping")), llm.CallOptions{"max_tokens": 50})
	require.NoError(t, err)
	assert.Equal(t, "pong", text)

	body := server.bodies[0]
	assert.Equal(t, float64(50), body["max_tokens"])
	assert.Equal(t, 0.2, body["temperature"])
	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.Equal(t, "Bearer sk-test", server.headers[0].Get("Authorization"))
	assert.Equal(t, "search", server.headers[0].Get("X-Team"))
}

func TestNewGenerator_ExplicitBaseURL(t *testing.T) {
	tests := []struct {
		identifier string
		path       string
		reply      string
		header     string
		wantHeader string
	}{
		{"openai:gpt-4o-mini", "/v1/chat/completions",
			`{"choices":[{"message":{"role":"assistant","content":"pong"}}]}`,
			"Authorization", "Bearer k"},
		{"groq:llama-3.1-8b-instant", "/v1/chat/completions",
			`{"choices":[{"message":{"role":"assistant","content":"pong"}}]}`,
			"Authorization", "Bearer k"},
		{"anthropic:claude-3-5-haiku-latest", "/v1/messages",
			`{"content":[{"type":"text","text":"pong"}]}`,
			"X-Api-Key", "k"},
		{"google:gemini-2.5-flash", "/v1/models/gemini-2.5-flash:generateContent",
			`{"candidates":[{"content":{"role":"model","parts":[{"text":"pong"}]}}]}`,
			"x-goog-api-key", "k"},
	}
	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			var paths []string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				paths = append(paths, r.URL.Path)
				assert.Equal(t, tt.wantHeader, r.Header.Get(tt.header))
				_, _ = w.Write([]byte(tt.reply))
			}))
			defer server.Close()

			gen, err := NewGenerator(tt.identifier,
				WithAPIKey("k"),
				WithBaseURL(server.URL+"/v1"),
				WithLookupEnv(noEnv),
			)
			require.NoError(t, err)
			defer func() { _ = gen.Close() }()

			text, err := gen.Response(context.Background(), llm.MustConversation(llm.UserMessage("ping")), nil)
			require.NoError(t, err)
			assert.Equal(t, "pong", text)
			assert.Equal(t, []string{tt.path}, paths)
		})
	}
}

func TestNewEmbedder_ExplicitBaseURL(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"index":0,"embedding":[0.1,0.2]}]}`))
	}))
	defer server.Close()

	emb, err := NewEmbedder("mistral:mistral-embed", WithAPIKey("k"), WithBaseURL(server.URL), WithLookupEnv(noEnv))
	require.NoError(t, err)

	vector, err := emb.EmbedText(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.1, 0.2}, vector)
	assert.Equal(t, []string{"/embeddings"}, paths)
}

func TestNewGenerator_EnvBaseURL(t *testing.T) {
	server := newChatServer(t)

	gen, err := NewGenerator("deepseek:deepseek-chat",
		WithAPIKey("explicit"),
		WithLookupEnv(env(map[string]string{
			"DEEPSEEK_API_KEY":  "from-env",
			"DEEPSEEK_BASE_URL": server.URL,
		})),
	)
	require.NoError(t, err)

	_, err = gen.Response(context.Background(), llm.MustConversation(llm.UserMessage("ping")), nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer explicit", server.headers[0].Get("Authorization"))
}

func TestNewGenerator_LogsWithoutSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := NewGenerator("openai:gpt-4o", WithAPIKey("sk-secret-value"), WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "llm adapter resolved")
	assert.Contains(t, out, "provider=openai")
	assert.NotContains(t, out, "sk-secret-value")
}

func errorAs[T error](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}
