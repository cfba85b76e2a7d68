package core

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
)

// ═══════════════════════════════════════════════════════════════════════════
// 构造测试
// ═══════════════════════════════════════════════════════════════════════════

func TestNewClient(t *testing.T) {
	c := NewClient(Config{
		Provider: "openai",
		BaseURL:  "https://api.example.com/v1",
		Headers:  map[string]string{"Authorization": "Bearer sk", "X-Team": "a"},
	}, WithHeader("X-Team", "b"), WithHeaders(map[string]string{"X-Extra": "1"}))

	assert.Equal(t, "openai", c.Provider())
	assert.Equal(t, "https://api.example.com/v1", c.BaseURL())
	assert.Equal(t, "application/json", c.Header("Content-Type"))
	assert.Equal(t, "Bearer sk", c.Header("Authorization"))
	assert.Equal(t, "b", c.Header("X-Team"), "选项中的请求头覆盖配置")
	assert.Equal(t, "1", c.Header("X-Extra"))
	assert.NotNil(t, c.Logger())
	assert.NoError(t, c.Close())
}

// ═══════════════════════════════════════════════════════════════════════════
// PostJSON 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestClient_PostJSON(t *testing.T) {
	t.Run("发送请求体和请求头", func(t *testing.T) {
		var gotBody map[string]any
		var gotHeader http.Header
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/echo", r.URL.Path)
			gotHeader = r.Header.Clone()
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer server.Close()

		c := NewClient(Config{
			Provider: "test",
			BaseURL:  server.URL + "/v1",
			Headers:  map[string]string{"Authorization": "Bearer sk"},
		})

		var out struct {
			OK bool `json:"ok"`
		}
		err := c.PostJSON(context.Background(), "/echo", map[string]any{"a": 1}, &out)
		require.NoError(t, err)

		assert.True(t, out.OK)
		assert.Equal(t, map[string]any{"a": float64(1)}, gotBody)
		assert.Equal(t, "Bearer sk", gotHeader.Get("Authorization"))
		assert.Equal(t, "application/json", gotHeader.Get("Content-Type"))
		_, err = uuid.Parse(gotHeader.Get(HeaderRequestID))
		assert.NoError(t, err, "请求 ID 应为 UUID")
	})

	t.Run("关闭请求 ID", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get(HeaderRequestID))
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(Config{BaseURL: server.URL}, WithRequestIDHeader(false))
		var out map[string]any
		require.NoError(t, c.PostJSON(context.Background(), "/", map[string]any{}, &out))
	})

	t.Run("错误状态返回 APIError", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"slow down","code":"rate_limit_exceeded"}}`))
		}))
		defer server.Close()

		c := NewClient(Config{Provider: "groq", BaseURL: server.URL})
		var out map[string]any
		err := c.PostJSON(context.Background(), "/", map[string]any{}, &out)

		apiErr, ok := llm.GetAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
		assert.Equal(t, "groq", apiErr.Provider)
		assert.Equal(t, "rate_limit_exceeded", apiErr.ErrorCode)
		assert.Contains(t, apiErr.Response, "slow down")
		assert.NotEmpty(t, apiErr.RequestID, "回退到客户端生成的请求 ID")
		assert.True(t, apiErr.IsRetryable())
	})

	t.Run("优先使用服务端请求 ID", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Request-ID", "srv-42")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`bad`))
		}))
		defer server.Close()

		c := NewClient(Config{BaseURL: server.URL})
		err := c.PostJSON(context.Background(), "/", map[string]any{}, &map[string]any{})

		apiErr, ok := llm.GetAPIError(err)
		require.True(t, ok)
		assert.Equal(t, "srv-42", apiErr.RequestID)
		assert.Empty(t, apiErr.ErrorCode)
	})

	t.Run("响应体不是 JSON", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>`))
		}))
		defer server.Close()

		c := NewClient(Config{BaseURL: server.URL})
		err := c.PostJSON(context.Background(), "/", map[string]any{}, &map[string]any{})
		assert.True(t, llm.IsResponseError(err))
	})

	t.Run("请求体无法序列化", func(t *testing.T) {
		c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
		err := c.PostJSON(context.Background(), "/", map[string]any{"ch": make(chan int)}, &map[string]any{})
		assert.True(t, llm.IsRequestError(err))
	})

	t.Run("网络错误", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := server.URL
		server.Close()

		c := NewClient(Config{BaseURL: url})
		err := c.PostJSON(context.Background(), "/", map[string]any{}, &map[string]any{})
		assert.True(t, llm.IsHTTPError(err))
	})

	t.Run("超时", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		}))
		defer server.Close()

		c := NewClient(Config{BaseURL: server.URL}, WithTimeout(50*time.Millisecond))
		err := c.PostJSON(context.Background(), "/", map[string]any{}, &map[string]any{})
		assert.True(t, llm.IsHTTPError(err))
	})

	t.Run("上下文取消", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := NewClient(Config{BaseURL: server.URL})
		err := c.PostJSON(ctx, "/", map[string]any{}, &map[string]any{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})

	t.Run("自定义 http.Client", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"v":1}`))
		}))
		defer server.Close()

		c := NewClient(Config{BaseURL: server.URL}, WithHTTPClient(server.Client()))
		var out map[string]any
		require.NoError(t, c.PostJSON(context.Background(), "/", map[string]any{}, &out))
		assert.Equal(t, float64(1), out["v"])
	})
}

// ═══════════════════════════════════════════════════════════════════════════
// PostStream 测试
// ═══════════════════════════════════════════════════════════════════════════

func TestClient_PostStream(t *testing.T) {
	t.Run("返回原始响应体", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "text/event-stream", r.Header.Get("Accept"))
			w.Header().Set("Content-Type", "text/event-stream")
			_, _ = w.Write([]byte("data: hello\n\n"))
		}))
		defer server.Close()

		c := NewClient(Config{BaseURL: server.URL})
		body, err := c.PostStream(context.Background(), "/", map[string]any{"stream": true})
		require.NoError(t, err)
		defer func() { _ = body.Close() }()

		data, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, "data: hello\n\n", string(data))
	})

	t.Run("错误状态读取响应体", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
		}))
		defer server.Close()

		c := NewClient(Config{Provider: "anthropic", BaseURL: server.URL})
		body, err := c.PostStream(context.Background(), "/", map[string]any{})
		assert.Nil(t, body)

		apiErr, ok := llm.GetAPIError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, "authentication_error", apiErr.ErrorCode)
		assert.Contains(t, apiErr.Response, "invalid x-api-key")
	})
}
