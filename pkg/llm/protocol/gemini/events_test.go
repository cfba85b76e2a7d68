package gemini

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm/core"
)

func TestEventHandler_HandleEvent(t *testing.T) {
	h := NewEventHandler()

	t.Run("文本块", func(t *testing.T) {
		text, stop, err := h.HandleEvent("", []byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Hel"}]}}]}`))
		require.NoError(t, err)
		assert.False(t, stop)
		assert.Equal(t, "Hel", text)
	})

	t.Run("最后一块的文本仍被产出", func(t *testing.T) {
		text, stop, err := h.HandleEvent("", []byte(`{"candidates":[{"content":{"parts":[{"text":"lo"}]},"finishReason":"STOP"}]}`))
		require.NoError(t, err)
		assert.True(t, stop)
		assert.Equal(t, "lo", text)
	})

	t.Run("只有 usage 的块", func(t *testing.T) {
		text, stop, err := h.HandleEvent("", []byte(`{"usageMetadata":{"totalTokenCount":5}}`))
		require.NoError(t, err)
		assert.False(t, stop)
		assert.Empty(t, text)
	})

	t.Run("流中错误", func(t *testing.T) {
		_, _, err := h.HandleEvent("", []byte(`{"error":{"code":429,"message":"Resource exhausted","status":"RESOURCE_EXHAUSTED"}}`))
		assert.True(t, llm.IsStreamError(err))
		assert.Contains(t, err.Error(), "Resource exhausted")
	})

	t.Run("无法解析", func(t *testing.T) {
		_, _, err := h.HandleEvent("", []byte(`[`))
		assert.True(t, llm.IsStreamError(err))
	})

	assert.False(t, h.ShouldStopOnData("[DONE]"))
}

func TestEventHandler_Stream(t *testing.T) {
	sse := "data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":\"Hello\"}]}}]}\r\n\r\n" +
		"data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":\", world\"}]},\"finishReason\":\"STOP\"}]}\r\n\r\n"

	text, err := core.NewEventStream(io.NopCloser(strings.NewReader(sse)), NewEventHandler()).Collect()
	require.NoError(t, err)
	assert.Equal(t, "Hello, world", text)
}
