package core

import (
	"bufio"
	"io"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// SSE 读取器
// ═══════════════════════════════════════════════════════════════════════════

// maxSSELine 单行最大长度
const maxSSELine = 1 << 20

// SSEEvent 一个 SSE 数据事件
type SSEEvent struct {
	// Event 最近一次 "event:" 行的值（OpenAI/Gemini 为空）
	Event string

	// Data "data:" 行内容（已去除前缀）
	Data string
}

// SSEReader 按需拉取的 SSE 读取器
//
// 与后台 goroutine 推送不同，读取只在调用 Next 时发生，
// 调用方停止拉取后关闭 body 即可释放连接。
//
// 支持的格式：
//
//	event: content_block_delta
//	data: {"key": "value"}
//
//	data: {"key": "value"}
//
// 每个 "data:" 行产生一个事件；空行重置事件类型；":" 开头的注释行忽略。
type SSEReader struct {
	scanner *bufio.Scanner
	event   string
}

// NewSSEReader 创建 SSE 读取器
func NewSSEReader(r io.Reader) *SSEReader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELine)
	return &SSEReader{scanner: scanner}
}

// Next 返回下一个数据事件，读完返回 io.EOF
func (r *SSEReader) Next() (SSEEvent, error) {
	for r.scanner.Scan() {
		line := r.scanner.Text()

		if line == "" {
			r.event = ""
			continue
		}

		if strings.HasPrefix(line, ":") {
			continue
		}

		if after, ok := cutField(line, "event"); ok {
			r.event = after
			continue
		}

		if after, ok := cutField(line, "data"); ok {
			return SSEEvent{Event: r.event, Data: after}, nil
		}
	}

	if err := r.scanner.Err(); err != nil {
		return SSEEvent{}, err
	}
	return SSEEvent{}, io.EOF
}

// cutField 解析 "name: value" 或 "name:value"
func cutField(line, name string) (string, bool) {
	after, ok := strings.CutPrefix(line, name+":")
	if !ok {
		return "", false
	}
	return strings.TrimPrefix(after, " "), true
}
