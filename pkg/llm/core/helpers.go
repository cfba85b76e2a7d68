package core

import (
	"encoding/json"
	"strings"
)

// ═══════════════════════════════════════════════════════════════════════════
// 辅助函数
// ═══════════════════════════════════════════════════════════════════════════

// GetString 将 any 安全转换为 string，非字符串返回 ""
func GetString(val any) string {
	if s, ok := val.(string); ok {
		return s
	}
	return ""
}

// IsJSONNull 检查原始 JSON 是否缺失或为 null
func IsJSONNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}

// BuildBody 以调用选项为底构建请求体，fields 覆盖同名键
//
// 协议固定字段（messages、stream 等）总是以 fields 为准。
func BuildBody(options map[string]any, fields map[string]any) map[string]any {
	body := make(map[string]any, len(options)+len(fields))
	for k, v := range options {
		body[k] = v
	}
	for k, v := range fields {
		body[k] = v
	}
	return body
}
