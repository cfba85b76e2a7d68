package gemini

import (
	"fmt"
	"strings"

	"github.com/lwmacct/251216-go-pkg-llmtaxi/pkg/llm"
)

// ═══════════════════════════════════════════════════════════════════════════
// Gemini generateContent 协议格式
// ═══════════════════════════════════════════════════════════════════════════

// Content Gemini 请求内容 {role, parts[]}
type Content struct {
	Role  string `json:"role"`
	Parts []Part `json:"parts"`
}

// Part 内容片段
type Part struct {
	Text    string `json:"text"`
	Thought bool   `json:"thought,omitempty"`
}

// 目标角色
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// MapRole 将统一角色映射到 Gemini 角色
//
// Gemini 在此路径下没有 system 回合，system 按 user 处理。
func MapRole(role llm.Role) string {
	switch role {
	case llm.RoleAssistant:
		return RoleModel
	case llm.RoleUser, llm.RoleSystem:
		return RoleUser
	default:
		return RoleUser
	}
}

// ConvertMessages 将对话转换为 Gemini contents
//
// 映射后角色相同的相邻消息合并为一个 Content，每条消息一个 Part：
//
//	[system "a", user "b", assistant "c", user "d"]
//	→ [{user, ["a","b"]}, {model, ["c"]}, {user, ["d"]}]
//
// 只合并相邻的分组，不跨越其他角色。
func ConvertMessages(conv llm.Conversation) []Content {
	result := make([]Content, 0, conv.Len())
	for _, msg := range conv.All() {
		role := MapRole(msg.Role)
		part := Part{Text: msg.Content}

		if n := len(result); n > 0 && result[n-1].Role == role {
			result[n-1].Parts = append(result[n-1].Parts, part)
			continue
		}
		result = append(result, Content{Role: role, Parts: []Part{part}})
	}
	return result
}

// ═══════════════════════════════════════════════════════════════════════════
// 响应解析
// ═══════════════════════════════════════════════════════════════════════════

// GenerateContentResponse generateContent 响应（流式每块结构相同）
//
//	{
//	  "candidates": [{
//	    "content": {"role": "model", "parts": [{"text": "..."}]},
//	    "finishReason": "STOP"
//	  }]
//	}
type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate 单个候选
type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
}

// CandidateText 拼接候选中非 thought 的文本片段
func CandidateText(c Candidate) string {
	if c.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, p := range c.Content.Parts {
		if p.Thought {
			continue
		}
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// DecodeResponse 提取第一个候选的文本
//
// candidates 缺失返回 ResponseError；候选没有 parts 返回 ""。
func DecodeResponse(resp *GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", llm.NewResponseError("candidates", fmt.Errorf("response has no candidates"))
	}
	return CandidateText(resp.Candidates[0]), nil
}
