package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"slices"
)

// ═══════════════════════════════════════════════════════════════════════════
// 角色定义
// ═══════════════════════════════════════════════════════════════════════════

// Role 消息角色（封闭枚举）
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ParseRole 解析角色字符串，未知角色返回错误（不做任何强制转换）
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role %q", s)
	}
	return r, nil
}

// IsValid 检查角色是否为枚举成员
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// String 返回字符串表示
func (r Role) String() string {
	return string(r)
}

// UnmarshalJSON 严格解析角色
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("role must be a string: %w", err)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 消息结构
// ═══════════════════════════════════════════════════════════════════════════

// Message 对话消息（值类型）
//
// Content 允许为空字符串，但 JSON 解码时字段必须存在。
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewMessage 创建并校验消息
func NewMessage(role Role, content string) (Message, error) {
	m := Message{Role: role, Content: content}
	if err := m.Validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}

// UserMessage 创建用户消息
func UserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

// AssistantMessage 创建助手消息
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// SystemMessage 创建系统消息
func SystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }

// Validate 校验消息角色
func (m Message) Validate() error {
	if !m.Role.IsValid() {
		return fmt.Errorf("invalid role %q", string(m.Role))
	}
	return nil
}

// UnmarshalJSON 严格解析：拒绝未知字段，role/content 必须存在
func (m *Message) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role    *Role   `json:"role"`
		Content *string `json:"content"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode message: %w", err)
	}
	if raw.Role == nil {
		return fmt.Errorf("decode message: missing field \"role\"")
	}
	if raw.Content == nil {
		return fmt.Errorf("decode message: missing field \"content\"")
	}
	m.Role = *raw.Role
	m.Content = *raw.Content
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════
// 对话
// ═══════════════════════════════════════════════════════════════════════════

// Conversation 不可变的有序消息序列
//
// 顺序即时间顺序。零值为合法的空对话。
type Conversation struct {
	messages []Message
}

// NewConversation 创建对话，校验每条消息的角色
func NewConversation(messages ...Message) (Conversation, error) {
	for i, m := range messages {
		if err := m.Validate(); err != nil {
			return Conversation{}, fmt.Errorf("message %d: %w", i, err)
		}
	}
	return Conversation{messages: slices.Clone(messages)}, nil
}

// MustConversation 创建对话，失败时 panic
func MustConversation(messages ...Message) Conversation {
	c, err := NewConversation(messages...)
	if err != nil {
		panic(err)
	}
	return c
}

// Len 返回消息数量
func (c Conversation) Len() int { return len(c.messages) }

// IsEmpty 是否为空对话
func (c Conversation) IsEmpty() bool { return len(c.messages) == 0 }

// At 返回第 i 条消息
func (c Conversation) At(i int) Message { return c.messages[i] }

// Messages 返回消息副本
func (c Conversation) Messages() []Message { return slices.Clone(c.messages) }

// All 按顺序遍历消息
func (c Conversation) All() iter.Seq2[int, Message] {
	return func(yield func(int, Message) bool) {
		for i, m := range c.messages {
			if !yield(i, m) {
				return
			}
		}
	}
}

// Backward 从最后一条开始逆序遍历
func (c Conversation) Backward() iter.Seq2[int, Message] {
	return slices.Backward(c.messages)
}

// Append 返回追加消息后的新对话，原对话不变
func (c Conversation) Append(messages ...Message) (Conversation, error) {
	for i, m := range messages {
		if err := m.Validate(); err != nil {
			return c, fmt.Errorf("message %d: %w", i, err)
		}
	}
	next := make([]Message, 0, len(c.messages)+len(messages))
	next = append(next, c.messages...)
	next = append(next, messages...)
	return Conversation{messages: next}, nil
}

type conversationJSON struct {
	Messages []Message `json:"messages"`
}

// MarshalJSON 输出 {"messages": [...]}
func (c Conversation) MarshalJSON() ([]byte, error) {
	msgs := c.messages
	if msgs == nil {
		msgs = []Message{}
	}
	return json.Marshal(conversationJSON{Messages: msgs})
}

// UnmarshalJSON 严格解析 {"messages": [...]}
func (c *Conversation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Messages *[]Message `json:"messages"`
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("decode conversation: %w", err)
	}
	if raw.Messages == nil {
		return fmt.Errorf("decode conversation: missing field \"messages\"")
	}
	c.messages = *raw.Messages
	return nil
}
