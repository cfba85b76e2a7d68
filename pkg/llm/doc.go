// Package llm 提供文本生成和文本向量化的统一抽象层
//
// 本包只定义值类型和能力接口，不包含任何网络代码：
//   - [TextGenerator]: 同步和流式文本生成
//   - [TextEmbedder]: 单条和批量文本向量化
//   - [Conversation]: 不可变的有序消息序列
//   - [Stream]: 单次消费的流式文本片段
//   - [CallOptions]: 原样转发到 Provider 的调用参数
//
// 完整使用示例请参考 example_test.go。
//
// # 消息
//
// [Role] 为封闭枚举（user、assistant、system），JSON 解析严格拒绝其他值。
// [Message] 的 JSON 解析拒绝未知字段，role 和 content 必须存在。
//
// # Provider 类型
//
// [ProviderType] 枚举全部十一个 Provider，标识区分大小写：
// openai、google、together、groq、anthropic、mistral、perplexity、
// deepinfra、deepseek、openrouter、dashscope。
//
// # 凭证
//
// 每个 Provider 通过 [CredentialSpec] 声明凭证字段和对应环境变量。
// 解析顺序：显式参数 > 环境变量 > 字段默认值，缺失时返回
// [MissingCredentialError]，消息中包含环境变量名。
//
// # 错误
//
// 所有错误嵌入 [BaseError]，使用 IsXxx 函数判断类型：
//
//	if llm.IsMissingCredentialError(err) { ... }
//	if apiErr, ok := llm.GetAPIError(err); ok && apiErr.IsRetryable() { ... }
//
// # 实现
//
// 具体适配器位于子包：
//   - pkg/llm/provider: 按 "<provider>:<model>" 标识创建适配器的工厂
//   - pkg/llm/provider/openai: OpenAI 兼容协议（九个 Provider 共用）
//   - pkg/llm/provider/anthropic: Anthropic Messages API
//   - pkg/llm/provider/gemini: Google Gemini
//   - pkg/llm/provider/mock: 内存实现（用于测试）
package llm
