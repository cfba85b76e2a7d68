// Package gemini 实现 Google Gemini generateContent 的协议转换
//
// Gemini 使用 Content/Parts 格式，与 OpenAI 和 Anthropic 都不同。
//
// # 协议特点
//
//   - 内容格式：Content{Role, Parts[]} 结构
//   - 角色映射：system→user, user→user, assistant→model
//   - 映射后角色相同的相邻消息合并为一个 Content
//   - 响应中 thought 片段不计入文本
//
// # 请求格式示例
//
//	{
//	  "contents": [
//	    {"role": "user", "parts": [{"text": "..."}, {"text": "..."}]},
//	    {"role": "model", "parts": [{"text": "..."}]}
//	  ],
//	  "generationConfig": {"maxOutputTokens": 256}
//	}
package gemini
