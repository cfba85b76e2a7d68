// Package gemini 实现 Google Gemini generateContent 适配器
//
// # 基础使用
//
//	gen, err := gemini.New(llm.ResolvedConfig{
//	    Model:       gemini.ModelGemini25Flash,
//	    Credentials: map[string]string{llm.FieldAPIKey: "your-api-key"},
//	    CallOptions: llm.CallOptions{"maxOutputTokens": 256},
//	})
//
//	text, err := gen.Response(ctx, conv, nil)
//
// # 协议要点
//
//   - 认证使用 x-goog-api-key 请求头
//   - 模型在路径中：/models/{model}:generateContent
//   - 流式使用 :streamGenerateContent?alt=sse
//   - 调用选项整体作为 generationConfig 发送
//   - system 消息按 user 角色发送，相邻同角色消息合并
package gemini
