// Package anthropic 提供 Anthropic Messages API 适配器
//
// # 快速开始
//
//	gen, err := anthropic.New(llm.ResolvedConfig{
//	    Model:       "claude-3-5-haiku-latest",
//	    Credentials: map[string]string{llm.FieldAPIKey: "sk-ant-..."},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gen.Close()
//
//	text, err := gen.Response(ctx, conv, nil)
//
// # 与 OpenAI 兼容包的区别
//
//   - 认证方式：X-Api-Key 头部而非 Bearer Token，并附带 anthropic-version
//   - 系统提示：作为顶层 system 字段而非消息
//   - max_tokens 必填，未给出时使用 [DefaultMaxTokens]
//   - 流式事件：只取 content_block_delta 中的 text_delta，message_stop 结束
package anthropic
