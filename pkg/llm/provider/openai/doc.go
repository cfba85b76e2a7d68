// Package openai 提供 OpenAI Chat Completions 兼容服务的适配器
//
// 一份实现服务九个 Provider：openai、together、groq、mistral、perplexity、
// deepinfra、deepseek、openrouter、dashscope。差异只在 [Variant]：
// 凭证环境变量和默认 Base URL。
//
// # 快速开始
//
//	gen, err := openai.New(openai.DeepSeek(), llm.ResolvedConfig{
//	    Model:       "deepseek-chat",
//	    Credentials: map[string]string{llm.FieldAPIKey: "sk-xxx"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gen.Close()
//
//	text, err := gen.Response(ctx, conv, nil)
//
// 通常不直接构造，而是通过 provider.NewGenerator("deepseek:deepseek-chat")。
//
// # 请求
//
//   - 生成: POST {base}/chat/completions，Authorization: Bearer {api_key}
//   - 向量: POST {base}/embeddings，body {model, input}
//
// 调用选项合并后原样写入请求体。推理模型（o1、o3、deepseek-reasoner 等）
// 会经过 [AdaptOptions] 调整 temperature 和 top_p。
package openai
