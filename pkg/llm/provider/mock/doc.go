// Package mock 提供内存中的 TextGenerator 和 TextEmbedder 实现
//
// 用于测试依赖 [llm.TextGenerator] / [llm.TextEmbedder] 的业务代码，
// 不访问网络，也不读取环境变量。
//
// # 快速开始
//
//	gen := mock.New(mock.WithResponse("你好"))
//	text, _ := gen.Response(ctx, conv, nil)
//
//	// 响应队列，用完后循环
//	gen := mock.New(mock.WithResponses("第一轮", "第二轮"))
//
//	// 动态响应
//	gen := mock.New(mock.WithResponseFunc(func(conv llm.Conversation, n int) string {
//	    msg := conv.At(conv.Len() - 1)
//	    return "echo: " + msg.Content
//	}))
//
// # 调用记录
//
// 每次调用记录对话、合并后的调用选项和是否流式：
//
//	call, _ := gen.LastCall()
//	fmt.Println(call.Options["max_tokens"])
//
// # 向量
//
// [Embedder] 由文本哈希生成确定性单位向量，维度通过 [WithDimensions] 设置。
package mock
