// Package blackbird 提供流式聊天客户端的公开 API。
// 应用层通过 api 包引用，勿直接使用 internal。
//
// 示例：
//
//	import "github.com/blackbird-ai/blackbird-go/api"
//
//	service := blackbird.NewChatService(&blackbird.ServiceOptional{
//	    BaseURL: "http://localhost:5012",
//	})
//	streamID, err := service.SendStreaming(ctx, "Hello", &blackbird.SendOptions{Agent: "general"}, blackbird.Callbacks{
//	    OnChunk:    func(text string) { fmt.Print(text) },
//	    OnComplete: func() { fmt.Println() },
//	    OnError:    func(err error) { log.Println(err) },
//	})
package blackbird
