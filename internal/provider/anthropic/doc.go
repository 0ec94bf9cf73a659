// Package anthropic provides an Anthropic Claude client implementing
// [scholar.ChatProvider].
//
// Only non-streaming chat with tool calling is supported; the research
// agent consumes whole responses.
//
// # Basic Usage
//
//	client := anthropic.New(os.Getenv("ANTHROPIC_API_KEY"))
//
//	resp, err := client.Chat(ctx, []scholar.Message{
//	    scholar.NewUserMessage("Summarize the transformer paper."),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resp.Content)
//
// Set a default model at client creation, or override it per request with
// [scholar.WithModel]:
//
//	client := anthropic.New(apiKey, anthropic.WithModel("claude-haiku-4-5"))
package anthropic
