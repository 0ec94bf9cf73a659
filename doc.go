// Package scholar holds the provider-neutral vocabulary shared by the
// research agent: conversation messages, tool declarations and calls,
// chat provider options, and categorized errors.
//
// The rest of the module is layered on top of it:
//
//   - [github.com/spetersoncode/scholar/reasoning] turns a history into the next assistant message
//   - [github.com/spetersoncode/scholar/tool] registers, validates and invokes tools
//   - [github.com/spetersoncode/scholar/store] keeps per-thread conversation history
//   - [github.com/spetersoncode/scholar/agent] runs the reasoning and tool loop
//   - [github.com/spetersoncode/scholar/a2a] maps loop turns onto A2A task events
//   - [github.com/spetersoncode/scholar/server] serves A2A over JSON-RPC and SSE
//
// Packages import this one as ai:
//
//	import ai "github.com/spetersoncode/scholar"
//
//	msg := ai.NewUserMessage("Find recent papers on diffusion models")
package scholar
