// Package tool registers, validates and invokes the tools an agent may call.
//
// Tools are declared with a JSON Schema for their arguments, usually
// generated from a tagged struct:
//
//	type SearchArgs struct {
//	    Query      string `json:"query" desc:"Search terms" required:"true" minLength:"1"`
//	    MaxResults int    `json:"max_results" min:"1" default:"5"`
//	}
//
//	registry := tool.NewRegistry()
//	tool.MustRegisterFunc(registry, "search", "Search the archive",
//	    func(ctx context.Context, args SearchArgs) (string, error) {
//	        return doSearch(ctx, args.Query, args.MaxResults)
//	    })
//
// Arguments are validated against the schema before a handler runs. String
// values for integer, number and boolean properties are coerced when they
// parse cleanly, since models frequently quote scalars.
//
// [Registry.Execute] reports unknown tools and invalid arguments as errors.
// [Registry.Invoke] never fails: every problem, including a handler panic,
// comes back as a ToolResult with IsError set, so the reasoning step can
// react on its next turn.
package tool
