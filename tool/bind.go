package tool

import (
	"context"
	"encoding/json"

	ai "github.com/spetersoncode/scholar"
)

// Bind creates a Tool and Handler from a typed function. The parameter
// schema is generated from the struct tags on T.
//
//	type SearchArgs struct {
//	    Query string `json:"query" desc:"Search terms" required:"true" minLength:"1"`
//	}
//
//	t, h := tool.Bind("search", "Search the archive",
//	    func(ctx context.Context, args SearchArgs) (string, error) {
//	        return doSearch(ctx, args.Query)
//	    })
func Bind[T any](name, description string, fn TypedHandler[T]) (ai.Tool, Handler) {
	t := ai.Tool{
		Name:        name,
		Description: description,
		Parameters:  ai.SchemaFor[T](),
	}

	handler := func(ctx context.Context, call ai.ToolCall) (string, error) {
		var args T
		if call.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
				return "", err
			}
		}
		return fn(ctx, args)
	}

	return t, handler
}

// RegisterFunc binds a typed function and registers it on r.
func RegisterFunc[T any](r *Registry, name, description string, fn TypedHandler[T]) error {
	t, h := Bind(name, description, fn)
	return r.Register(t, h)
}

// MustRegisterFunc is like RegisterFunc but panics on error.
func MustRegisterFunc[T any](r *Registry, name, description string, fn TypedHandler[T]) {
	if err := RegisterFunc(r, name, description, fn); err != nil {
		panic(err)
	}
}
