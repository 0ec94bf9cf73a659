package tool

import (
	"context"
	"errors"
	"testing"

	ai "github.com/spetersoncode/scholar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchArgs struct {
	Query      string `json:"query" desc:"Search query" required:"true" minLength:"1"`
	MaxResults int    `json:"max_results" min:"1" default:"5"`
}

func newSearchRegistry(calls *int) *Registry {
	return NewRegistry().Add(
		Func("search", "Search the archive", func(ctx context.Context, args searchArgs) (string, error) {
			*calls++
			if args.MaxResults == 0 {
				args.MaxResults = 5
			}
			return args.Query, nil
		}),
	)
}

func TestRegistryAdd(t *testing.T) {
	t.Run("registers multiple tools", func(t *testing.T) {
		registry := NewRegistry().Add(
			Func("search", "Search", func(ctx context.Context, args searchArgs) (string, error) {
				return "", nil
			}),
			Func("fetch", "Fetch", func(ctx context.Context, args searchArgs) (string, error) {
				return "", nil
			}),
		)

		assert.Equal(t, 2, registry.Len())
		assert.Equal(t, []string{"fetch", "search"}, registry.Names())

		tools := registry.Tools()
		require.Len(t, tools, 2)
		assert.Equal(t, "fetch", tools[0].Name)
		assert.Equal(t, "search", tools[1].Name)
	})

	t.Run("panics on duplicate tool name", func(t *testing.T) {
		assert.Panics(t, func() {
			NewRegistry().Add(
				Func("dupe", "First", func(ctx context.Context, args searchArgs) (string, error) { return "", nil }),
				Func("dupe", "Second", func(ctx context.Context, args searchArgs) (string, error) { return "", nil }),
			)
		})
	})

	t.Run("rejects invalid schema", func(t *testing.T) {
		err := NewRegistry().Register(ai.Tool{Name: "bad", Parameters: []byte(`{"type": 12}`)},
			func(ctx context.Context, call ai.ToolCall) (string, error) { return "", nil })
		assert.Error(t, err)
	})
}

func TestRegistryExecute(t *testing.T) {
	ctx := context.Background()

	t.Run("runs handler with valid arguments", func(t *testing.T) {
		var calls int
		registry := newSearchRegistry(&calls)

		result, err := registry.Execute(ctx, ai.ToolCall{ID: "c1", Name: "search", Arguments: `{"query":"diffusion models","max_results":3}`})
		require.NoError(t, err)
		assert.Equal(t, "c1", result.ToolCallID)
		assert.Equal(t, "search", result.Name)
		assert.Equal(t, "diffusion models", result.Content)
		assert.False(t, result.IsError)
		assert.Equal(t, 1, calls)
	})

	t.Run("unknown tool", func(t *testing.T) {
		var calls int
		registry := newSearchRegistry(&calls)

		_, err := registry.Execute(ctx, ai.ToolCall{ID: "c1", Name: "missing"})
		var notFound *ErrToolNotFound
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "missing", notFound.Name)
		assert.Zero(t, calls)
	})

	invalid := []struct {
		name string
		args string
	}{
		{"missing query", `{}`},
		{"empty query", `{"query":""}`},
		{"wrong query type", `{"query":7}`},
		{"zero results", `{"query":"q","max_results":0}`},
		{"non numeric results", `{"query":"q","max_results":"many"}`},
		{"malformed json", `{"query":`},
	}
	for _, tt := range invalid {
		t.Run("invalid argument: "+tt.name, func(t *testing.T) {
			var calls int
			registry := newSearchRegistry(&calls)

			_, err := registry.Execute(ctx, ai.ToolCall{ID: "c1", Name: "search", Arguments: tt.args})
			var invalidArg *ErrInvalidArgument
			require.ErrorAs(t, err, &invalidArg)
			assert.Equal(t, "search", invalidArg.Name)
			assert.Zero(t, calls)
		})
	}

	t.Run("coerces quoted integers", func(t *testing.T) {
		var got int
		registry := NewRegistry().Add(
			Func("search", "Search", func(ctx context.Context, args searchArgs) (string, error) {
				got = args.MaxResults
				return "ok", nil
			}),
		)

		result, err := registry.Execute(ctx, ai.ToolCall{Name: "search", Arguments: `{"query":"q","max_results":"3"}`})
		require.NoError(t, err)
		assert.False(t, result.IsError)
		assert.Equal(t, 3, got)
	})

	t.Run("handler error becomes error result", func(t *testing.T) {
		registry := NewRegistry().Add(
			Func("search", "Search", func(ctx context.Context, args searchArgs) (string, error) {
				return "", errors.New("upstream unavailable")
			}),
		)

		result, err := registry.Execute(ctx, ai.ToolCall{ID: "c1", Name: "search", Arguments: `{"query":"q"}`})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Equal(t, "upstream unavailable", result.Content)
	})

	t.Run("handler panic becomes error result", func(t *testing.T) {
		registry := NewRegistry().Add(
			Func("search", "Search", func(ctx context.Context, args searchArgs) (string, error) {
				panic("boom")
			}),
		)

		result, err := registry.Execute(ctx, ai.ToolCall{ID: "c1", Name: "search", Arguments: `{"query":"q"}`})
		require.NoError(t, err)
		assert.True(t, result.IsError)
		assert.Contains(t, result.Content, "boom")
	})
}

func TestRegistryInvoke(t *testing.T) {
	ctx := context.Background()
	var calls int
	registry := newSearchRegistry(&calls)

	t.Run("unknown tool is reported in band", func(t *testing.T) {
		result := registry.Invoke(ctx, ai.ToolCall{ID: "c9", Name: "web_search", Arguments: `{}`})
		assert.True(t, result.IsError)
		assert.Equal(t, "c9", result.ToolCallID)
		assert.Contains(t, result.Content, `unknown tool "web_search"`)
		assert.Contains(t, result.Content, "search")
	})

	t.Run("invalid argument is reported in band", func(t *testing.T) {
		result := registry.Invoke(ctx, ai.ToolCall{ID: "c2", Name: "search", Arguments: `{"query":""}`})
		assert.True(t, result.IsError)
		assert.Contains(t, result.Content, "invalid arguments for search")
	})

	t.Run("success passes through", func(t *testing.T) {
		result := registry.Invoke(ctx, ai.ToolCall{ID: "c3", Name: "search", Arguments: `{"query":"graphs"}`})
		assert.False(t, result.IsError)
		assert.Equal(t, "graphs", result.Content)
	})

	assert.Equal(t, 1, calls)
}
