package tool

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	ai "github.com/spetersoncode/scholar"
)

// registeredTool combines a tool definition with its handler.
type registeredTool struct {
	tool    ai.Tool
	handler Handler
	schema  *argSchema
}

// Registry manages registered tools and their handlers.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]registeredTool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]registeredTool),
	}
}

// Register adds a tool with its handler to the registry.
// The tool's parameter schema is compiled up front so that a bad schema
// fails at registration rather than on the first call.
func (r *Registry) Register(tool ai.Tool, handler Handler) error {
	schema, err := compileSchema(tool.Parameters)
	if err != nil {
		return fmt.Errorf("tool: register %s: %w", tool.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return &ErrToolAlreadyRegistered{Name: tool.Name}
	}

	r.tools[tool.Name] = registeredTool{
		tool:    tool,
		handler: handler,
		schema:  schema,
	}
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(tool ai.Tool, handler Handler) {
	if err := r.Register(tool, handler); err != nil {
		panic(err)
	}
}

// Get retrieves a handler by tool name.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rt, ok := r.tools[name]
	if !ok {
		return nil, false
	}
	return rt.handler, true
}

// Tools returns all registered tool definitions ordered by name.
func (r *Registry) Tools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]ai.Tool, 0, len(r.tools))
	for _, rt := range r.tools {
		tools = append(tools, rt.tool)
	}
	slices.SortFunc(tools, func(a, b ai.Tool) int { return strings.Compare(a.Name, b.Name) })
	return tools
}

// Names returns the sorted names of all registered tools.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute validates and runs a tool call.
//
// An unknown tool yields *ErrToolNotFound and arguments that fail schema
// validation yield *ErrInvalidArgument; in both cases the handler is not
// called. Handler errors and panics are captured in the result with IsError
// set so the model can recover.
func (r *Registry) Execute(ctx context.Context, call ai.ToolCall) (ai.ToolResult, error) {
	r.mu.RLock()
	rt, ok := r.tools[call.Name]
	r.mu.RUnlock()

	if !ok {
		return ai.ToolResult{}, &ErrToolNotFound{Name: call.Name}
	}

	args, err := rt.schema.normalize(call)
	if err != nil {
		return ai.ToolResult{}, err
	}
	call.Arguments = args

	content, err := runHandler(ctx, rt.handler, call)
	if err != nil {
		return ai.ToolResult{
			ToolCallID: call.ID,
			Name:       call.Name,
			Content:    err.Error(),
			IsError:    true,
		}, nil
	}

	return ai.ToolResult{
		ToolCallID: call.ID,
		Name:       call.Name,
		Content:    content,
	}, nil
}

// Invoke runs a tool call and always returns a result. Lookup and
// validation failures are rendered as error text addressed to the model.
func (r *Registry) Invoke(ctx context.Context, call ai.ToolCall) ai.ToolResult {
	result, err := r.Execute(ctx, call)
	if err == nil {
		return result
	}

	content := "Error: " + err.Error()
	var notFound *ErrToolNotFound
	if errors.As(err, &notFound) {
		content = fmt.Sprintf("Error: unknown tool %q. Available tools: %s",
			call.Name, strings.Join(r.Names(), ", "))
	}

	return ai.ToolResult{
		ToolCallID: call.ID,
		Name:       call.Name,
		Content:    content,
		IsError:    true,
	}
}

func runHandler(ctx context.Context, h Handler, call ai.ToolCall) (content string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = &ErrToolExecution{Name: call.Name, Err: fmt.Errorf("panic: %v", p)}
		}
	}()
	return h(ctx, call)
}

// Registration holds a tool and its handler for fluent registration.
type Registration struct {
	Tool    ai.Tool
	Handler Handler
}

// Func creates a Registration whose schema is derived from T.
//
//	registry := tool.NewRegistry().Add(
//	    tool.Func("search_arXiv", "Search arXiv", searchHandler),
//	)
func Func[T any](name, description string, fn TypedHandler[T]) Registration {
	t, h := Bind(name, description, fn)
	return Registration{Tool: t, Handler: h}
}

// Add registers one or more tools and returns the registry for chaining.
// Panics if any tool is already registered.
func (r *Registry) Add(regs ...Registration) *Registry {
	for _, reg := range regs {
		r.MustRegister(reg.Tool, reg.Handler)
	}
	return r
}
