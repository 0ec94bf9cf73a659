package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	ai "github.com/spetersoncode/scholar"
	"github.com/spetersoncode/scholar/tool"
)

const instructions = "Tools for finding academic papers. search_arXiv returns titles, authors, links and abstracts ranked by relevance."

// ServerOption configures a Server.
type ServerOption func(*serverConfig)

type serverConfig struct {
	name    string
	version string
	logger  *slog.Logger
}

// WithName sets the server name reported to MCP clients. Defaults to "scholar".
func WithName(name string) ServerOption {
	return func(c *serverConfig) { c.name = name }
}

// WithVersion sets the server version reported to MCP clients.
func WithVersion(version string) ServerOption {
	return func(c *serverConfig) { c.version = version }
}

// WithLogger sets the logger for tool calls. It must not write to stdout
// when serving over stdio.
func WithLogger(l *slog.Logger) ServerOption {
	return func(c *serverConfig) { c.logger = l }
}

// NewServer creates an MCP server exposing every tool in registry.
// Calls go through [tool.Registry.Invoke], so arguments are validated
// and failures come back as error results rather than protocol errors.
func NewServer(registry *tool.Registry, opts ...ServerOption) *server.MCPServer {
	cfg := &serverConfig{
		name:    "scholar",
		version: "1.0.0",
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := server.NewMCPServer(cfg.name, cfg.version,
		server.WithToolCapabilities(false),
		server.WithInstructions(instructions),
		server.WithRecovery(),
	)

	h := &invoker{registry: registry, logger: cfg.logger}
	for _, t := range registry.Tools() {
		s.AddTool(ToMCPTool(t), h.handle)
	}
	return s
}

// invoker routes MCP tool calls to the registry.
type invoker struct {
	registry *tool.Registry
	logger   *slog.Logger
	seq      atomic.Int64
}

func (h *invoker) handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := "{}"
	if req.Params.Arguments != nil {
		data, err := json.Marshal(req.Params.Arguments)
		if err != nil {
			return mcp.NewToolResultErrorFromErr("invalid arguments", err), nil
		}
		args = string(data)
	}

	call := ai.ToolCall{
		ID:        "mcp-" + strconv.FormatInt(h.seq.Add(1), 10),
		Name:      req.Params.Name,
		Arguments: args,
	}
	start := time.Now()
	result := h.registry.Invoke(ctx, call)
	h.logger.InfoContext(ctx, "mcp tool call",
		"tool", call.Name,
		"call_id", call.ID,
		"is_error", result.IsError,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ToMCPCallToolResult(result), nil
}

// ServeStdio serves registry over stdin/stdout until the client disconnects.
func ServeStdio(registry *tool.Registry, opts ...ServerOption) error {
	return server.ServeStdio(NewServer(registry, opts...))
}
