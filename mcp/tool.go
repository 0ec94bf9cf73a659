// Package mcp exposes the agent's tools over the Model Context Protocol.
//
// MCP lets assistants such as desktop chat clients discover and call
// external tools. [NewServer] publishes a [tool.Registry] so the arXiv
// search can be used without the A2A agent around it:
//
//	registry := tool.NewRegistry()
//	arxiv.Register(registry, arxiv.NewClient())
//
//	if err := mcp.ServeStdio(registry); err != nil {
//	    log.Fatal(err)
//	}
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	ai "github.com/spetersoncode/scholar"
)

// ToMCPTool converts a Tool to an MCP Tool. Parameters is used as the
// raw input schema.
func ToMCPTool(t ai.Tool) mcp.Tool {
	return mcp.NewToolWithRawSchema(t.Name, t.Description, t.Parameters)
}

// ToMCPCallToolResult converts a ToolResult to an MCP CallToolResult.
func ToMCPCallToolResult(result ai.ToolResult) *mcp.CallToolResult {
	if result.IsError {
		return mcp.NewToolResultError(result.Content)
	}
	return mcp.NewToolResultText(result.Content)
}
