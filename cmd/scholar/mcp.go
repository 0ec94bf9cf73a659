package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/scholar/internal/config"
	"github.com/spetersoncode/scholar/internal/container"
	"github.com/spetersoncode/scholar/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the search tools over MCP stdio",
		Long: `Serve the search tools over MCP stdio.

Configuration for Claude Desktop:

	{
	    "mcpServers": {
	        "scholar": {"command": "scholar", "args": ["mcp"]}
	    }
	}`,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			// stdout carries the protocol.
			logger := newLogger(os.Stderr, cfg)
			c, err := container.New(cfg, logger)
			if err != nil {
				return err
			}
			registry, err := c.Registry()
			if err != nil {
				return err
			}
			return mcp.ServeStdio(registry,
				mcp.WithName("scholar"),
				mcp.WithVersion(version),
				mcp.WithLogger(logger),
			)
		},
	}
}
