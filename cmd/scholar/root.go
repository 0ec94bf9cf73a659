package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/scholar/internal/config"
)

const version = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "scholar",
		Short:         "Paper research agent speaking A2A",
		Long:          "scholar answers research questions by searching arXiv with an LLM agent, served over the A2A protocol.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newMCPCmd())
	root.AddCommand(newAskCmd())
	return root
}

// newLogger writes text logs to w at the configured level.
func newLogger(w io.Writer, cfg *config.Config) *slog.Logger {
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
