package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/scholar/internal/config"
	"github.com/spetersoncode/scholar/internal/container"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the A2A server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if addr != "" {
				cfg.Addr = addr
			}

			logger := newLogger(os.Stderr, cfg)
			c, err := container.New(cfg, logger)
			if err != nil {
				return err
			}
			srv, err := c.Server()
			if err != nil {
				return fmt.Errorf("build server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("starting server",
				"addr", cfg.Addr,
				"url", cfg.URL(),
				"provider", cfg.Provider,
				"model", cfg.Model,
			)
			if err := srv.ListenAndServe(ctx, cfg.Addr, shutdownTimeout); err != nil {
				return err
			}
			logger.Info("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides SCHOLAR_ADDR)")
	return cmd
}
