// Package container wires scholar's services using go.uber.org/dig.
package container

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/dig"

	ai "github.com/spetersoncode/scholar"
	"github.com/spetersoncode/scholar/a2a"
	"github.com/spetersoncode/scholar/agent"
	"github.com/spetersoncode/scholar/internal/config"
	"github.com/spetersoncode/scholar/internal/provider/anthropic"
	"github.com/spetersoncode/scholar/internal/provider/google"
	"github.com/spetersoncode/scholar/internal/provider/openai"
	"github.com/spetersoncode/scholar/reasoning"
	"github.com/spetersoncode/scholar/server"
	"github.com/spetersoncode/scholar/store"
	"github.com/spetersoncode/scholar/tool"
	"github.com/spetersoncode/scholar/tool/arxiv"
)

// Container resolves services on first use. Each command asks only for
// what it needs, so the MCP server never builds a model provider.
// Callers use the typed getters and never import dig directly.
type Container struct {
	d *dig.Container
}

// New registers every constructor. Nothing is built until a getter runs.
func New(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	d := dig.New()

	constructors := []any{
		func() *config.Config { return cfg },
		func() *slog.Logger { return logger },
		newProvider,
		newRegistry,
		newEngine,
		newAgent,
		newStore,
		newExecutor,
		newCard,
		newServer,
	}
	for _, c := range constructors {
		if err := d.Provide(c); err != nil {
			return nil, err
		}
	}
	return &Container{d: d}, nil
}

// Registry returns the tool registry.
func (c *Container) Registry() (*tool.Registry, error) {
	return resolve[*tool.Registry](c)
}

// Executor returns the task executor.
func (c *Container) Executor() (*a2a.Executor, error) {
	return resolve[*a2a.Executor](c)
}

// Server returns the HTTP server.
func (c *Container) Server() (*server.Server, error) {
	return resolve[*server.Server](c)
}

func resolve[T any](c *Container) (T, error) {
	var out T
	err := c.d.Invoke(func(v T) { out = v })
	return out, err
}

func newProvider(cfg *config.Config) (ai.ChatProvider, error) {
	switch cfg.Provider {
	case ai.ProviderOllama:
		var opts []openai.ClientOption
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		return openai.NewOllama(cfg.OllamaBaseURL, opts...), nil
	case ai.ProviderOpenAI:
		var opts []openai.ClientOption
		if cfg.Model != "" {
			opts = append(opts, openai.WithModel(cfg.Model))
		}
		return openai.New(cfg.OpenAIKey, opts...), nil
	case ai.ProviderAnthropic:
		var opts []anthropic.ClientOption
		if cfg.Model != "" {
			opts = append(opts, anthropic.WithModel(cfg.Model))
		}
		return anthropic.New(cfg.AnthropicKey, opts...), nil
	case ai.ProviderGoogle, ai.ProviderVertex:
		var opts []google.ClientOption
		if cfg.Model != "" {
			opts = append(opts, google.WithModel(cfg.Model))
		}
		if cfg.Provider == ai.ProviderVertex {
			return google.NewVertex(context.Background(), cfg.VertexProject, cfg.VertexLocation, opts...)
		}
		return google.New(context.Background(), cfg.GoogleKey, opts...)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}

func newRegistry(cfg *config.Config, logger *slog.Logger) (*tool.Registry, error) {
	opts := []arxiv.Option{arxiv.WithLogger(logger)}
	if cfg.ArxivBaseURL != "" {
		opts = append(opts, arxiv.WithBaseURL(cfg.ArxivBaseURL))
	}

	r := tool.NewRegistry()
	if err := arxiv.Register(r, arxiv.NewClient(opts...)); err != nil {
		return nil, err
	}
	return r, nil
}

func newEngine(cfg *config.Config, provider ai.ChatProvider) reasoning.Engine {
	chatOpts := []ai.Option{ai.WithTemperature(cfg.Temperature)}
	if cfg.MaxTokens > 0 {
		chatOpts = append(chatOpts, ai.WithMaxTokens(cfg.MaxTokens))
	}
	return reasoning.NewChatEngine(provider, reasoning.WithChatOptions(chatOpts...))
}

func newAgent(cfg *config.Config, engine reasoning.Engine, registry *tool.Registry) *agent.Agent {
	return agent.New(engine, registry,
		agent.WithMaxSteps(cfg.MaxSteps),
		agent.WithHandlerTimeout(cfg.ToolTimeout),
	)
}

func newStore(cfg *config.Config, logger *slog.Logger) store.Store {
	return store.NewMemoryStore(
		store.WithMaxThreads(cfg.MaxThreads),
		store.WithTTL(cfg.ThreadTTL),
		store.WithLogger(logger),
	)
}

func newExecutor(cfg *config.Config, a *agent.Agent, st store.Store, logger *slog.Logger) *a2a.Executor {
	return a2a.NewExecutor(a, st,
		a2a.WithTaskStore(a2a.NewTaskStore(cfg.MaxTasks)),
		a2a.WithLogger(logger),
	)
}

func newCard(cfg *config.Config, registry *tool.Registry) (*a2a.AgentCard, error) {
	return server.DefaultCard(cfg.URL()+"/a2a", registry.Tools())
}

func newServer(executor *a2a.Executor, card *a2a.AgentCard, logger *slog.Logger) *server.Server {
	return server.New(executor, card, server.WithLogger(logger))
}
