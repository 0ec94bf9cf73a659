// Package config loads scholar's settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	ai "github.com/spetersoncode/scholar"
)

// Config holds the server configuration loaded from environment variables.
type Config struct {
	// Server
	Addr      string
	PublicURL string
	LogLevel  string // debug, info, warn, error

	// Provider selection
	Provider    ai.Provider
	Model       string
	Temperature float64
	MaxTokens   int

	// API keys
	OpenAIKey    string
	AnthropicKey string
	GoogleKey    string

	// Ollama's OpenAI-compatible endpoint
	OllamaBaseURL string

	// Vertex AI (uses ADC for auth)
	VertexProject  string
	VertexLocation string

	// Agent
	MaxSteps    int
	ToolTimeout time.Duration

	// Conversation retention
	ThreadTTL  time.Duration
	MaxThreads int
	MaxTasks   int

	ArxivBaseURL string
}

// Load loads a .env file if present, then reads the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	e := env(getenv)
	cfg := &Config{
		Addr:           e.str("SCHOLAR_ADDR", ":10000"),
		PublicURL:      e.str("SCHOLAR_PUBLIC_URL", ""),
		LogLevel:       e.str("SCHOLAR_LOG_LEVEL", "info"),
		Provider:       ai.Provider(strings.ToLower(e.str("SCHOLAR_PROVIDER", string(ai.ProviderOllama)))),
		Model:          e.str("SCHOLAR_MODEL", ""),
		Temperature:    e.float("SCHOLAR_TEMPERATURE", 0.7),
		MaxTokens:      e.int("SCHOLAR_MAX_TOKENS", 0),
		OpenAIKey:      e.str("OPENAI_API_KEY", ""),
		AnthropicKey:   e.str("ANTHROPIC_API_KEY", ""),
		GoogleKey:      e.str("GOOGLE_API_KEY", ""),
		OllamaBaseURL:  e.str("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
		VertexProject:  e.str("VERTEX_PROJECT", ""),
		VertexLocation: e.str("VERTEX_LOCATION", ""),
		MaxSteps:       e.int("SCHOLAR_MAX_STEPS", 10),
		ToolTimeout:    e.duration("SCHOLAR_TOOL_TIMEOUT", 30*time.Second),
		ThreadTTL:      e.duration("SCHOLAR_THREAD_TTL", time.Hour),
		MaxThreads:     e.int("SCHOLAR_MAX_THREADS", 1024),
		MaxTasks:       e.int("SCHOLAR_MAX_TASKS", 4096),
		ArxivBaseURL:   e.str("ARXIV_BASE_URL", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if _, err := ai.ParseProvider(string(c.Provider)); err != nil {
		return fmt.Errorf("%w (must be ollama, openai, anthropic, google, or vertex)", err)
	}

	switch c.Provider {
	case ai.ProviderOpenAI:
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for openai provider")
		}
	case ai.ProviderAnthropic:
		if c.AnthropicKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for anthropic provider")
		}
	case ai.ProviderGoogle:
		if c.GoogleKey == "" {
			return fmt.Errorf("GOOGLE_API_KEY is required for google provider")
		}
	case ai.ProviderVertex:
		if c.VertexProject == "" || c.VertexLocation == "" {
			return fmt.Errorf("VERTEX_PROJECT and VERTEX_LOCATION are required for vertex provider")
		}
	}

	if c.MaxSteps < 1 {
		return fmt.Errorf("SCHOLAR_MAX_STEPS must be at least 1")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("SCHOLAR_TEMPERATURE must be between 0 and 2")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// URL returns the address clients should use to reach the server.
func (c *Config) URL() string {
	if c.PublicURL != "" {
		return strings.TrimRight(c.PublicURL, "/")
	}
	host, port, ok := strings.Cut(c.Addr, ":")
	if !ok {
		return "http://" + c.Addr
	}
	if host == "" || host == "0.0.0.0" {
		host = "localhost"
	}
	return "http://" + host + ":" + port
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

type env func(string) string

func (e env) str(key, def string) string {
	if v := e(key); v != "" {
		return v
	}
	return def
}

func (e env) int(key string, def int) int {
	if v := e(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func (e env) float(key string, def float64) float64 {
	if v := e(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func (e env) duration(key string, def time.Duration) time.Duration {
	if v := e(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
