// Command scholar runs the paper research agent.
//
// Configuration is via environment variables, optionally loaded from .env:
//
//	SCHOLAR_PROVIDER   - ollama (default), openai, anthropic, google or vertex
//	SCHOLAR_MODEL      - model override (optional, uses provider default)
//	SCHOLAR_ADDR       - listen address (default: :10000)
//	SCHOLAR_LOG_LEVEL  - debug, info, warn or error (default: info)
//	OPENAI_API_KEY     - OpenAI API key
//	ANTHROPIC_API_KEY  - Anthropic API key
//	GOOGLE_API_KEY     - Google API key
//	OLLAMA_BASE_URL    - Ollama endpoint (default: http://localhost:11434/v1)
//
// Usage:
//
//	scholar serve
//	scholar ask --stream "recent work on diffusion transformers"
//	scholar mcp
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
