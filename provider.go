package scholar

import "fmt"

// Provider identifies a model back end.
type Provider string

// String returns the provider identifier.
func (p Provider) String() string { return string(p) }

// Supported providers. Ollama is served through its OpenAI-compatible API
// and Vertex AI through the Gemini SDK.
const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
	ProviderGoogle    Provider = "google"
	ProviderVertex    Provider = "vertex"
	ProviderOllama    Provider = "ollama"
)

// ParseProvider validates a provider name.
func ParseProvider(s string) (Provider, error) {
	switch p := Provider(s); p {
	case ProviderAnthropic, ProviderOpenAI, ProviderGoogle, ProviderVertex, ProviderOllama:
		return p, nil
	default:
		return "", fmt.Errorf("unknown provider %q", s)
	}
}
