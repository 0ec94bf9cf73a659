package scholar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyOptions(t *testing.T) {
	t.Run("returns empty options when no options provided", func(t *testing.T) {
		opts := ApplyOptions()
		require.NotNil(t, opts)
		assert.Empty(t, opts.Model)
		assert.Zero(t, opts.MaxTokens)
		assert.Nil(t, opts.Temperature)
		assert.Nil(t, opts.Tools)
	})

	t.Run("applies multiple options", func(t *testing.T) {
		opts := ApplyOptions(
			WithModel("llama3.1:8b"),
			WithMaxTokens(512),
			WithTemperature(0.7),
			WithTools(Tool{Name: "search_arXiv"}),
		)
		assert.Equal(t, "llama3.1:8b", opts.Model)
		assert.Equal(t, 512, opts.MaxTokens)
		require.NotNil(t, opts.Temperature)
		assert.InDelta(t, 0.7, *opts.Temperature, 1e-9)
		require.Len(t, opts.Tools, 1)
		assert.Equal(t, "search_arXiv", opts.Tools[0].Name)
	})

	t.Run("later options win", func(t *testing.T) {
		opts := ApplyOptions(WithModel("a"), WithModel("b"))
		assert.Equal(t, "b", opts.Model)
	})
}

func TestParseProvider(t *testing.T) {
	for _, name := range []string{"openai", "anthropic", "google", "vertex", "ollama"} {
		p, err := ParseProvider(name)
		require.NoError(t, err)
		assert.Equal(t, name, p.String())
	}

	_, err := ParseProvider("cohere")
	assert.Error(t, err)
}
