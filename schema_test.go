package scholar

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeSchema(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var result map[string]any
	require.NoError(t, json.Unmarshal(raw, &result))
	return result
}

func TestSchemaFor_Types(t *testing.T) {
	type Args struct {
		Name   string   `json:"name"`
		Count  int      `json:"count"`
		Score  float64  `json:"score"`
		Active bool     `json:"active"`
		Tags   []string `json:"tags"`
		hidden string
		Skip   string `json:"-"`
	}

	result := decodeSchema(t, SchemaFor[Args]())
	assert.Equal(t, "object", result["type"])

	props := result["properties"].(map[string]any)
	assert.Len(t, props, 5)
	assert.Equal(t, "string", props["name"].(map[string]any)["type"])
	assert.Equal(t, "integer", props["count"].(map[string]any)["type"])
	assert.Equal(t, "number", props["score"].(map[string]any)["type"])
	assert.Equal(t, "boolean", props["active"].(map[string]any)["type"])

	tags := props["tags"].(map[string]any)
	assert.Equal(t, "array", tags["type"])
	assert.Equal(t, "string", tags["items"].(map[string]any)["type"])
}

func TestSchemaFor_Tags(t *testing.T) {
	type Args struct {
		Query      string `json:"query" desc:"Search terms" required:"true" minLength:"1"`
		MaxResults int    `json:"max_results" desc:"How many" min:"1" max:"50" default:"5"`
		Sort       string `json:"sort" enum:"relevance,date"`
	}

	result := decodeSchema(t, SchemaFor[Args]())
	assert.Equal(t, []any{"query"}, result["required"])

	props := result["properties"].(map[string]any)
	query := props["query"].(map[string]any)
	assert.Equal(t, "Search terms", query["description"])
	assert.Equal(t, float64(1), query["minLength"])

	maxResults := props["max_results"].(map[string]any)
	assert.Equal(t, float64(1), maxResults["minimum"])
	assert.Equal(t, float64(50), maxResults["maximum"])
	assert.Equal(t, float64(5), maxResults["default"])

	sort := props["sort"].(map[string]any)
	assert.Equal(t, []any{"relevance", "date"}, sort["enum"])
}

func TestSchemaFor_NonStruct(t *testing.T) {
	result := decodeSchema(t, SchemaFor[string]())
	assert.Equal(t, "object", result["type"])
	assert.Empty(t, result["properties"])
	assert.Nil(t, result["required"])
}
