package google

import (
	"encoding/json"

	"google.golang.org/genai"
)

// jsonSchema is the subset of JSON Schema that tool parameters use.
type jsonSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description"`
	Enum        []string               `json:"enum"`
	Properties  map[string]*jsonSchema `json:"properties"`
	Required    []string               `json:"required"`
	Items       *jsonSchema            `json:"items"`
	Minimum     *float64               `json:"minimum"`
	Maximum     *float64               `json:"maximum"`
}

var schemaTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

// convertSchema converts a JSON Schema document to a genai Schema. It
// returns nil for empty or malformed input.
func convertSchema(raw json.RawMessage) *genai.Schema {
	if len(raw) == 0 {
		return nil
	}
	var s jsonSchema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return s.toGenai()
}

func (s *jsonSchema) toGenai() *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        schemaTypes[s.Type],
		Description: s.Description,
		Enum:        s.Enum,
		Required:    s.Required,
		Items:       s.Items.toGenai(),
		Minimum:     s.Minimum,
		Maximum:     s.Maximum,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = prop.toGenai()
		}
	}
	return out
}
