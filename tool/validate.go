package tool

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	ai "github.com/spetersoncode/scholar"
)

// argSchema is the compiled form of a tool's parameter schema.
type argSchema struct {
	compiled *gojsonschema.Schema
	// types maps top-level property names to their declared JSON type.
	types map[string]string
}

func compileSchema(params json.RawMessage) (*argSchema, error) {
	if len(params) == 0 {
		return nil, nil
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(params))
	if err != nil {
		return nil, fmt.Errorf("compile parameter schema: %w", err)
	}

	var decl struct {
		Properties map[string]struct {
			Type string `json:"type"`
		} `json:"properties"`
	}
	if err := json.Unmarshal(params, &decl); err != nil {
		return nil, fmt.Errorf("read parameter schema: %w", err)
	}

	types := make(map[string]string, len(decl.Properties))
	for name, p := range decl.Properties {
		types[name] = p.Type
	}
	return &argSchema{compiled: compiled, types: types}, nil
}

// normalize decodes the call arguments, coerces string values into the
// declared scalar types, and validates the result. It returns the
// normalized arguments re-encoded as JSON.
func (s *argSchema) normalize(call ai.ToolCall) (string, error) {
	args, err := call.DecodeArguments()
	if err != nil {
		return "", &ErrInvalidArgument{Name: call.Name, Err: err}
	}
	if s == nil {
		return call.Arguments, nil
	}

	for name, v := range args {
		if str, ok := v.(string); ok {
			args[name] = coerce(str, s.types[name])
		}
	}

	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return "", &ErrInvalidArgument{Name: call.Name, Err: err}
	}
	if !result.Valid() {
		reasons := make([]string, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			reasons = append(reasons, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
		}
		return "", &ErrInvalidArgument{Name: call.Name, Reasons: reasons}
	}

	data, err := json.Marshal(args)
	if err != nil {
		return "", &ErrInvalidArgument{Name: call.Name, Err: err}
	}
	return string(data), nil
}

// coerce converts a string argument to the declared type when it parses
// cleanly. Anything else is returned unchanged for the validator to judge.
func coerce(s, typ string) any {
	trimmed := strings.TrimSpace(s)
	switch typ {
	case "integer":
		if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
			return n
		}
	case "number":
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
	case "boolean":
		if b, err := strconv.ParseBool(trimmed); err == nil {
			return b
		}
	}
	return s
}
