package scholar

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// SchemaFor builds a JSON Schema object for the struct type T.
//
// Field names come from json tags. Additional tags refine a property:
//
//	desc:"..."       description
//	required:"true"  listed in the object's required set
//	enum:"a,b"       allowed string values
//	min:"1" max:"9"  numeric bounds
//	minLength:"1"    minimum string length
//	default:"5"      default value, parsed according to the field type
//
// Non-struct types produce an empty object schema.
func SchemaFor[T any]() json.RawMessage {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	schema := map[string]any{"type": "object", "properties": map[string]any{}}
	if t.Kind() == reflect.Struct {
		schema = objectSchema(t)
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return json.RawMessage(`{"type":"object","properties":{}}`)
	}
	return data
}

func objectSchema(t reflect.Type) map[string]any {
	props := make(map[string]any)
	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}
		name := strings.Split(jsonTag, ",")[0]
		if name == "" {
			name = field.Name
		}

		prop := typeSchema(field.Type)
		applyTags(prop, field)
		props[name] = prop

		if field.Tag.Get("required") == "true" {
			required = append(required, name)
		}
	}

	schema := map[string]any{"type": "object", "properties": props}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func typeSchema(t reflect.Type) map[string]any {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return map[string]any{"type": "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]any{"type": "integer"}
	case reflect.Float32, reflect.Float64:
		return map[string]any{"type": "number"}
	case reflect.Bool:
		return map[string]any{"type": "boolean"}
	case reflect.Slice, reflect.Array:
		return map[string]any{"type": "array", "items": typeSchema(t.Elem())}
	case reflect.Struct:
		return objectSchema(t)
	case reflect.Map:
		return map[string]any{"type": "object"}
	default:
		return map[string]any{"type": "string"}
	}
}

func applyTags(prop map[string]any, field reflect.StructField) {
	if desc := field.Tag.Get("desc"); desc != "" {
		prop["description"] = desc
	}
	if enum := field.Tag.Get("enum"); enum != "" {
		prop["enum"] = strings.Split(enum, ",")
	}
	if v, ok := parseNumber(field.Tag.Get("min")); ok {
		prop["minimum"] = v
	}
	if v, ok := parseNumber(field.Tag.Get("max")); ok {
		prop["maximum"] = v
	}
	if n, err := strconv.Atoi(field.Tag.Get("minLength")); err == nil {
		prop["minLength"] = n
	}
	if def := field.Tag.Get("default"); def != "" {
		prop["default"] = parseDefault(def, prop["type"])
	}
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

func parseDefault(s string, typ any) any {
	switch typ {
	case "integer":
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return n
		}
	case "number":
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case "boolean":
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return s
}
