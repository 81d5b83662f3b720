// Copyright (c) the luagent authors. All rights reserved.

package agent

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

// SchemaNode is a recursive JSON-Schema descriptor. It serializes directly to
// the wire-format schema sent with tool declarations, and doubles as the
// validator for structured output payloads.
//
// Schemas must be acyclic; a schema that references itself is unsupported.
type SchemaNode struct {
	Type        string                 `json:"type,omitempty"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*SchemaNode `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
	Items       *SchemaNode            `json:"items,omitempty"`
	Enum        []string               `json:"enum,omitempty"`
}

// Validate checks v against the schema. A nil schema accepts every value.
// Validation short-circuits on the first failure; nested failures are
// prefixed with the property name or 1-based array position. Properties not
// declared in the schema are never rejected.
func (s *SchemaNode) Validate(v any) error {
	if s == nil || s.Type == "" {
		return nil
	}

	switch s.Type {
	case "object":
		m, ok := v.(map[string]any)
		if !ok {
			return typeMismatch("object", v)
		}
		for _, name := range slices.Sorted(maps.Keys(s.Properties)) {
			val, present := m[name]
			// An explicit null is treated like an absent property: it
			// satisfies an optional schema and fails a required one.
			if !present || val == nil {
				if slices.Contains(s.Required, name) {
					return fmt.Errorf("missing required property '%s'", name)
				}
				continue
			}
			if err := s.Properties[name].Validate(val); err != nil {
				return fmt.Errorf("Property '%s': %w", name, err)
			}
		}
		return nil

	case "array":
		arr, ok := v.([]any)
		if !ok {
			return typeMismatch("array", v)
		}
		if s.Items == nil {
			return nil
		}
		for i, item := range arr {
			if err := s.Items.Validate(item); err != nil {
				return fmt.Errorf("Array item %d: %w", i+1, err)
			}
		}
		return nil

	case "string":
		if _, ok := v.(string); !ok {
			return typeMismatch("string", v)
		}
		return nil

	case "boolean":
		if _, ok := v.(bool); !ok {
			return typeMismatch("boolean", v)
		}
		return nil

	case "number", "integer":
		if !isNumeric(v) {
			return typeMismatch(s.Type, v)
		}
		return nil

	default:
		// Unknown type names are trusted and not validated structurally.
		return nil
	}
}

func typeMismatch(expected string, v any) error {
	return fmt.Errorf("expected %s, got %s", expected, jsonTypeName(v))
}

// jsonTypeName reports the JSON type of a decoded value for error messages.
func jsonTypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func isNumeric(v any) bool {
	switch v.(type) {
	case float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return true
	}
	return false
}

// SchemaFor builds a [SchemaNode] from a Go struct type using reflection.
// Supports struct tags: json (field name), jsonschema (description, required,
// enum). Used by [NewTypedTool] to declare tool parameters.
func SchemaFor[T any]() *SchemaNode {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return &SchemaNode{Type: "object"}
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return schemaForType(t)
}

func schemaForType(t reflect.Type) *SchemaNode {
	switch t.Kind() {
	case reflect.String:
		return &SchemaNode{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &SchemaNode{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &SchemaNode{Type: "number"}
	case reflect.Bool:
		return &SchemaNode{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		return &SchemaNode{Type: "array", Items: schemaForType(t.Elem())}
	case reflect.Ptr:
		return schemaForType(t.Elem())
	case reflect.Struct:
		return schemaForStruct(t)
	case reflect.Map:
		return &SchemaNode{Type: "object"}
	default:
		return &SchemaNode{Type: "string"}
	}
}

func schemaForStruct(t reflect.Type) *SchemaNode {
	properties := make(map[string]*SchemaNode)
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
		name := field.Name
		if jsonTag != "" {
			parts := strings.SplitN(jsonTag, ",", 2)
			if parts[0] != "" {
				name = parts[0]
			}
		}

		prop := schemaForType(field.Type)

		if jsTag := field.Tag.Get("jsonschema"); jsTag != "" {
			for _, part := range strings.Split(jsTag, ",") {
				kv := strings.SplitN(part, "=", 2)
				key := strings.TrimSpace(kv[0])
				val := ""
				if len(kv) == 2 {
					val = strings.TrimSpace(kv[1])
				}
				switch key {
				case "description":
					prop.Description = val
				case "required":
					required = append(required, name)
				case "enum":
					for _, ev := range strings.Split(val, "|") {
						prop.Enum = append(prop.Enum, strings.TrimSpace(ev))
					}
				}
			}
		}

		properties[name] = prop
	}

	return &SchemaNode{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}
