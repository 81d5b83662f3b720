// Copyright (c) the luagent authors. All rights reserved.

package agent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffmm/luagent/agent"
)

func TestSchemaNode_Validate(t *testing.T) {
	personSchema := &agent.SchemaNode{
		Type: "object",
		Properties: map[string]*agent.SchemaNode{
			"name": {Type: "string"},
			"age":  {Type: "number"},
		},
		Required: []string{"name"},
	}

	tests := []struct {
		name    string
		schema  *agent.SchemaNode
		value   any
		wantErr string // substring, "" for success
	}{
		{
			name:   "valid object",
			schema: personSchema,
			value:  map[string]any{"name": "Alice", "age": float64(30)},
		},
		{
			name:    "missing required property",
			schema:  personSchema,
			value:   map[string]any{"age": float64(30)},
			wantErr: "name",
		},
		{
			name:   "optional property absent",
			schema: personSchema,
			value:  map[string]any{"name": "Alice"},
		},
		{
			name:   "optional property null is accepted",
			schema: personSchema,
			value:  map[string]any{"name": "Alice", "age": nil},
		},
		{
			name:    "required property null fails as missing",
			schema:  personSchema,
			value:   map[string]any{"name": nil, "age": float64(30)},
			wantErr: "missing required property 'name'",
		},
		{
			name: "property type mismatch names expected type",
			schema: &agent.SchemaNode{
				Type:       "object",
				Properties: map[string]*agent.SchemaNode{"age": {Type: "number"}},
			},
			value:   map[string]any{"age": "thirty"},
			wantErr: "number",
		},
		{
			name: "nested error prefixed with property name",
			schema: &agent.SchemaNode{
				Type: "object",
				Properties: map[string]*agent.SchemaNode{
					"address": {
						Type:       "object",
						Properties: map[string]*agent.SchemaNode{"city": {Type: "string"}},
						Required:   []string{"city"},
					},
				},
				Required: []string{"address"},
			},
			value:   map[string]any{"address": map[string]any{}},
			wantErr: "Property 'address': missing required property 'city'",
		},
		{
			name:    "array item error reported 1-based",
			schema:  &agent.SchemaNode{Type: "array", Items: &agent.SchemaNode{Type: "number"}},
			value:   []any{float64(1), float64(2), "three", float64(4)},
			wantErr: "Array item 3",
		},
		{
			name:   "array of valid items",
			schema: &agent.SchemaNode{Type: "array", Items: &agent.SchemaNode{Type: "number"}},
			value:  []any{float64(1), float64(2)},
		},
		{
			name:   "array without items schema accepts anything",
			schema: &agent.SchemaNode{Type: "array"},
			value:  []any{"a", float64(1), true},
		},
		{
			name:    "top-level type mismatch",
			schema:  &agent.SchemaNode{Type: "object"},
			value:   "not an object",
			wantErr: "expected object, got string",
		},
		{
			name:   "extra properties are never rejected",
			schema: personSchema,
			value:  map[string]any{"name": "Alice", "hobby": "chess"},
		},
		{
			name:   "string scalar",
			schema: &agent.SchemaNode{Type: "string"},
			value:  "hi",
		},
		{
			name:    "boolean mismatch",
			schema:  &agent.SchemaNode{Type: "boolean"},
			value:   "true",
			wantErr: "boolean",
		},
		{
			name:   "integer accepts whole numbers",
			schema: &agent.SchemaNode{Type: "integer"},
			value:  float64(7),
		},
		{
			name:   "nil schema accepts anything",
			schema: nil,
			value:  map[string]any{"whatever": true},
		},
		{
			name:    "null value mismatch reports null",
			schema:  &agent.SchemaNode{Type: "string"},
			value:   nil,
			wantErr: "got null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.schema.Validate(tt.value)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSchemaNode_ValidateShortCircuits(t *testing.T) {
	// Two failures present; only the first (sorted by property name) is
	// reported.
	schema := &agent.SchemaNode{
		Type: "object",
		Properties: map[string]*agent.SchemaNode{
			"alpha": {Type: "string"},
			"beta":  {Type: "string"},
		},
	}
	err := schema.Validate(map[string]any{"alpha": 1, "beta": 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Property 'alpha'")
	assert.NotContains(t, err.Error(), "beta")
}

func TestSchemaFor_Struct(t *testing.T) {
	type args struct {
		Location string   `json:"location" jsonschema:"description=City name,required"`
		Unit     string   `json:"unit"     jsonschema:"enum=celsius|fahrenheit"`
		Days     int      `json:"days"`
		Detailed bool     `json:"detailed"`
		Tags     []string `json:"tags"`
		Skipped  string   `json:"-"`
	}

	schema := agent.SchemaFor[args]()
	require.NotNil(t, schema)
	assert.Equal(t, "object", schema.Type)
	assert.Equal(t, []string{"location"}, schema.Required)

	require.Contains(t, schema.Properties, "location")
	assert.Equal(t, "string", schema.Properties["location"].Type)
	assert.Equal(t, "City name", schema.Properties["location"].Description)

	require.Contains(t, schema.Properties, "unit")
	assert.Equal(t, []string{"celsius", "fahrenheit"}, schema.Properties["unit"].Enum)

	assert.Equal(t, "integer", schema.Properties["days"].Type)
	assert.Equal(t, "boolean", schema.Properties["detailed"].Type)

	require.Contains(t, schema.Properties, "tags")
	assert.Equal(t, "array", schema.Properties["tags"].Type)
	require.NotNil(t, schema.Properties["tags"].Items)
	assert.Equal(t, "string", schema.Properties["tags"].Items.Type)

	assert.NotContains(t, schema.Properties, "Skipped")
}

func TestSchemaFor_Nested(t *testing.T) {
	type inner struct {
		City string `json:"city" jsonschema:"required"`
	}
	type outer struct {
		Address inner `json:"address"`
	}

	schema := agent.SchemaFor[outer]()
	require.Contains(t, schema.Properties, "address")
	addr := schema.Properties["address"]
	assert.Equal(t, "object", addr.Type)
	require.Contains(t, addr.Properties, "city")
	assert.Equal(t, []string{"city"}, addr.Required)
}

func TestSchemaFor_GeneratedSchemaValidates(t *testing.T) {
	type args struct {
		Name string  `json:"name" jsonschema:"required"`
		Age  float64 `json:"age"`
	}
	schema := agent.SchemaFor[args]()

	assert.NoError(t, schema.Validate(map[string]any{"name": "Bob", "age": float64(4)}))
	assert.Error(t, schema.Validate(map[string]any{"age": float64(4)}))
}
