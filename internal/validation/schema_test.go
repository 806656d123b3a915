package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"$schema": "https://json-schema.org/draft/2020-12/schema",
	"type": "object",
	"required": ["items"],
	"properties": {
		"items": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["item_id", "stack_limit"],
				"properties": {
					"item_id": {"type": "integer", "minimum": 1},
					"stack_limit": {"type": "integer", "minimum": 1},
					"inventory_type": {"enum": ["Gear", "Misc"]}
				}
			}
		}
	}
}`

func writeSchema(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.schema.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSchema_Validate(t *testing.T) {
	schema, err := LoadSchema(writeSchema(t, testSchema))
	require.NoError(t, err)

	tests := []struct {
		name      string
		doc       string
		locations []string
	}{
		// CASE 1: Best Case
		{"valid", `{"items": [{"item_id": 1, "stack_limit": 100, "inventory_type": "Misc"}]}`, nil},

		// CASE 2: Boundary Case
		{"empty item list", `{"items": []}`, nil},

		// CASE 4: Invalid Case
		{"missing root field", `{}`, []string{"/"}},
		{"bad enum", `{"items": [{"item_id": 1, "stack_limit": 1, "inventory_type": "Hats"}]}`, []string{"/items/0/inventory_type"}},
		{
			"several violations",
			`{"items": [{"item_id": 0, "stack_limit": 1}, {"item_id": 2, "stack_limit": "ten"}]}`,
			[]string{"/items/0/item_id", "/items/1/stack_limit"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schema.Validate([]byte(tt.doc))

			if tt.locations == nil {
				assert.NoError(t, err)
				return
			}
			var schemaErr *SchemaError
			require.ErrorAs(t, err, &schemaErr)
			var got []string
			for _, v := range schemaErr.Violations {
				got = append(got, v.Location)
				assert.NotEmpty(t, v.Keyword)
			}
			assert.ElementsMatch(t, tt.locations, got)
			assert.Contains(t, err.Error(), "schema validation failed")
		})
	}
}

func TestSchema_MalformedDocument(t *testing.T) {
	schema, err := LoadSchema(writeSchema(t, testSchema))
	require.NoError(t, err)

	err = schema.Validate([]byte(`{not json`))

	require.Error(t, err)
	var schemaErr *SchemaError
	assert.NotErrorAs(t, err, &schemaErr)
}

func TestLoadSchema(t *testing.T) {
	t.Run("cached by path", func(t *testing.T) {
		path := writeSchema(t, testSchema)

		first, err := LoadSchema(path)
		require.NoError(t, err)
		second, err := LoadSchema(path)
		require.NoError(t, err)

		assert.Same(t, first, second)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSchema(filepath.Join(t.TempDir(), "missing.json"))
		assert.ErrorContains(t, err, "failed to read schema")
	})

	t.Run("invalid schema", func(t *testing.T) {
		_, err := LoadSchema(writeSchema(t, `{"type": 12}`))
		assert.ErrorContains(t, err, "failed to compile schema")
	})

	t.Run("repository item schema", func(t *testing.T) {
		schema, err := LoadSchema("../../configs/schemas/items.schema.json")
		require.NoError(t, err)

		data, err := os.ReadFile("../../configs/items/items.json")
		require.NoError(t, err)
		assert.NoError(t, schema.Validate(data))
	})
}
