package config_test

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tswift/pkg/config"
)

// schemaNode is the subset of JSON Schema used by schema.json.
type schemaNode struct {
	Type        string                 `json:"type"`
	Ref         string                 `json:"$ref"`
	Enum        []any                  `json:"enum"`
	Properties  map[string]*schemaNode `json:"properties"`
	Items       *schemaNode            `json:"items"`
	Definitions map[string]*schemaNode `json:"definitions"`
}

func loadSchema(t *testing.T) *schemaNode {
	t.Helper()

	var root schemaNode
	require.NoError(t, json.Unmarshal(config.Schema(), &root))

	return &root
}

func (s *schemaNode) resolve(root *schemaNode) *schemaNode {
	if s.Ref == "" {
		return s
	}

	return root.Definitions[strings.TrimPrefix(s.Ref, "#/definitions/")]
}

// typeToSchemaType maps a Go field type to its JSON Schema type name.
func typeToSchemaType(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice:
		return "array"
	case reflect.Struct:
		return "object"
	default:
		return ""
	}
}

// compareStruct walks a config struct by its yaml tags and checks the schema
// declares exactly those keys with matching types.
func compareStruct(t *testing.T, root, node *schemaNode, typ reflect.Type, path string) {
	t.Helper()

	seen := make(map[string]bool)

	for i := range typ.NumField() {
		field := typ.Field(i)

		key := strings.Split(field.Tag.Get("yaml"), ",")[0]
		if key == "" || key == "-" {
			continue
		}

		seen[key] = true

		prop, ok := node.Properties[key]
		if !assert.True(t, ok, "schema is missing %s.%s", path, key) {
			continue
		}

		prop = prop.resolve(root)

		if prop.Enum == nil {
			assert.Equal(t, typeToSchemaType(field.Type), prop.Type, "type of %s.%s", path, key)
		}

		switch field.Type.Kind() {
		case reflect.Struct:
			compareStruct(t, root, prop, field.Type, path+"."+key)
		case reflect.Slice:
			if field.Type.Elem().Kind() == reflect.Struct {
				require.NotNil(t, prop.Items, "items of %s.%s", path, key)
				compareStruct(t, root, prop.Items.resolve(root), field.Type.Elem(), path+"."+key+"[]")
			}
		default:
		}
	}

	for key := range node.Properties {
		assert.True(t, seen[key], "schema declares %s.%s which the config does not have", path, key)
	}
}

func TestSchemaMatchesConfigStruct(t *testing.T) {
	t.Parallel()

	root := loadSchema(t)

	compareStruct(t, root, root, reflect.TypeFor[config.Config](), "config")
}
