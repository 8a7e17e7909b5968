package agentkit

import (
	"encoding/json"
	"reflect"
	"strings"
)

// EmptySchema is the parameters value for a tool that takes no input.
var EmptySchema = json.RawMessage(`{}`)

// SchemaFor generates a JSON Schema object for a struct type T by
// reflection. Field names come from json tags; struct tags refine the
// schema:
//
//	desc:"..."       property description
//	required:"true"  adds the field to the required list
//	enum:"a,b,c"     allowed values for a string field
//
// Non-pointer fields without an omitempty json option are also treated
// as required. The schema is captured once at tool registration time.
func SchemaFor[T any]() (json.RawMessage, error) {
	var zero T
	t := reflect.TypeOf(zero)
	if t == nil {
		return EmptySchema, nil
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, &ValidationError{
			Field:   "schema",
			Message: "tool input type must be a struct, got " + t.Kind().String(),
		}
	}

	node := structSchema(t)
	data, err := json.Marshal(node)
	if err != nil {
		return nil, &SerializationError{Message: "marshaling schema", Cause: err}
	}
	return data, nil
}

// MustSchemaFor is like SchemaFor but panics on error.
func MustSchemaFor[T any]() json.RawMessage {
	schema, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return schema
}

type schemaNode struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Enum        []any                  `json:"enum,omitempty"`
	Items       *schemaNode            `json:"items,omitempty"`
	Properties  map[string]*schemaNode `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
}

func structSchema(t reflect.Type) *schemaNode {
	node := &schemaNode{
		Type:       "object",
		Properties: map[string]*schemaNode{},
	}

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
		if desc := field.Tag.Get("desc"); desc != "" {
			prop.Description = desc
		}
		if enum := field.Tag.Get("enum"); enum != "" && prop.Type == "string" {
			for _, v := range strings.Split(enum, ",") {
				prop.Enum = append(prop.Enum, v)
			}
		}
		node.Properties[name] = prop

		required := field.Tag.Get("required") == "true"
		if !required && field.Type.Kind() != reflect.Ptr &&
			!strings.Contains(jsonTag, "omitempty") {
			required = true
		}
		if required {
			node.Required = append(node.Required, name)
		}
	}

	return node
}

func typeSchema(t reflect.Type) *schemaNode {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return &schemaNode{Type: "string"}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &schemaNode{Type: "integer"}

	case reflect.Float32, reflect.Float64:
		return &schemaNode{Type: "number"}

	case reflect.Bool:
		return &schemaNode{Type: "boolean"}

	case reflect.Slice, reflect.Array:
		return &schemaNode{Type: "array", Items: typeSchema(t.Elem())}

	case reflect.Struct:
		return structSchema(t)

	case reflect.Map:
		// Maps become objects with no declared properties.
		return &schemaNode{Type: "object", Properties: map[string]*schemaNode{}}

	default:
		return &schemaNode{Type: "string"}
	}
}
