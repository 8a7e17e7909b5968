package agentkit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type searchInput struct {
	Query string   `json:"query" desc:"Search query" required:"true"`
	Limit *int     `json:"limit,omitempty" desc:"Max results"`
	Sort  string   `json:"sort,omitempty" enum:"asc,desc"`
	Tags  []string `json:"tags,omitempty"`
	Exact bool     `json:"exact"`
}

func decodeSchema(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var schema map[string]any
	require.NoError(t, json.Unmarshal(raw, &schema))
	return schema
}

func TestSchemaForStruct(t *testing.T) {
	raw, err := SchemaFor[searchInput]()
	require.NoError(t, err)

	schema := decodeSchema(t, raw)
	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)

	query := props["query"].(map[string]any)
	assert.Equal(t, "string", query["type"])
	assert.Equal(t, "Search query", query["description"])

	limit := props["limit"].(map[string]any)
	assert.Equal(t, "integer", limit["type"])

	sort := props["sort"].(map[string]any)
	assert.ElementsMatch(t, []any{"asc", "desc"}, sort["enum"])

	tags := props["tags"].(map[string]any)
	assert.Equal(t, "array", tags["type"])
	assert.Equal(t, "string", tags["items"].(map[string]any)["type"])

	// required: explicit tag plus non-pointer fields without omitempty.
	assert.ElementsMatch(t, []any{"query", "exact"}, schema["required"])
}

type nestedInput struct {
	Where searchInput    `json:"where"`
	Meta  map[string]int `json:"meta,omitempty"`
}

func TestSchemaForNestedStruct(t *testing.T) {
	raw, err := SchemaFor[nestedInput]()
	require.NoError(t, err)

	schema := decodeSchema(t, raw)
	props := schema["properties"].(map[string]any)

	where := props["where"].(map[string]any)
	assert.Equal(t, "object", where["type"])
	assert.Contains(t, where["properties"], "query")

	meta := props["meta"].(map[string]any)
	assert.Equal(t, "object", meta["type"])
}

func TestSchemaForEmptyStruct(t *testing.T) {
	raw, err := SchemaFor[struct{}]()
	require.NoError(t, err)

	schema := decodeSchema(t, raw)
	assert.Equal(t, "object", schema["type"])
	assert.Empty(t, schema["required"])
}

func TestSchemaForNonStruct(t *testing.T) {
	_, err := SchemaFor[string]()
	require.Error(t, err)
	assert.True(t, IsUserInput(err))

	_, err = SchemaFor[[]int]()
	require.Error(t, err)
}

func TestSchemaForPointerToStruct(t *testing.T) {
	raw, err := SchemaFor[*searchInput]()
	require.NoError(t, err)
	assert.Equal(t, "object", decodeSchema(t, raw)["type"])
}

func TestMustSchemaForPanics(t *testing.T) {
	assert.Panics(t, func() { MustSchemaFor[int]() })
	assert.NotPanics(t, func() { MustSchemaFor[searchInput]() })
}
