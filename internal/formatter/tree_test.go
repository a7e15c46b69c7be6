package formatter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/oakwood-commons/statelens/internal/debugger"
	"github.com/oakwood-commons/statelens/internal/inspector"
)

func parse(t *testing.T, doc string) inspector.Value {
	t.Helper()
	require.True(t, gjson.Valid(doc), doc)
	return inspector.FromJSON(gjson.Parse(doc))
}

func TestFormatAsTree(t *testing.T) {
	v := parse(t, `{"name":"alice","server":{"port":8080,"tags":["a","b"]},"items":[{"id":1},{"id":2}],"empty":{}}`)
	out := FormatAsTree(v, TreeOptions{})

	assert.True(t, strings.HasPrefix(out, "."))
	assert.Contains(t, out, "name: alice")
	assert.Contains(t, out, "port: 8080")
	assert.Contains(t, out, "tags: [a, b]")
	assert.Contains(t, out, "[1]")
	assert.Contains(t, out, "empty: {}")
	assert.Less(t, strings.Index(out, "name"), strings.Index(out, "server"), "document order is kept")
}

func TestFormatAsTreeOptions(t *testing.T) {
	v := parse(t, `{"long":"abcdefghij","nums":[1,2,3,4,5],"deep":{"a":{"b":1}}}`)

	out := FormatAsTree(v, TreeOptions{MaxStringLen: 6})
	assert.Contains(t, out, "long: abc...")
	assert.Contains(t, out, "nums: [5 items]")

	out = FormatAsTree(v, TreeOptions{ExpandArrays: true, MaxDepth: 1})
	assert.Contains(t, out, "[4]")
	assert.Contains(t, out, "a: ...")

	out = FormatAsTree(v, TreeOptions{NoValues: true})
	assert.NotContains(t, out, "abcdefghij")
}

func TestFormatAsTreeScalarRoot(t *testing.T) {
	assert.Contains(t, FormatAsTree(inspector.Number(3), TreeOptions{}), "3")
}

func TestComponentTree(t *testing.T) {
	entries := []debugger.ComponentEntry{
		{ID: 1, Name: "App", RenderCount: 2, Paths: []string{"user.isLoggedIn", "list.filter"}},
		{ID: 3, Name: "TodoList", Paths: []string{"list.items"}},
	}
	out := ComponentTree(entries)
	assert.Contains(t, out, "#1 App (2)")
	assert.Contains(t, out, "list.filter")
	assert.Contains(t, out, "#3 TodoList")
}

func TestStatePathTree(t *testing.T) {
	out := StatePathTree([]debugger.StatePath{
		{Path: "list.items", Components: []debugger.Component{{ID: 3, Name: "TodoList"}}},
	})
	assert.Contains(t, out, "list.items")
	assert.Contains(t, out, "#3 TodoList")
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, ComponentHeader, ComponentRows([]debugger.ComponentEntry{
		{ID: 1, Name: "App", RenderCount: 2, Paths: []string{"a", "b"}},
	}))
	out := buf.String()
	assert.Contains(t, out, "COMPONENT")
	assert.Contains(t, out, "App (2)")
	assert.Contains(t, out, "a, b")
	assert.NotContains(t, out, "|")
}

func TestFormatYAML(t *testing.T) {
	v := parse(t, `{"z":1,"a":{"text":"one\ntwo","ok":true,"none":null,"ratio":0.5},"list":["x"]}`)
	out, err := FormatYAML(v, YAMLFormatOptions{LiteralBlockStrings: true})
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "z: 1"), strings.Index(out, "a:"))
	assert.Contains(t, out, "text: |-")
	assert.Contains(t, out, "ok: true")
	assert.Contains(t, out, "none: null")
	assert.Contains(t, out, "ratio: 0.5")
	assert.Contains(t, out, "- x")
}
