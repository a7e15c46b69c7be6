package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/statelens/internal/inspector"
)

func TestLoadJSON(t *testing.T) {
	t.Run("object keeps key order", func(t *testing.T) {
		got, format, err := LoadData(`{"zeta": 1, "alpha": {"y": true, "x": null}}`)
		require.NoError(t, err)
		assert.Equal(t, FormatJSON, format)
		require.Len(t, got, 1)
		assert.Equal(t, []string{"zeta", "alpha"}, got[0].Keys())
		alpha, ok := got[0].Get("alpha")
		require.True(t, ok)
		assert.Equal(t, []string{"y", "x"}, alpha.Keys())
	})

	t.Run("array", func(t *testing.T) {
		got, err := LoadValue(`[1, "two", 3.5]`)
		require.NoError(t, err)
		assert.Equal(t, `[1,"two",3.5]`, got.JSON())
	})

	t.Run("pretty-printed document with one-line items", func(t *testing.T) {
		input := "{\n  \"todos\": [\n    {\"title\": \"a\"},\n    {\"title\": \"b\"},\n    {\"title\": \"c\"}\n  ]\n}"
		assert.Equal(t, FormatJSON, Detect(input))
		got, err := LoadValue(input)
		require.NoError(t, err)
		assert.Equal(t, inspector.KindObject, got.Kind())
		assert.Equal(t, `{"todos":[{"title":"a"},{"title":"b"},{"title":"c"}]}`, got.JSON())
	})

	t.Run("invalid JSON falls back to YAML", func(t *testing.T) {
		got, format, err := LoadData(`{invalid}`)
		require.NoError(t, err)
		assert.Equal(t, FormatYAML, format)
		require.Len(t, got, 1)
		// YAML reads {invalid} as a flow mapping with a null value.
		assert.Equal(t, `{"invalid":null}`, got[0].JSON())
	})
}

func TestLoadYAML(t *testing.T) {
	t.Run("mapping order and scalar types", func(t *testing.T) {
		got, err := LoadValue("name: test\nvalue: 42\nratio: 0.5\nok: true\nnothing: ~\nwhen: 2024-01-02")
		require.NoError(t, err)
		assert.Equal(t, `{"name":"test","value":42,"ratio":0.5,"ok":true,"nothing":null,"when":"2024-01-02"}`, got.JSON())
	})

	t.Run("aliases resolve", func(t *testing.T) {
		got, err := LoadValue("base: &b {x: 1}\ncopy: *b")
		require.NoError(t, err)
		assert.Equal(t, `{"base":{"x":1},"copy":{"x":1}}`, got.JSON())
	})

	t.Run("list items", func(t *testing.T) {
		got, format, err := LoadData("- name: a\n- name: b")
		require.NoError(t, err)
		assert.Equal(t, FormatYAML, format)
		require.Len(t, got, 1)
		assert.Equal(t, 2, got[0].Len())
	})

	t.Run("multiple documents", func(t *testing.T) {
		got, err := LoadValue("name: Alice\n---\nname: Bob\n---\nname: Charlie")
		require.NoError(t, err)
		assert.Equal(t, inspector.KindArray, got.Kind())
		assert.Equal(t, `[{"name":"Alice"},{"name":"Bob"},{"name":"Charlie"}]`, got.JSON())
	})
}

func TestLoadNDJSON(t *testing.T) {
	input := "{\"id\": 1}\r\n\nthis is a plain string line\n{\"id\": 2}\n{\"id\": 3}"
	got, format, err := LoadData(input)
	require.NoError(t, err)
	assert.Equal(t, FormatNDJSON, format)
	require.Len(t, got, 4)
	assert.Equal(t, `{"id":1}`, got[0].JSON())
	assert.Equal(t, inspector.KindString, got[1].Kind())
	assert.Equal(t, "this is a plain string line", got[1].StringValue())
}

func TestLoadTOML(t *testing.T) {
	input := `title = "Sample"

[server]
port = 8080
host = "localhost"

[[users]]
name = "Alice"
roles = ["admin", "user"]`

	got, format, err := LoadData(input)
	require.NoError(t, err)
	assert.Equal(t, FormatTOML, format)
	require.Len(t, got, 1)
	assert.Equal(t, `{"server":{"host":"localhost","port":8080},"title":"Sample","users":[{"name":"Alice","roles":["admin","user"]}]}`, got[0].JSON())

	_, _, err = LoadData("[server]\nhost = ")
	assert.ErrorContains(t, err, "invalid TOML")
}

func TestIsLikelyTOML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "section header", input: "[server]\nhost = \"localhost\"", want: true},
		{name: "array of tables", input: "[[items]]\nname = \"item1\"", want: true},
		{name: "key-value assignments", input: "name = \"test\"\nvalue = 42\nenabled = true", want: true},
		{name: "quoted and dotted keys", input: "\"table name\" = \"value\"\ndatabase.port = 5432", want: true},
		{name: "dotted section header", input: "[server.\"host.name\"]\nvalue = \"test\"", want: true},
		{name: "YAML syntax", input: "name: test\nvalue: 42", want: false},
		{name: "JSON object", input: `{"name": "test"}`, want: false},
		{name: "JSON array", input: `[1, 2, 3]`, want: false},
		{name: "YAML list", input: "- item1\n- item2", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isLikelyTOML(tt.input), "isLikelyTOML(%q)", tt.input)
		})
	}
}

func TestDetect(t *testing.T) {
	tests := map[string]Format{
		`{"a": 1}`:                          FormatJSON,
		`[1, 2]`:                            FormatJSON,
		"{\"a\":1}\n{\"a\":2}":              FormatNDJSON,
		"[\n  {\"a\": 1},\n  {\"a\": 2}\n]": FormatJSON,
		"a: 1":                              FormatYAML,
		"---\na: 1":                         FormatYAML,
		"a = 1":                             FormatTOML,
		"plain words":                       FormatYAML,
	}
	for input, want := range tests {
		assert.Equal(t, want, Detect(input), input)
	}
}

func TestLoadDataEmpty(t *testing.T) {
	_, _, err := LoadData("  \n ")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("b: 1\na: 2\n"), 0o600))

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, got.Keys())

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("a: [1"), 0o600))
	_, err = LoadFile(bad)
	assert.ErrorContains(t, err, "bad.json")
}

func TestLoadReader(t *testing.T) {
	got, err := LoadReader(strings.NewReader(`{"x": [true]}`))
	require.NoError(t, err)
	assert.Equal(t, `{"x":[true]}`, got.JSON())
}
