package debugger

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/statelens/internal/inspector"
)

func loadFixture(t *testing.T) *Session {
	t.Helper()
	data, err := os.ReadFile("testdata/session.json")
	require.NoError(t, err)
	s, err := LoadSession(data)
	require.NoError(t, err)
	return s
}

func TestLoadSession(t *testing.T) {
	s := loadFixture(t)

	assert.Equal(t, []string{"user", "list", "1"}, s.State.Keys())
	require.Len(t, s.Mutations, 3)
	assert.Equal(t, "push", s.Mutations[1].Method)
	assert.Equal(t, []string{"list", "items"}, s.Mutations[1].Path)
	assert.Equal(t, []string{"list", "items", "1", "done"}, s.Mutations[2].Path)
	require.Len(t, s.Mutations[0].Args, 1)
	assert.Equal(t, "true", s.Mutations[0].Args[0].JSON())

	require.Len(t, s.Renders, 2)
	assert.Equal(t, int64(1700000005000), s.Renders[1].Start.UnixMilli())
	assert.Equal(t, 12.0, s.Renders[1].Duration)
	assert.Equal(t, []string{"App", "Header", "App"}, s.Renders[0].Components)

	require.Len(t, s.StatePaths, 3)
	assert.Equal(t, "user.isLoggedIn", s.StatePaths[0].Path)
	assert.Equal(t, Component{ID: 2, Name: "Header", RenderCount: 1}, s.StatePaths[0].Components[0])
}

func TestLoadSessionBareState(t *testing.T) {
	s, err := LoadSession([]byte("a: 1\nb: [true]\n"))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":[true]}`, s.State.JSON())
	assert.Empty(t, s.Mutations)
	_, ok := s.LastMutationPath()
	assert.False(t, ok)
}

func TestLoadSessionInvalid(t *testing.T) {
	tests := map[string]string{
		"mutations not a list":    `{"state": {}, "mutations": {}}`,
		"mutation not an object":  `{"state": {}, "mutations": [1]}`,
		"bad mutation path":       `{"state": {}, "mutations": [{"path": true}]}`,
		"renders not a list":      `{"state": {}, "renders": "x"}`,
		"state paths not object":  `{"state": {}, "statePaths": []}`,
		"state path not a list":   `{"state": {}, "statePaths": {"a": 1}}`,
		"render change path type": `{"state": {}, "renders": [{"changes": [{"path": 3}]}]}`,
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSession([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidSession)
		})
	}

	_, err := LoadSession([]byte("  "))
	assert.Error(t, err)
}

func TestMutationPaths(t *testing.T) {
	s := loadFixture(t)

	paths := s.MutationPaths()
	require.Len(t, paths, 3)
	assert.True(t, paths[0].Equal(inspector.NewPath(inspector.Key("user"), inspector.Key("isLoggedIn"))))
	assert.True(t, paths[2].Equal(inspector.NewPath(
		inspector.Key("list"), inspector.Key("items"), inspector.Index(1), inspector.Key("done"))))

	last, ok := s.LastMutationPath()
	require.True(t, ok)
	assert.True(t, last.Equal(paths[2]))
}

func TestRecord(t *testing.T) {
	s := loadFixture(t)
	p := inspector.NewPath(inspector.Key("list"), inspector.Key("items"), inspector.Index(0), inspector.Key("title"))
	s.Record(p, inspector.String("bread"))

	require.Len(t, s.Mutations, 4)
	assert.Equal(t, Mutation{Method: "set", Path: []string{"list", "items", "0", "title"}, Args: []inspector.Value{inspector.String("bread")}}, s.Mutations[3])
	last, ok := s.LastMutationPath()
	require.True(t, ok)
	assert.True(t, last.Equal(p))
}
