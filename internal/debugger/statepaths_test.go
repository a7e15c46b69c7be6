package debugger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregateComponents(t *testing.T) {
	entries := AggregateComponents(loadFixture(t).StatePaths)

	assert.Equal(t, []ComponentEntry{
		{ID: 1, Name: "App", RenderCount: 2, Paths: []string{"user.isLoggedIn", "list.filter"}},
		{ID: 2, Name: "Header", RenderCount: 1, Paths: []string{"user.isLoggedIn"}},
		{ID: 3, Name: "TodoList", RenderCount: 0, Paths: []string{"list.items", "list.filter"}},
	}, entries)

	assert.Equal(t, "App (2)", entries[0].Label())
	assert.Equal(t, "TodoList", entries[2].Label())
}

func TestFilterComponents(t *testing.T) {
	entries := AggregateComponents(loadFixture(t).StatePaths)

	names := func(es []ComponentEntry) []string {
		out := make([]string, len(es))
		for i, e := range es {
			out[i] = e.Name
		}
		return out
	}
	assert.Equal(t, []string{"App", "Header", "TodoList"}, names(FilterComponents(entries, "", "")))
	assert.Equal(t, []string{"App", "TodoList"}, names(FilterComponents(entries, "filter", "")))
	assert.Equal(t, []string{"TodoList"}, names(FilterComponents(entries, "list", "TODO")))
	assert.Empty(t, FilterComponents(entries, "Filter", ""))
}

func TestCountStatePaths(t *testing.T) {
	assert.Equal(t, Counts{StatePaths: 3, Components: 3}, CountStatePaths(loadFixture(t).StatePaths))
	assert.Equal(t, Counts{}, CountStatePaths(nil))
}
