package debugger

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPathsAndUnique(t *testing.T) {
	changes := []Change{{Path: []string{"a", "b"}}, {Path: []string{"c"}}, {Path: []string{"a", "b"}}}
	assert.Equal(t, []string{"a.b", "c", "a.b"}, ExtractPaths(changes))
	assert.Equal(t, []string{"a.b", "c"}, Unique(ExtractPaths(changes)))
	assert.Empty(t, ExtractPaths(nil))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "07:05:09", FormatClock(time.Date(2024, 3, 1, 7, 5, 9, 0, time.UTC)))
	assert.Equal(t, "23:59:00", FormatClock(time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC)))
}

func TestFilterRenders(t *testing.T) {
	renders := loadFixture(t).Renders

	tests := []struct {
		name      string
		path      string
		component string
		want      int
	}{
		{name: "no filters", want: 2},
		{name: "path substring", path: "items", want: 1},
		{name: "path is case-sensitive", path: "ITEMS", want: 0},
		{name: "component ignores case", component: "todo", want: 1},
		{name: "both filters", path: "user", component: "header", want: 1},
		{name: "filters must both match", path: "user", component: "todo", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, FilterRenders(renders, tt.path, tt.component), tt.want)
		})
	}
}

type matcherFunc func(map[string]interface{}) (bool, error)

func (f matcherFunc) Match(vars map[string]interface{}) (bool, error) { return f(vars) }

func TestWhereRenders(t *testing.T) {
	renders := loadFixture(t).Renders

	slow := matcherFunc(func(vars map[string]interface{}) (bool, error) {
		r := vars["render"].(map[string]interface{})
		return r["duration"].(float64) > 5, nil
	})
	got, err := WhereRenders(renders, slow)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"list.items", "list.items.1.done"}, got[0].Paths())

	all, err := WhereRenders(renders, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	boom := errors.New("boom")
	_, err = WhereRenders(renders, matcherFunc(func(map[string]interface{}) (bool, error) { return false, boom }))
	assert.ErrorIs(t, err, boom)
}

func TestRenderVars(t *testing.T) {
	r := loadFixture(t).Renders[0]
	vars := r.Vars()
	assert.Equal(t, 1700000000000.0, vars["start"])
	assert.Equal(t, 4.0, vars["duration"])
	assert.Equal(t, []interface{}{"user.isLoggedIn"}, vars["paths"])
	assert.Equal(t, []interface{}{"App", "Header", "App"}, vars["components"])
}
