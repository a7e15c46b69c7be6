package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/oakwood-commons/statelens/internal/inspector"
)

const doc = `{"user":{"name":"ada","nick":"a","odd key":1},"tags":["x","y"],"count":2}`

func texts(cs []Completion) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Text
	}
	return out
}

func TestPaths(t *testing.T) {
	v := inspector.FromJSON(gjson.Parse(doc))

	tests := []struct {
		partial string
		want    []string
	}{
		{partial: "", want: []string{"user", "tags", "count"}},
		{partial: "c", want: []string{"count"}},
		{partial: "user.", want: []string{"user.name", "user.nick", `user["odd key"]`}},
		{partial: "user.n", want: []string{"user.name", "user.nick"}},
		{partial: "$.user.na", want: []string{"user.name"}},
		{partial: "tags[", want: []string{"tags[0]", "tags[1]"}},
		{partial: "count.", want: nil},
		{partial: "missing.", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.partial, func(t *testing.T) {
			got := Paths(v, tt.partial)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, texts(got))
		})
	}
}

func TestPathsDetail(t *testing.T) {
	v := inspector.FromJSON(gjson.Parse(doc))
	got := Paths(v, "")
	require.Len(t, got, 3)
	assert.Equal(t, CompletionField, got[0].Kind)
	assert.Equal(t, "object, 3 keys", got[0].Detail)
	assert.Equal(t, "array, 2 items", got[1].Detail)
	assert.Equal(t, "number", got[2].Detail)

	idx := Paths(v, "tags[")
	require.NotEmpty(t, idx)
	assert.Equal(t, CompletionIndex, idx[0].Kind)
	assert.Equal(t, "string", idx[0].Detail)
}

func TestPathsArrayRoot(t *testing.T) {
	v := inspector.FromJSON(gjson.Parse(`[{"a":1}]`))
	assert.Equal(t, []string{"[0]"}, texts(Paths(v, "")))
	assert.Equal(t, []string{"[0].a"}, texts(Paths(v, "[0].")))
}
