package cel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/statelens/internal/inspector"
	"github.com/oakwood-commons/statelens/pkg/loader"
)

func TestEvaluate(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	state, err := loader.LoadValue(`{"user":{"name":"ada","tags":["a","b"]},"items":[{"done":true,"n":1},{"done":false,"n":2}]}`)
	require.NoError(t, err)

	tests := []struct {
		name string
		expr string
		want string
	}{
		{"field", "_.user.name", `"ada"`},
		{"index", "_.user.tags[1]", `"b"`},
		{"filter", "_.items.filter(x, x.done)", `[{"done":true,"n":1}]`},
		{"map", "_.items.map(x, x.n * 2.0)", `[2,4]`},
		{"size", "size(_.items)", `2`},
		{"string ext", "_.user.name.upperAscii()", `"ADA"`},
		{"map literal", `{"k": _.user.name}`, `{"k":"ada"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := eval.Evaluate(tt.expr, state)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.JSON())
		})
	}

	t.Run("compile error", func(t *testing.T) {
		_, err := eval.Evaluate("_.user.", state)
		assert.ErrorContains(t, err, "compilation error")
	})

	t.Run("missing key", func(t *testing.T) {
		_, err := eval.Evaluate("_.nope", state)
		assert.ErrorContains(t, err, "eval error")
	})

	t.Run("absent state", func(t *testing.T) {
		got, err := eval.Evaluate("_ == null", inspector.Value{})
		require.NoError(t, err)
		assert.Equal(t, "true", got.JSON())
	})
}

func TestPredicate(t *testing.T) {
	eval, err := NewEvaluator()
	require.NoError(t, err)

	render := map[string]interface{}{
		"start":      1700000000000.0,
		"duration":   12.0,
		"paths":      []interface{}{"list.items", "user.name"},
		"components": []interface{}{"App", "List"},
	}

	tests := []struct {
		expr string
		want bool
	}{
		{"render.duration > 5.0", true},
		{"render.duration < 5.0", false},
		{`"App" in render.components`, true},
		{`render.paths.exists(p, p.startsWith("user."))`, true},
		{`render.components.all(c, c.size() > 3)`, false},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			p, err := eval.Compile(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.expr, p.String())
			got, err := p.Match(map[string]interface{}{RenderVar: render})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("non-bool expression", func(t *testing.T) {
		_, err := eval.Compile("size(render.components)")
		assert.ErrorIs(t, err, ErrNotBool)
	})

	t.Run("dynamic non-bool result", func(t *testing.T) {
		p, err := eval.Compile("render.duration")
		require.NoError(t, err)
		_, err = p.Match(map[string]interface{}{RenderVar: render})
		assert.ErrorIs(t, err, ErrNotBool)
	})
}
