package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntoContextRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		settings *Run
	}{
		{name: "empty", settings: &Run{}},
		{name: "with values", settings: &Run{NoColor: true, CanEdit: true, Highlight: "$.a", Expand: []string{"b"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := IntoContext(context.Background(), tt.settings)
			got, ok := FromContext(ctx)
			require.True(t, ok)
			assert.Same(t, tt.settings, got)
		})
	}
}

func TestFromContextMissing(t *testing.T) {
	tests := []struct {
		name string
		ctx  context.Context
	}{
		{name: "empty context", ctx: context.Background()},
		{name: "nil settings", ctx: IntoContext(context.Background(), nil)},
		{name: "wrong type", ctx: context.WithValue(context.Background(), contextKey{}, "nope")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromContext(tt.ctx)
			assert.False(t, ok)
			assert.Nil(t, got)
		})
	}
}

func TestFromContextOrDefault(t *testing.T) {
	assert.Equal(t, NewCliParams(), FromContextOrDefault(context.Background()))

	run := &Run{Theme: "light"}
	assert.Same(t, run, FromContextOrDefault(IntoContext(context.Background(), run)))
}
