package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCliParams(t *testing.T) {
	got := NewCliParams()
	assert.Equal(t, &Run{
		EntryPointSettings: EntryPointSettings{FromCli: true},
		Expanded:           true,
		ExitOnError:        true,
	}, got)
}

func TestRunSource(t *testing.T) {
	tests := []struct {
		name string
		run  *Run
		want string
	}{
		{name: "nil", run: nil, want: "stdin"},
		{name: "no path", run: &Run{}, want: "stdin"},
		{name: "file", run: &Run{EntryPointSettings: EntryPointSettings{Path: "session.json"}}, want: "session.json"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.run.Source())
		})
	}
}
