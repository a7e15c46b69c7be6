package cmd

import (
	"os"
	"testing"

	"github.com/oakwood-commons/statelens/internal/ui"
)

func TestMain(m *testing.M) {
	restore := ui.StubPlatformActions(nil)
	code := m.Run()
	restore()
	os.Exit(code)
}
