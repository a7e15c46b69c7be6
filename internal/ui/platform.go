package ui

import (
	"github.com/atotto/clipboard"
)

// copyToClipboardFn is the active clipboard implementation. Tests replace it via
// StubPlatformActions.
var copyToClipboardFn = clipboard.WriteAll

// CopyToClipboard copies text to the system clipboard.
func CopyToClipboard(text string) error { return copyToClipboardFn(text) }

// StubPlatformActions records clipboard writes instead of performing them and returns
// a restore function.
func StubPlatformActions(copied *[]string) (restore func()) {
	orig := copyToClipboardFn
	copyToClipboardFn = func(text string) error {
		if copied != nil {
			*copied = append(*copied, text)
		}
		return nil
	}
	return func() { copyToClipboardFn = orig }
}
