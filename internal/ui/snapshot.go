package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

// SnapshotConfig configures a single-frame render without a terminal.
type SnapshotConfig struct {
	Width     int
	Height    int
	NoColor   bool
	StartKeys []string
	Keys      KeyMap
}

// NewSnapshotApp builds the root model at the configured size with the start keys
// applied.
func NewSnapshotApp(ws *Workspace, cfg SnapshotConfig) *AppModel {
	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	m := NewApp(ws, cfg.Keys, cfg.NoColor)
	next, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	if len(cfg.StartKeys) > 0 {
		next = ApplyKeys(next, ParseKeys(cfg.StartKeys))
	}
	return next.(*AppModel)
}

// RenderSnapshot renders one frame of the UI for ws.
func RenderSnapshot(ws *Workspace, cfg SnapshotConfig) string {
	m := NewSnapshotApp(ws, cfg)
	view := m.Render()
	if cfg.NoColor {
		view = ansi.Strip(view)
	}
	if cfg.Height > 0 {
		view = padSnapshotHeight(view, cfg.Height, cfg.Width)
	}
	return view
}

func padSnapshotHeight(view string, height, width int) string {
	if height <= 0 {
		return view
	}
	lines := strings.Split(strings.TrimRight(view, "\n"), "\n")
	if len(lines) >= height {
		return strings.Join(lines[:height], "\n")
	}
	padLine := " "
	if width > 1 {
		padLine = strings.Repeat(" ", width)
	}
	for len(lines) < height {
		lines = append(lines, padLine)
	}
	return strings.Join(lines, "\n")
}
