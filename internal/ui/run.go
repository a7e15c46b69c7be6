package ui

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/term"
)

// RunConfig configures an interactive session.
type RunConfig struct {
	Width     int
	Height    int
	NoColor   bool
	StartKeys []string
	Keys      KeyMap
}

// Run starts the interactive UI and returns the final root model. A width or height
// of 0 is taken from the terminal, falling back to 80x24.
func Run(ws *Workspace, cfg RunConfig, opts ...tea.ProgramOption) (*AppModel, error) {
	m := NewApp(ws, cfg.Keys, cfg.NoColor)

	if cfg.Width > 0 || cfg.Height > 0 {
		runW, runH := cfg.Width, cfg.Height
		if runW <= 0 || runH <= 0 {
			if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
				if runW <= 0 {
					runW = w
				}
				if runH <= 0 {
					runH = h
				}
			}
		}
		if runW <= 0 {
			runW = 80
		}
		if runH <= 0 {
			runH = 24
		}
		m.Update(tea.WindowSizeMsg{Width: runW, Height: runH})
		opts = append(opts, tea.WithWindowSize(runW, runH))
	}

	var model tea.Model = m
	if len(cfg.StartKeys) > 0 {
		model = ApplyKeys(model, ParseKeys(cfg.StartKeys))
	}

	ws.Log.V(1).Info("starting interactive session", "source", ws.Source)
	prog := tea.NewProgram(model, opts...)
	final, err := prog.Run()
	if err != nil {
		return m, fmt.Errorf("run ui: %w", err)
	}
	if fm, ok := final.(*AppModel); ok && fm != nil {
		return fm, nil
	}
	return m, nil
}
