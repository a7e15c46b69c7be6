// Package tui embeds the statelens session inspector in other programs.
//
// A host loads or builds a Session and either runs the interactive UI or renders a
// single frame:
//
//	s, _ := tui.Load(data)
//	out, _ := tui.RenderSnapshot(s, tui.Config{Width: 100, Height: 30, NoColor: true})
//	fmt.Println(out)
//
// Edits made in the UI are written back to s.State.
package tui

import (
	"fmt"
	"io"
	"os"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"golang.org/x/term"

	"github.com/oakwood-commons/statelens/internal/debugger"
	"github.com/oakwood-commons/statelens/internal/inspector"
	"github.com/oakwood-commons/statelens/internal/ui"
)

const defaultFallbackTermWidth = 120

// Session is a loaded debugging session: state, mutations, renders and state paths.
type Session = debugger.Session

// Config configures an embedded session.
type Config struct {
	Width   int
	Height  int
	NoColor bool

	// Collapsed starts with the root container closed.
	Collapsed bool
	CanEdit   bool
	// Highlight is a path expression (user.tags[0], $.user["odd key"]) that replaces
	// the default highlight of the last mutation.
	Highlight string
	// Expand lists path expressions that start expanded.
	Expand []string

	// StartKeys are sent before the first frame, e.g. "<Tab><Down>".
	StartKeys []string
	// Theme selects a built-in theme by name.
	Theme string
	// Keys overrides key bindings per action name (up, copy, quit, ...).
	Keys map[string][]string
	// Logger receives UI logs. Nil discards them.
	Logger *logr.Logger
}

// Load parses a session document (JSON, YAML or TOML). A document without a "state"
// key is the state itself.
func Load(data []byte) (*Session, error) {
	return debugger.LoadSession(data)
}

// FromValue wraps plain Go data (maps, slices, scalars) as a session with no history.
// Map keys are sorted.
func FromValue(root interface{}) *Session {
	return &Session{State: inspector.FromInterface(root)}
}

// State returns the session state as plain Go data.
func State(s *Session) interface{} {
	return s.State.Interface()
}

func prepare(s *Session, cfg Config) (*ui.Workspace, ui.KeyMap, error) {
	if s == nil {
		return nil, nil, fmt.Errorf("nil session")
	}
	if err := applyTheme(cfg.Theme); err != nil {
		return nil, nil, err
	}
	keys, err := ui.NewKeyMap(cfg.Keys)
	if err != nil {
		return nil, nil, err
	}

	settings := ui.InspectorSettings{Expanded: !cfg.Collapsed, CanEdit: cfg.CanEdit}
	if cfg.Highlight != "" {
		p, err := inspector.ParsePath(s.State, cfg.Highlight)
		if err != nil {
			return nil, nil, err
		}
		settings.Highlight = &p
	}
	for _, expr := range cfg.Expand {
		p, err := inspector.ParsePath(s.State, expr)
		if err != nil {
			return nil, nil, err
		}
		settings.Expand = append(settings.Expand, p)
	}
	return ui.NewWorkspace(s, "embedded", settings, cfg.Logger), keys, nil
}

func applyTheme(name string) error {
	if name == "" {
		return nil
	}
	cfg, err := ui.EmbeddedDefaultConfig()
	if err != nil {
		return err
	}
	if err := ui.InitializeThemes(&cfg); err != nil {
		return err
	}
	return ui.SetThemeByName(name)
}

// Run starts the interactive UI and blocks until the user quits. It reports whether
// any edit was committed.
func Run(s *Session, cfg Config, opts ...tea.ProgramOption) (bool, error) {
	ws, keys, err := prepare(s, cfg)
	if err != nil {
		return false, err
	}
	_, err = ui.Run(ws, ui.RunConfig{
		Width:     cfg.Width,
		Height:    cfg.Height,
		NoColor:   cfg.NoColor,
		StartKeys: cfg.StartKeys,
		Keys:      keys,
	}, opts...)
	return ws.Dirty(), err
}

// RenderSnapshot renders one frame of the UI after the start keys are applied.
// Zero dimensions are detected from the terminal.
func RenderSnapshot(s *Session, cfg Config) (string, error) {
	ws, keys, err := prepare(s, cfg)
	if err != nil {
		return "", err
	}
	w, h := cfg.Width, cfg.Height
	if w <= 0 || h <= 0 {
		dw, dh := DetectTerminalSize()
		if w <= 0 {
			w = dw
		}
		if h <= 0 {
			h = dh
		}
	}
	return ui.RenderSnapshot(ws, ui.SnapshotConfig{
		Width:     w,
		Height:    h,
		NoColor:   cfg.NoColor,
		StartKeys: cfg.StartKeys,
		Keys:      keys,
	}), nil
}

// DetectTerminalSize returns the best-effort terminal width and height by probing
// stdout, stderr and stdin, then the COLUMNS variable. It falls back to 120x24.
func DetectTerminalSize() (width int, height int) {
	for _, fd := range []uintptr{os.Stdout.Fd(), os.Stderr.Fd(), os.Stdin.Fd()} {
		if w, h, err := term.GetSize(int(fd)); err == nil && (w > 0 || h > 0) {
			return w, h
		}
	}
	if col := os.Getenv("COLUMNS"); col != "" {
		if w, err := strconv.Atoi(col); err == nil && w > 0 {
			return w, 24
		}
	}
	return defaultFallbackTermWidth, 24
}

// WithIO returns program options that read keys from in and draw to out.
func WithIO(in io.Reader, out io.Writer) []tea.ProgramOption {
	opts := []tea.ProgramOption{}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	return opts
}
