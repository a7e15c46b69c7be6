package ui

import (
	"github.com/go-logr/logr"

	"github.com/oakwood-commons/statelens/internal/debugger"
	"github.com/oakwood-commons/statelens/internal/inspector"
	"github.com/oakwood-commons/statelens/internal/store"
	"github.com/oakwood-commons/statelens/pkg/logger"
)

// InspectorSettings configures the state panel.
type InspectorSettings struct {
	Expanded     bool
	CanEdit      bool
	ScrollMargin int
	// Highlight overrides the default highlight (the last mutation) when set.
	Highlight *inspector.Path
	// Expand lists paths that start expanded.
	Expand []inspector.Path
}

// Workspace is the session data shared by every panel.
type Workspace struct {
	Session  *debugger.Session
	Store    *store.Store
	Source   string
	Settings InspectorSettings
	Log      logr.Logger

	commits int
	jump    *inspector.Path
	status  string
	failed  bool
}

// NewWorkspace wraps a loaded session. A nil log discards everything.
func NewWorkspace(s *debugger.Session, source string, settings InspectorSettings, log *logr.Logger) *Workspace {
	if log == nil {
		log = logger.GetNoopLogger()
	}
	return &Workspace{
		Session:  s,
		Store:    store.New(s.State),
		Source:   source,
		Settings: settings,
		Log:      log.WithName("ui"),
	}
}

// Commit writes an edit to the store and records it as a mutation of the session.
func (w *Workspace) Commit(p inspector.Path, v inspector.Value) error {
	if err := w.Store.Set(p, v); err != nil {
		return err
	}
	w.Session.State = w.Store.Value()
	w.Session.Record(p, v)
	w.commits++
	w.Log.V(1).Info("edit committed", logger.PathKey, p.String(), "version", w.Store.Version())
	return nil
}

// Dirty reports whether any edit was committed.
func (w *Workspace) Dirty() bool { return w.commits > 0 }

// RequestHighlight asks the root to show p in the state panel.
func (w *Workspace) RequestHighlight(p inspector.Path) {
	c := p.Clone()
	w.jump = &c
}

func (w *Workspace) takeHighlight() (inspector.Path, bool) {
	if w.jump == nil {
		return nil, false
	}
	p := *w.jump
	w.jump = nil
	return p, true
}

// SetStatus replaces the status line message.
func (w *Workspace) SetStatus(msg string, isErr bool) {
	w.status, w.failed = msg, isErr
	if isErr {
		w.Log.V(1).Info("status error", "message", msg)
	}
}

// Status returns the current status line message.
func (w *Workspace) Status() (string, bool) { return w.status, w.failed }
