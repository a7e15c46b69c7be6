package ui

import tea "charm.land/bubbletea/v2"

// ChildModel is a panel hosted by the root model. The root routes messages to the
// active panel and draws its view below the tab bar.
type ChildModel interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (ChildModel, tea.Cmd)
	View() string
}

// ModelWithTitle provides the tab label.
type ModelWithTitle interface {
	Title() string
}

// ModelWithSize is resized whenever the window changes.
type ModelWithSize interface {
	SetSize(width, height int)
}

// ModelWithFocus is told when its tab becomes active or inactive.
type ModelWithFocus interface {
	Focus() tea.Cmd
	Blur()
	Focused() bool
}

// ModelWithCapture reports when a panel wants every key press, for example while an
// editor is open. The root then skips its own bindings.
type ModelWithCapture interface {
	Capturing() bool
}

// ModelWithFilter accepts the path and component filters typed in the filter bar.
type ModelWithFilter interface {
	SetFilters(path, component string)
	Filters() (path, component string)
}
