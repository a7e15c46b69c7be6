package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/statelens/internal/debugger"
	"github.com/oakwood-commons/statelens/internal/formatter"
	"github.com/oakwood-commons/statelens/internal/inspector"
	"github.com/oakwood-commons/statelens/internal/ui/table"
)

// StatePathsPanelID identifies the state-path registry panel.
const StatePathsPanelID = "statepaths"

// StatePathsModel lists registered components and the state paths they depend on.
type StatePathsModel struct {
	ws     *Workspace
	keys   KeyMap
	tbl    *table.Model[debugger.ComponentEntry]
	counts debugger.Counts

	pathFilter      string
	componentFilter string

	width   int
	height  int
	focused bool
}

func componentRow(e debugger.ComponentEntry) table.Row { return formatter.ComponentRow(e) }

// NewStatePathsModel builds the state-path panel for ws.
func NewStatePathsModel(ws *Workspace, keys KeyMap, noColor bool) *StatePathsModel {
	cols := []table.Column{
		{Title: "ID", Width: 4},
		{Title: "COMPONENT", Width: 24},
		{Title: "PATHS"},
	}
	tbl := table.NewModel(cols, componentRow)
	th := CurrentTheme()
	tbl.SetColors(th.HeaderFG, nil, th.SelectedFG, th.SelectedBG)
	tbl.SetNoColor(noColor)
	tbl.SetRows(debugger.AggregateComponents(ws.Session.StatePaths))
	return &StatePathsModel{
		ws:      ws,
		keys:    keys,
		tbl:     tbl,
		counts:  debugger.CountStatePaths(ws.Session.StatePaths),
		width:   80,
		height:  20,
		focused: true,
	}
}

func (m *StatePathsModel) SetFilters(path, component string) {
	m.pathFilter, m.componentFilter = path, component
	if path == "" && component == "" {
		m.tbl.ClearFilter()
		return
	}
	m.tbl.SetFilter(func(e debugger.ComponentEntry) bool { return e.Matches(path, component) })
}

func (m *StatePathsModel) Filters() (string, string) { return m.pathFilter, m.componentFilter }

// Visible returns the components that pass the filters.
func (m *StatePathsModel) Visible() []debugger.ComponentEntry { return m.tbl.Rows() }

// activate highlights the selected component's first path that passes the path filter.
func (m *StatePathsModel) activate() {
	e := m.tbl.SelectedRow()
	if e == nil {
		return
	}
	for _, dotted := range e.Paths {
		if m.pathFilter != "" && !strings.Contains(dotted, m.pathFilter) {
			continue
		}
		p := inspector.ResolveSegments(m.ws.Store.Value(), strings.Split(dotted, "."))
		m.ws.RequestHighlight(p)
		return
	}
	m.ws.SetStatus("component has no state paths", false)
}

func (m *StatePathsModel) Init() tea.Cmd { return nil }

func (m *StatePathsModel) Update(msg tea.Msg) (ChildModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if m.keys.Lookup(msg.String()) == ActionActivate {
			m.activate()
			return m, nil
		}
		return m, updateTable(m.tbl, m.keys, msg)
	case scrollMsg:
		moveTable(m.tbl, msg.Delta)
	case lineClickMsg:
		selectTableRow(m.tbl, msg.Row, m.height)
	}
	return m, nil
}

func (m *StatePathsModel) View() string {
	header := fmt.Sprintf("%d state paths, %d components", m.counts.StatePaths, m.counts.Components)
	if m.pathFilter != "" || m.componentFilter != "" {
		header += fmt.Sprintf(" (%d shown)", len(m.tbl.Rows()))
	}
	return header + "\n" + m.tbl.View()
}

func (m *StatePathsModel) Title() string {
	return fmt.Sprintf("State paths (%d)", m.counts.StatePaths)
}

func (m *StatePathsModel) SetSize(width, height int) {
	m.width, m.height = width, height
	m.tbl.SetSize(width, height-1-tableChrome)
}

func (m *StatePathsModel) Focus() tea.Cmd {
	m.focused = true
	m.tbl.Focus()
	return nil
}

func (m *StatePathsModel) Blur() {
	m.focused = false
	m.tbl.Blur()
}

func (m *StatePathsModel) Focused() bool { return m.focused }
