package ui

import (
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/oakwood-commons/statelens/internal/debugger"
	"github.com/oakwood-commons/statelens/internal/formatter"
	"github.com/oakwood-commons/statelens/internal/inspector"
	"github.com/oakwood-commons/statelens/internal/ui/table"
)

// RendersPanelID identifies the render log panel.
const RendersPanelID = "renders"

// tableChrome is the header row plus its border.
const tableChrome = 2

// RendersModel lists recorded renders with their changed paths and components.
// Activating a row highlights its first changed path in the state panel.
type RendersModel struct {
	ws   *Workspace
	keys KeyMap
	tbl  *table.Model[debugger.Render]

	pathFilter      string
	componentFilter string

	width   int
	height  int
	focused bool
}

func renderRow(r debugger.Render) table.Row { return formatter.RenderRow(r) }

// NewRendersModel builds the render log panel for ws.
func NewRendersModel(ws *Workspace, keys KeyMap, noColor bool) *RendersModel {
	cols := []table.Column{
		{Title: "TIME", Width: 8},
		{Title: "DURATION", Width: 10},
		{Title: "PATHS"},
		{Title: "COMPONENTS"},
	}
	tbl := table.NewModel(cols, renderRow)
	th := CurrentTheme()
	tbl.SetColors(th.HeaderFG, nil, th.SelectedFG, th.SelectedBG)
	tbl.SetNoColor(noColor)
	tbl.SetRows(ws.Session.Renders)
	return &RendersModel{ws: ws, keys: keys, tbl: tbl, width: 80, height: 20, focused: true}
}

// SetFilters applies the path and component substring filters.
func (m *RendersModel) SetFilters(path, component string) {
	m.pathFilter, m.componentFilter = path, component
	if path == "" && component == "" {
		m.tbl.ClearFilter()
		return
	}
	m.tbl.SetFilter(func(r debugger.Render) bool { return r.Matches(path, component) })
}

func (m *RendersModel) Filters() (string, string) { return m.pathFilter, m.componentFilter }

// Visible returns the renders that pass the filters.
func (m *RendersModel) Visible() []debugger.Render { return m.tbl.Rows() }

func (m *RendersModel) activate() {
	r := m.tbl.SelectedRow()
	if r == nil || len(r.Changes) == 0 {
		m.ws.SetStatus("render has no changed paths", false)
		return
	}
	p := inspector.ResolveSegments(m.ws.Store.Value(), r.Changes[0].Path)
	m.ws.RequestHighlight(p)
}

func (m *RendersModel) Init() tea.Cmd { return nil }

func (m *RendersModel) Update(msg tea.Msg) (ChildModel, tea.Cmd) {
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

func (m *RendersModel) View() string {
	header := fmt.Sprintf("%d renders", len(m.ws.Session.Renders))
	if m.pathFilter != "" || m.componentFilter != "" {
		header = fmt.Sprintf("%d of %d renders", len(m.tbl.Rows()), len(m.ws.Session.Renders))
	}
	return header + "\n" + m.tbl.View()
}

func (m *RendersModel) Title() string {
	return fmt.Sprintf("Renders (%d)", len(m.ws.Session.Renders))
}

func (m *RendersModel) SetSize(width, height int) {
	m.width, m.height = width, height
	m.tbl.SetSize(width, height-1-tableChrome)
}

func (m *RendersModel) Focus() tea.Cmd {
	m.focused = true
	m.tbl.Focus()
	return nil
}

func (m *RendersModel) Blur() {
	m.focused = false
	m.tbl.Blur()
}

func (m *RendersModel) Focused() bool { return m.focused }

// updateTable translates the configured movement keys to the table's own bindings.
func updateTable[V any](tbl *table.Model[V], keys KeyMap, msg tea.KeyPressMsg) tea.Cmd {
	switch keys.Lookup(msg.String()) {
	case ActionUp:
		moveTable(tbl, -1)
	case ActionDown:
		moveTable(tbl, 1)
	case ActionPageUp:
		moveTable(tbl, -tbl.Height())
	case ActionPageDown:
		moveTable(tbl, tbl.Height())
	case ActionTop:
		tbl.SetCursor(0)
	case ActionBottom:
		tbl.SetCursor(len(tbl.Rows()) - 1)
	default:
		_, cmd := tbl.Update(msg)
		return cmd
	}
	return nil
}

func moveTable[V any](tbl *table.Model[V], delta int) {
	pos := tbl.Cursor() + delta
	if pos >= len(tbl.Rows()) {
		pos = len(tbl.Rows()) - 1
	}
	if pos < 0 {
		pos = 0
	}
	tbl.SetCursor(pos)
}

// selectTableRow selects the row under a click. Row 0 is the panel header line.
// Clicks below the table's scroll window are ignored.
func selectTableRow[V any](tbl *table.Model[V], row, height int) {
	idx := row - 1 - tableChrome
	if idx < 0 || idx >= len(tbl.Rows()) || idx >= height {
		return
	}
	tbl.SetCursor(idx)
}
