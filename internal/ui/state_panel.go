package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/statelens/internal/inspector"
	"github.com/oakwood-commons/statelens/internal/store"
	"github.com/oakwood-commons/statelens/pkg/logger"
)

// StatePanelID identifies the state panel in the maker cache.
const StatePanelID = "state"

// gutterWidth is the cursor column plus the highlight marker column.
const gutterWidth = 2

// lineClickMsg is a pointer click on a body row, relative to the panel's first row.
type lineClickMsg struct{ Row int }

// lineHoverMsg is pointer motion over a body row.
type lineHoverMsg struct{ Row int }

// scrollMsg moves the view by Delta lines.
type scrollMsg struct{ Delta int }

// StateModel hosts the inspector: it owns the expanded-path set and the highlight,
// scrolls the highlight into view, and draws an editor on the line being edited.
type StateModel struct {
	ws   *Workspace
	keys KeyMap
	insp *inspector.Inspector

	expanded  inspector.PathSet
	highlight *inspector.Path
	mutation  int

	cursor int
	offset int
	width  int
	height int

	focused bool
	noColor bool

	editor   textinput.Model
	editPath inspector.Path
	editing  bool
}

// NewStateModel builds the state panel for ws.
func NewStateModel(ws *Workspace, keys KeyMap, noColor bool) *StateModel {
	m := &StateModel{
		ws:       ws,
		keys:     keys,
		expanded: inspector.NewPathSet(ws.Settings.Expand...),
		mutation: -1,
		width:    80,
		height:   20,
		focused:  true,
		noColor:  noColor,
	}
	m.insp = inspector.New(inspector.Options{
		Expanded:     ws.Settings.Expanded,
		CanEdit:      ws.Settings.CanEdit,
		ScrollMargin: ws.Settings.ScrollMargin,
		OnExpand:     func() { ws.Log.V(1).Info("root expanded") },
		OnCollapse:   func() { ws.Log.V(1).Info("root collapsed") },
	})

	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 0
	ti.SetWidth(40)
	m.editor = ti

	switch {
	case ws.Settings.Highlight != nil:
		h := ws.Settings.Highlight.Clone()
		m.highlight = &h
	default:
		if p, ok := ws.Session.LastMutationPath(); ok {
			m.highlight = &p
			m.mutation = len(ws.Session.Mutations) - 1
		}
	}
	m.refresh()
	return m
}

// refresh pushes the current state, highlight and expanded set into the inspector.
func (m *StateModel) refresh() {
	m.insp.Update(inspector.Props{
		Value:         m.ws.Store.Value(),
		Highlight:     m.highlight,
		Expanded:      m.expanded,
		OnPathToggled: m.onToggle,
		OnModelChange: m.onChange,
	})
	m.applyScroll()
	m.syncEditor()
}

func (m *StateModel) onToggle(t inspector.PathToggle) {
	m.expanded.Apply(t)
	m.ws.Log.V(1).Info("path toggled", logger.PathKey, t.Path.String(), "expanded", t.Expanded)
}

func (m *StateModel) onChange(c inspector.ModelChange) {
	if err := m.ws.Commit(c.Path, c.Value); err != nil {
		m.ws.SetStatus(err.Error(), true)
		return
	}
	p := c.Path.Clone()
	m.highlight = &p
	m.mutation = len(m.ws.Session.Mutations) - 1
	m.ws.SetStatus("saved "+p.String(), false)
	m.refresh()
}

// applyScroll moves the view and cursor to the highlighted node when the inspector
// asks for it.
func (m *StateModel) applyScroll() {
	if target, ok := m.insp.TakeScroll(); ok {
		m.offset = target
		if m.highlight != nil {
			if idx, ok := m.insp.LineOf(*m.highlight); ok {
				m.cursor = idx
			}
		}
	}
	m.clamp()
}

// clamp keeps the cursor on a line and inside the view.
func (m *StateModel) clamp() {
	n := m.insp.Len()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	h := m.bodyHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if maxOffset := n - h; m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *StateModel) bodyHeight() int {
	if m.height < 1 {
		return 1
	}
	return m.height
}

// hoverCursor hovers the scalar under the cursor so long strings show in full.
func (m *StateModel) hoverCursor() {
	lines := m.insp.Lines()
	if m.cursor < 0 || m.cursor >= len(lines) {
		m.insp.Leave()
		return
	}
	ln := lines[m.cursor]
	if ln.Role != inspector.RoleScalar {
		m.insp.Leave()
		return
	}
	if err := m.insp.Hover(ln.Path); err != nil {
		m.ws.Log.V(1).Info("hover failed", "error", err.Error())
	}
}

// activate clicks the node on line idx.
func (m *StateModel) activate(idx int) {
	if lines := m.insp.Lines(); m.ws.Settings.CanEdit && idx >= 0 && idx < len(lines) {
		ln := lines[idx]
		if ln.Role == inspector.RoleScalar && !store.Addressable(ln.Path) {
			m.ws.SetStatus("cannot edit "+ln.Path.String()+": empty keys cannot be written", true)
			return
		}
	}
	if err := m.insp.ActivateLine(idx); err != nil {
		m.ws.SetStatus(err.Error(), true)
		return
	}
	m.applyScroll()
	m.syncEditor()
}

// blurOtherEditor leaves edit mode when a click lands outside the open editor.
func (m *StateModel) blurOtherEditor(idx int) {
	if !m.editing {
		return
	}
	if lines := m.insp.Lines(); lines[idx].Path.Equal(m.editPath) {
		return
	}
	if err := m.insp.Blur(m.editPath); err != nil {
		m.ws.SetStatus(err.Error(), true)
	}
	m.syncEditor()
}

// syncEditor opens the text input when a scalar enters edit mode and closes it when
// the scalar leaves it.
func (m *StateModel) syncEditor() {
	p, ok := m.insp.Editing()
	if !ok {
		if m.editing {
			m.editor.Blur()
			m.editing = false
			m.editPath = nil
		}
		return
	}
	if m.editing && p.Equal(m.editPath) {
		return
	}
	idx, _ := m.insp.LineOf(p)
	lines := m.insp.Lines()
	m.editor.SetValue(lines[idx].EditSeed)
	m.editor.CursorEnd()
	m.editor.Focus()
	m.editing = true
	m.editPath = p
	m.cursor = idx
	m.clamp()
}

// step moves the highlight to the next (delta 1) or previous (delta -1) mutation.
func (m *StateModel) step(delta int) {
	paths := m.ws.Session.MutationPaths()
	n := len(paths)
	if n == 0 {
		m.ws.SetStatus("no mutations recorded", false)
		return
	}
	switch {
	case m.mutation < 0 && delta > 0:
		m.mutation = 0
	case m.mutation < 0:
		m.mutation = n - 1
	default:
		m.mutation = ((m.mutation+delta)%n + n) % n
	}
	p := paths[m.mutation]
	m.highlight = &p
	mut := m.ws.Session.Mutations[m.mutation]
	m.ws.SetStatus(fmt.Sprintf("mutation %d/%d: %s %s", m.mutation+1, n, mut.Method, p), false)
	m.refresh()
}

func (m *StateModel) copyPath() {
	lines := m.insp.Lines()
	if m.cursor < 0 || m.cursor >= len(lines) {
		return
	}
	p := lines[m.cursor].Path.String()
	if err := CopyToClipboard(p); err != nil {
		m.ws.SetStatus("copy failed: "+err.Error(), true)
		return
	}
	m.ws.SetStatus("copied "+p, false)
}

// ShowPath highlights p and scrolls it into view.
func (m *StateModel) ShowPath(p inspector.Path) {
	c := p.Clone()
	m.highlight = &c
	m.mutation = -1
	for i, mp := range m.ws.Session.MutationPaths() {
		if mp.Equal(c) {
			m.mutation = i
		}
	}
	m.refresh()
}

// Highlight returns the highlighted path.
func (m *StateModel) Highlight() (inspector.Path, bool) {
	if m.highlight == nil {
		return nil, false
	}
	return m.highlight.Clone(), true
}

// Cursor returns the cursor line index.
func (m *StateModel) Cursor() int { return m.cursor }

// Inspector exposes the hosted inspector.
func (m *StateModel) Inspector() *inspector.Inspector { return m.insp }

func (m *StateModel) Init() tea.Cmd { return nil }

func (m *StateModel) Update(msg tea.Msg) (ChildModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		if m.editing {
			return m, m.updateEditor(msg)
		}
		m.handleKey(msg)
	case lineClickMsg:
		idx := m.offset + msg.Row
		if idx >= 0 && idx < m.insp.Len() {
			m.blurOtherEditor(idx)
			m.cursor = idx
			m.activate(idx)
		}
	case lineHoverMsg:
		idx := m.offset + msg.Row
		if idx >= 0 && idx < m.insp.Len() {
			m.cursor = idx
			m.hoverCursor()
		} else {
			m.insp.Leave()
		}
	case scrollMsg:
		m.cursor += msg.Delta
		m.clamp()
	}
	return m, nil
}

func (m *StateModel) updateEditor(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		p := m.editPath.Clone()
		if err := m.insp.Submit(p, m.editor.Value()); err != nil {
			m.ws.SetStatus(err.Error(), true)
			return nil
		}
		m.applyScroll()
		m.syncEditor()
		return nil
	case "esc":
		if err := m.insp.Blur(m.editPath); err != nil {
			m.ws.SetStatus(err.Error(), true)
		}
		m.syncEditor()
		return nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return cmd
}

func (m *StateModel) handleKey(msg tea.KeyPressMsg) {
	h := m.bodyHeight()
	switch m.keys.Lookup(msg.String()) {
	case ActionUp:
		m.cursor--
	case ActionDown:
		m.cursor++
	case ActionPageUp:
		m.cursor -= h
	case ActionPageDown:
		m.cursor += h
	case ActionTop:
		m.cursor = 0
	case ActionBottom:
		m.cursor = m.insp.Len() - 1
	case ActionActivate:
		m.activate(m.cursor)
		return
	case ActionNextMutation:
		m.step(1)
		return
	case ActionPrevMutation:
		m.step(-1)
		return
	case ActionCopy:
		m.copyPath()
		return
	default:
		return
	}
	m.clamp()
	m.hoverCursor()
}

func (m *StateModel) View() string {
	lines := m.insp.Lines()
	if len(lines) == 0 {
		return "(no state)"
	}
	th := CurrentTheme()
	end := m.offset + m.bodyHeight()
	if end > len(lines) {
		end = len(lines)
	}
	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.renderLine(lines[i], i == m.cursor, th))
	}
	return strings.Join(rows, "\n")
}

func (m *StateModel) renderLine(ln inspector.Line, atCursor bool, th Theme) string {
	var b strings.Builder
	switch {
	case atCursor:
		b.WriteString(">")
	default:
		b.WriteString(" ")
	}
	if ln.Highlight {
		b.WriteString("*")
	} else {
		b.WriteString(" ")
	}
	indent := strings.Repeat(inspector.Indent, ln.Depth)
	b.WriteString(indent)

	room := m.width - gutterWidth - runewidth.StringWidth(indent)
	for _, span := range ln.Spans {
		if room <= 0 {
			break
		}
		text := span.Text
		if w := runewidth.StringWidth(text); w > room {
			text = runewidth.Truncate(text, room, "…")
		}
		room -= runewidth.StringWidth(text)
		b.WriteString(m.spanStyle(span.Class, ln.Highlight, atCursor, th).Render(text))
	}
	if ln.Role == inspector.RoleEditor && m.editing {
		if room > 2 {
			m.editor.SetWidth(room - 2)
		}
		b.WriteString(m.editor.View())
		if ln.TrailingComma {
			b.WriteString(",")
		}
	}
	return b.String()
}

func (m *StateModel) spanStyle(c inspector.Class, highlighted, atCursor bool, th Theme) lipgloss.Style {
	style := lipgloss.NewStyle()
	if m.noColor {
		return style
	}
	style = style.Foreground(th.classColor(c))
	switch {
	case highlighted:
		style = style.Foreground(th.HighlightFG).Background(th.HighlightBG)
	case atCursor && m.focused:
		style = style.Background(th.CursorBG)
	}
	return style
}

func (m *StateModel) Title() string {
	if m.ws.Dirty() {
		return "State*"
	}
	return "State"
}

func (m *StateModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.clamp()
}

func (m *StateModel) Focus() tea.Cmd {
	m.focused = true
	return nil
}

func (m *StateModel) Blur() { m.focused = false }

func (m *StateModel) Focused() bool { return m.focused }

// Capturing reports whether the editor is open.
func (m *StateModel) Capturing() bool { return m.editing }
