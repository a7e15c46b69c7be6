package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/statelens/pkg/settings"
)

// Mode controls how the root routes key presses.
type Mode int

const (
	// NormalMode routes keys to the global bindings, then the active panel.
	NormalMode Mode = iota
	// FilterMode sends keys to the filter input.
	FilterMode
	// HelpMode shows the key reference until dismissed.
	HelpMode
)

// chromeRows is the tab bar, the status line and the footer.
const chromeRows = 3

// panelOrder is the tab order.
var panelOrder = []string{StatePanelID, RendersPanelID, StatePathsPanelID}

// AppModel is the root model. It owns the tab bar, the filter input and the status
// line, and routes messages to the active panel.
type AppModel struct {
	mode  Mode
	ws    *Workspace
	keys  KeyMap
	maker *CachedMaker

	active  int
	current ChildModel

	filter          textinput.Model
	filterTarget    Action
	pathFilter      string
	componentFilter string

	width    int
	height   int
	noColor  bool
	quitting bool
}

// NewApp builds the root model with every panel created up front.
func NewApp(ws *Workspace, keys KeyMap, noColor bool) *AppModel {
	if keys == nil {
		keys = DefaultKeyMap()
	}
	m := &AppModel{
		mode:    NormalMode,
		ws:      ws,
		keys:    keys,
		width:   80,
		height:  24,
		noColor: noColor,
	}
	m.maker = NewCachedMaker(MakerFunc(func(id string, width, height int) (ChildModel, tea.Cmd) {
		var model ChildModel
		switch id {
		case RendersPanelID:
			model = NewRendersModel(ws, keys, noColor)
		case StatePathsPanelID:
			model = NewStatePathsModel(ws, keys, noColor)
		default:
			model = NewStateModel(ws, keys, noColor)
		}
		if sized, ok := model.(ModelWithSize); ok {
			sized.SetSize(width, height)
		}
		return model, nil
	}))
	for _, id := range panelOrder {
		panel, _ := m.maker.Make(id, m.width, m.bodyHeight())
		if f, ok := panel.(ModelWithFocus); ok {
			f.Blur()
		}
	}

	fi := textinput.New()
	fi.Prompt = ""
	fi.CharLimit = 256
	fi.SetWidth(40)
	m.filter = fi

	m.setActive(0)
	return m
}

// Workspace returns the shared session data.
func (m *AppModel) Workspace() *Workspace { return m.ws }

// Mode returns the current routing mode.
func (m *AppModel) Mode() Mode { return m.mode }

// ActivePanel returns the id of the active tab.
func (m *AppModel) ActivePanel() string { return panelOrder[m.active] }

// Panel returns the panel for id.
func (m *AppModel) Panel(id string) (ChildModel, bool) { return m.maker.Get(id) }

// Quitting reports whether the user asked to quit.
func (m *AppModel) Quitting() bool { return m.quitting }

func (m *AppModel) bodyHeight() int {
	h := m.height - chromeRows
	if h < 1 {
		return 1
	}
	return h
}

func (m *AppModel) setActive(i int) {
	if m.current != nil {
		if f, ok := m.current.(ModelWithFocus); ok {
			f.Blur()
		}
	}
	m.active = (i%len(panelOrder) + len(panelOrder)) % len(panelOrder)
	m.current, _ = m.maker.Make(panelOrder[m.active], m.width, m.bodyHeight())
	if f, ok := m.current.(ModelWithFocus); ok {
		f.Focus()
	}
}

func (m *AppModel) resize() {
	for _, id := range panelOrder {
		if panel, ok := m.maker.Get(id); ok {
			if sized, ok := panel.(ModelWithSize); ok {
				sized.SetSize(m.width, m.bodyHeight())
			}
		}
	}
	m.filter.SetWidth(m.width / 2)
}

func (m *AppModel) Init() tea.Cmd {
	if m.current != nil {
		return m.current.Init()
	}
	return nil
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		return m, nil

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)

	case tea.MouseClickMsg:
		mouse := msg.Mouse()
		if mouse.Button != tea.MouseLeft {
			return m, nil
		}
		if mouse.Y == 0 {
			m.clickTab(mouse.X)
			return m, nil
		}
		if row := mouse.Y - 1; row < m.bodyHeight() {
			return m, m.forward(lineClickMsg{Row: row})
		}
		return m, nil

	case tea.MouseMotionMsg:
		if row := msg.Mouse().Y - 1; row >= 0 && row < m.bodyHeight() {
			return m, m.forward(lineHoverMsg{Row: row})
		}
		return m, nil

	case tea.MouseWheelMsg:
		switch msg.Mouse().Button {
		case tea.MouseWheelUp:
			return m, m.forward(scrollMsg{Delta: -3})
		case tea.MouseWheelDown:
			return m, m.forward(scrollMsg{Delta: 3})
		}
		return m, nil
	}
	return m, m.forward(msg)
}

func (m *AppModel) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		m.quitting = true
		return tea.Quit
	}

	switch m.mode {
	case HelpMode:
		if key == "esc" || key == "q" || m.keys.Lookup(key) == ActionHelp {
			m.mode = NormalMode
		}
		return nil
	case FilterMode:
		return m.updateFilter(msg)
	}

	if c, ok := m.current.(ModelWithCapture); ok && c.Capturing() {
		return m.forward(msg)
	}

	switch m.keys.Lookup(key) {
	case ActionNextTab:
		m.setActive(m.active + 1)
	case ActionPrevTab:
		m.setActive(m.active - 1)
	case ActionFilterPath, ActionFilterComponent:
		m.openFilter(m.keys.Lookup(key))
	case ActionClearFilter:
		if m.pathFilter == "" && m.componentFilter == "" {
			return m.forward(msg)
		}
		m.applyFilters("", "")
		m.ws.SetStatus("filters cleared", false)
	case ActionHelp:
		m.mode = HelpMode
	case ActionQuit:
		m.quitting = true
		return tea.Quit
	default:
		return m.forward(msg)
	}
	return nil
}

func (m *AppModel) openFilter(target Action) {
	m.mode = FilterMode
	m.filterTarget = target
	if target == ActionFilterComponent {
		m.filter.SetValue(m.componentFilter)
	} else {
		m.filter.SetValue(m.pathFilter)
	}
	m.filter.CursorEnd()
	m.filter.Focus()
}

func (m *AppModel) updateFilter(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		value := strings.TrimSpace(m.filter.Value())
		if m.filterTarget == ActionFilterComponent {
			m.applyFilters(m.pathFilter, value)
		} else {
			m.applyFilters(value, m.componentFilter)
		}
		m.closeFilter()
		return nil
	case "esc":
		m.closeFilter()
		return nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	return cmd
}

func (m *AppModel) closeFilter() {
	m.filter.Blur()
	m.mode = NormalMode
}

// applyFilters pushes the filters to every panel that accepts them.
func (m *AppModel) applyFilters(path, component string) {
	m.pathFilter, m.componentFilter = path, component
	for _, id := range panelOrder {
		if panel, ok := m.maker.Get(id); ok {
			if f, ok := panel.(ModelWithFilter); ok {
				f.SetFilters(path, component)
			}
		}
	}
	m.ws.Log.V(1).Info("filters applied", "path", path, "component", component)
}

// Filters returns the active path and component filters.
func (m *AppModel) Filters() (string, string) { return m.pathFilter, m.componentFilter }

// forward sends msg to the active panel and follows any highlight it requested.
func (m *AppModel) forward(msg tea.Msg) tea.Cmd {
	if m.current == nil {
		return nil
	}
	var cmd tea.Cmd
	m.current, cmd = m.current.Update(msg)
	m.maker.Put(panelOrder[m.active], m.current)

	if p, ok := m.ws.takeHighlight(); ok {
		m.setActive(0)
		if sm, ok := m.current.(*StateModel); ok {
			sm.ShowPath(p)
		}
		m.ws.SetStatus("showing "+p.String(), false)
	}
	return cmd
}

func (m *AppModel) clickTab(x int) {
	pos := 0
	for i, tab := range m.renderTabs() {
		w := lipgloss.Width(tab)
		if x >= pos && x < pos+w {
			m.setActive(i)
			return
		}
		pos += w
	}
}

func (m *AppModel) titles() []string {
	out := make([]string, len(panelOrder))
	for i, id := range panelOrder {
		out[i] = id
		if panel, ok := m.maker.Get(id); ok {
			if t, ok := panel.(ModelWithTitle); ok {
				out[i] = t.Title()
			}
		}
	}
	return out
}

func (m *AppModel) renderTabs() []string {
	th := CurrentTheme()
	titles := m.titles()
	out := make([]string, len(titles))
	for i, title := range titles {
		active := i == m.active
		if m.noColor {
			if active {
				out[i] = "[" + title + "]"
			} else {
				out[i] = " " + title + " "
			}
			continue
		}
		style := lipgloss.NewStyle().Padding(0, 1)
		if active {
			style = style.Foreground(th.SelectedFG).Background(th.SelectedBG).Bold(true)
		} else {
			style = style.Foreground(th.HeaderFG).Background(th.HeaderBG)
		}
		out[i] = style.Render(title)
	}
	return out
}

func (m *AppModel) renderStatus() string {
	th := CurrentTheme()
	if m.mode == FilterMode {
		label := "path filter: "
		if m.filterTarget == ActionFilterComponent {
			label = "component filter: "
		}
		return label + m.filter.View()
	}
	text, failed := m.ws.Status()
	style := lipgloss.NewStyle()
	switch {
	case text != "" && failed:
		style = style.Foreground(th.StatusError)
	case text != "":
		style = style.Foreground(th.StatusSuccess)
	case m.pathFilter != "" || m.componentFilter != "":
		text = fmt.Sprintf("filters: path=%q component=%q", m.pathFilter, m.componentFilter)
		style = style.Foreground(th.StatusColor)
	default:
		text = settings.CliBinaryName + " " + m.ws.Source
		style = style.Foreground(th.StatusColor)
	}
	text = runewidth.Truncate(text, m.width, "…")
	if m.noColor {
		return text
	}
	return style.Render(text)
}

func (m *AppModel) renderFooter() string {
	th := CurrentTheme()
	keyStyle := lipgloss.NewStyle()
	valStyle := lipgloss.NewStyle()
	if !m.noColor {
		keyStyle = keyStyle.Foreground(th.HelpKey).Bold(true)
		valStyle = valStyle.Foreground(th.HelpValue)
	}
	entries := []struct {
		action Action
		label  string
	}{
		{ActionHelp, "help"},
		{ActionNextTab, "panel"},
		{ActionActivate, "open"},
		{ActionNextMutation, "next"},
		{ActionFilterPath, "filter"},
		{ActionCopy, "copy"},
		{ActionQuit, "quit"},
	}
	var parts []string
	width := 0
	for _, e := range entries {
		key := shortestKey(m.keys.Keys(e.action))
		if key == "" {
			continue
		}
		w := runewidth.StringWidth(key) + 1 + runewidth.StringWidth(e.label) + 2
		if width+w > m.width {
			break
		}
		width += w
		parts = append(parts, keyStyle.Render(key)+" "+valStyle.Render(e.label))
	}
	return strings.Join(parts, "  ")
}

func shortestKey(keys []string) string {
	best := ""
	for _, k := range keys {
		if best == "" || len(k) < len(best) {
			best = k
		}
	}
	return best
}

func (m *AppModel) renderHelp() string {
	title := "Keys"
	if !m.noColor {
		title = lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme().HelpKey).Render(title)
	}
	return title + "\n\n" + m.keys.HelpText()
}

// Render draws the whole screen as a string.
func (m *AppModel) Render() string {
	if m.quitting {
		return ""
	}
	body := ""
	if m.mode == HelpMode {
		body = m.renderHelp()
	} else if m.current != nil {
		body = m.current.View()
	}
	parts := []string{
		strings.Join(m.renderTabs(), ""),
		fitHeight(body, m.bodyHeight()),
		m.renderStatus(),
		m.renderFooter(),
	}
	return strings.Join(parts, "\n")
}

func (m *AppModel) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

// fitHeight pads or cuts s to exactly h lines.
func fitHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > h {
		lines = lines[:h]
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}
