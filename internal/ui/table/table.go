package table

import (
	"fmt"
	"image/color"

	bubtable "charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// Column and Row are re-exported so callers do not import bubbles directly.
type Column = bubtable.Column
type Row = bubtable.Row

// Model is a table of typed rows with an optional filter predicate.
// Columns with a zero width share whatever width the fixed columns leave.
type Model[V any] struct {
	table    bubtable.Model
	styles   bubtable.Styles
	rows     []V
	filtered []V
	filter   func(V) bool
	columns  []Column

	toRow func(V) Row

	width   int
	height  int
	focused bool
	noColor bool

	headerFG   color.Color
	headerBG   color.Color
	selectedFG color.Color
	selectedBG color.Color
}

// NewModel returns an empty table. toRow renders one value as a table row.
func NewModel[V any](columns []Column, toRow func(V) Row) *Model[V] {
	t := bubtable.New(
		bubtable.WithColumns(columns),
		bubtable.WithFocused(true),
		bubtable.WithHeight(5),
	)

	s := bubtable.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderTop(false).
		BorderLeft(false).
		BorderRight(false).
		Bold(true).
		Align(lipgloss.Left).
		PaddingLeft(0).
		PaddingRight(1)
	s.Selected = s.Selected.
		PaddingLeft(0).
		PaddingRight(0)
	s.Cell = lipgloss.NewStyle().
		Align(lipgloss.Left).
		PaddingLeft(0).
		PaddingRight(1)
	t.SetStyles(s)

	m := &Model[V]{
		table:   t,
		styles:  s,
		columns: columns,
		toRow:   toRow,
		width:   80,
		height:  10,
		focused: true,
	}
	m.fitColumns()
	return m
}

// SetRows replaces the data and reapplies the filter.
func (m *Model[V]) SetRows(rows []V) {
	m.rows = rows
	m.applyFilter()
}

// Rows returns the rows that pass the filter.
func (m *Model[V]) Rows() []V {
	return m.filtered
}

// AllRows returns every row.
func (m *Model[V]) AllRows() []V {
	return m.rows
}

// SetFilter keeps only the rows keep accepts. A nil predicate shows everything.
func (m *Model[V]) SetFilter(keep func(V) bool) {
	m.filter = keep
	m.applyFilter()
}

// ClearFilter shows every row.
func (m *Model[V]) ClearFilter() {
	m.SetFilter(nil)
}

func (m *Model[V]) applyFilter() {
	if m.filter == nil {
		m.filtered = m.rows
	} else {
		m.filtered = make([]V, 0, len(m.rows))
		for _, row := range m.rows {
			if m.filter(row) {
				m.filtered = append(m.filtered, row)
			}
		}
	}

	tableRows := make([]Row, len(m.filtered))
	for i, row := range m.filtered {
		tableRows[i] = m.toRow(row)
	}
	m.table.SetRows(tableRows)

	if m.Cursor() >= len(m.filtered) && len(m.filtered) > 0 {
		m.SetCursor(len(m.filtered) - 1)
	}
}

// Cursor returns the selected row index.
func (m *Model[V]) Cursor() int {
	return m.table.Cursor()
}

// SetCursor selects a row.
func (m *Model[V]) SetCursor(pos int) {
	m.table.SetCursor(pos)
}

// SelectedRow returns the selected value, or nil when the table is empty.
func (m *Model[V]) SelectedRow() *V {
	cursor := m.Cursor()
	if cursor < 0 || cursor >= len(m.filtered) {
		return nil
	}
	return &m.filtered[cursor]
}

// SetSize sets the table dimensions and redistributes flexible column widths.
func (m *Model[V]) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(height)
	m.table.SetWidth(width)
	m.fitColumns()
}

// fitColumns gives zero-width columns an equal share of the remaining width.
func (m *Model[V]) fitColumns() {
	cols := make([]Column, len(m.columns))
	copy(cols, m.columns)
	used, flex := 0, 0
	for _, c := range cols {
		if c.Width == 0 {
			flex++
			continue
		}
		used += c.Width + 1
	}
	if flex > 0 {
		share := (m.width - used) / flex
		if share < 8 {
			share = 8
		}
		for i := range cols {
			if cols[i].Width == 0 {
				cols[i].Width = share - 1
			}
		}
	}
	m.table.SetColumns(cols)
}

// Focus sets the table focus state.
func (m *Model[V]) Focus() {
	m.focused = true
	m.table.Focus()
}

// Blur removes focus from the table.
func (m *Model[V]) Blur() {
	m.focused = false
	m.table.Blur()
}

// Focused returns true if the table has focus.
func (m *Model[V]) Focused() bool {
	return m.focused
}

// SetNoColor enables/disables color output.
func (m *Model[V]) SetNoColor(noColor bool) {
	m.noColor = noColor
	m.applyColorScheme()
}

// SetColors sets the header and selection colors.
func (m *Model[V]) SetColors(headerFG, headerBG, selectedFG, selectedBG color.Color) {
	m.headerFG = headerFG
	m.headerBG = headerBG
	m.selectedFG = selectedFG
	m.selectedBG = selectedBG
	m.applyColorScheme()
}

func (m *Model[V]) applyColorScheme() {
	s := m.styles
	if m.noColor {
		s.Header = s.Header.UnsetForeground().UnsetBackground()
		s.Selected = s.Selected.UnsetForeground().UnsetBackground().Reverse(true)
		s.Cell = s.Cell.UnsetForeground().UnsetBackground()
	} else {
		if m.headerFG != nil {
			s.Header = s.Header.Foreground(m.headerFG)
		}
		if m.headerBG != nil {
			s.Header = s.Header.Background(m.headerBG)
		}
		if m.selectedFG != nil {
			s.Selected = s.Selected.Foreground(m.selectedFG)
		}
		if m.selectedBG != nil {
			s.Selected = s.Selected.Background(m.selectedBG)
		}
	}
	m.table.SetStyles(s)
	m.styles = s
}

// Update forwards navigation keys to the table.
func (m *Model[V]) Update(msg tea.Msg) (*Model[V], tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the table.
func (m *Model[V]) View() string {
	return m.table.View()
}

// Height returns the rendered height including the header.
func (m *Model[V]) Height() int {
	return lipgloss.Height(m.View())
}

// Width returns the rendered width.
func (m *Model[V]) Width() int {
	return lipgloss.Width(m.View())
}

func (m *Model[V]) String() string {
	return fmt.Sprintf("Table[rows=%d, filtered=%d, cursor=%d]", len(m.rows), len(m.filtered), m.Cursor())
}
