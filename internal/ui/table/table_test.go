package table

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	Name  string
	Count int
}

func makeModel() *Model[item] {
	cols := []Column{{Title: "NAME", Width: 10}, {Title: "PATHS"}}
	return NewModel(cols, func(v item) Row { return Row{v.Name, strings.Repeat("x", v.Count)} })
}

func TestSetRowsAndFilter(t *testing.T) {
	m := makeModel()
	m.SetRows([]item{{"App", 1}, {"List", 2}, {"Apple", 3}})
	require.Len(t, m.Rows(), 3)

	m.SetFilter(func(v item) bool { return strings.HasPrefix(v.Name, "Ap") })
	rows := m.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "App", rows[0].Name)
	assert.Equal(t, "Apple", rows[1].Name)
	assert.Len(t, m.AllRows(), 3)

	m.ClearFilter()
	assert.Len(t, m.Rows(), 3)
}

func TestFilterClampsCursor(t *testing.T) {
	m := makeModel()
	m.SetRows([]item{{"a", 1}, {"b", 1}, {"c", 1}})
	m.SetCursor(2)
	m.SetFilter(func(v item) bool { return v.Name != "c" })
	assert.Equal(t, 1, m.Cursor())
	require.NotNil(t, m.SelectedRow())
	assert.Equal(t, "b", m.SelectedRow().Name)

	m.SetFilter(func(item) bool { return false })
	assert.Nil(t, m.SelectedRow())
}

func TestCursorMovesWithKeys(t *testing.T) {
	m := makeModel()
	m.SetRows([]item{{"a", 1}, {"b", 2}})
	assert.Equal(t, "a", m.SelectedRow().Name)

	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, "b", m.SelectedRow().Name)
	m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	assert.Equal(t, 1, m.Cursor())
}

func TestFlexibleColumnsShareWidth(t *testing.T) {
	m := makeModel()
	m.SetRows([]item{{"App", 40}})
	m.SetSize(60, 6)
	assert.Greater(t, m.Height(), 0)
	assert.LessOrEqual(t, m.Width(), 60)
	assert.Contains(t, m.View(), "PATHS")
}

func TestFocusAndColors(t *testing.T) {
	m := makeModel()
	m.Blur()
	assert.False(t, m.Focused())
	m.Focus()
	assert.True(t, m.Focused())

	m.SetNoColor(true)
	m.SetRows([]item{{"App", 1}})
	assert.Contains(t, m.View(), "App")
	assert.Contains(t, m.String(), "rows=1")
}
