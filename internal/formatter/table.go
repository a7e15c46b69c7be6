package formatter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/oakwood-commons/statelens/internal/debugger"
)

// WriteTable writes a borderless, unwrapped table.
func WriteTable(w io.Writer, header []string, rows [][]string) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader(header)
	tbl.SetAutoWrapText(false)
	tbl.SetAutoFormatHeaders(false)
	tbl.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tbl.SetAlignment(tablewriter.ALIGN_LEFT)
	tbl.SetBorder(false)
	tbl.SetColumnSeparator("")
	tbl.SetCenterSeparator("")
	tbl.SetRowSeparator("")
	tbl.SetHeaderLine(false)
	tbl.SetTablePadding("  ")
	tbl.SetNoWhiteSpace(true)
	tbl.AppendBulk(rows)
	tbl.Render()
}

// RenderRow formats one render: start clock, duration, changed paths and the
// components that rendered, each de-duplicated.
func RenderRow(r debugger.Render) []string {
	return []string{
		r.Clock(),
		fmt.Sprintf("%.1fms", r.Duration),
		strings.Join(debugger.Unique(r.Paths()), ", "),
		strings.Join(debugger.Unique(r.Components), ", "),
	}
}

// RenderRows returns the render log as table rows.
func RenderRows(renders []debugger.Render) [][]string {
	rows := make([][]string, len(renders))
	for i, r := range renders {
		rows[i] = RenderRow(r)
	}
	return rows
}

// RenderHeader names the columns of RenderRows.
var RenderHeader = []string{"TIME", "DURATION", "PATHS", "COMPONENTS"}

// ComponentRow formats one component: id, label and dependent paths.
func ComponentRow(e debugger.ComponentEntry) []string {
	return []string{strconv.Itoa(e.ID), e.Label(), strings.Join(e.Paths, ", ")}
}

// ComponentRows returns the component registry as table rows.
func ComponentRows(entries []debugger.ComponentEntry) [][]string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = ComponentRow(e)
	}
	return rows
}

// ComponentHeader names the columns of ComponentRows.
var ComponentHeader = []string{"ID", "COMPONENT", "PATHS"}
