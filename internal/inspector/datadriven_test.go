package inspector

import (
	"fmt"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/stretchr/testify/require"
)

// TestInspectorTranscripts replays the scripts in testdata/. Each command prints the
// callbacks it caused followed by the rendered tree; highlighted lines end in " <hl>".
func TestInspectorTranscripts(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		var (
			in       *Inspector
			value    Value
			props    Props
			expanded PathSet
			events   []string
		)

		parse := func(t *testing.T, d *datadriven.TestData) Path {
			var expr string
			d.ScanArgs(t, "path", &expr)
			p, err := ParsePath(value, expr)
			require.NoError(t, err)
			return p
		}

		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			events = events[:0]
			var err error
			switch d.Cmd {
			case "new":
				opts := Options{
					Expanded:   d.HasArg("expanded"),
					CanEdit:    d.HasArg("can-edit"),
					OnExpand:   func() { events = append(events, "root expand") },
					OnCollapse: func() { events = append(events, "root collapse") },
				}
				d.MaybeScanArgs(t, "margin", &opts.ScrollMargin)
				track := d.HasArg("track")
				in = New(opts)
				expanded = NewPathSet()
				value = mustJSON(t, d.Input)
				props = Props{
					Value:    value,
					Expanded: expanded,
					OnPathToggled: func(pt PathToggle) {
						events = append(events, fmt.Sprintf("toggled %s %t", pt.Path, pt.Expanded))
						if track {
							expanded.Apply(pt)
						}
					},
					OnModelChange: func(mc ModelChange) {
						events = append(events, fmt.Sprintf("changed %s %s", mc.Path, mc.Value.JSON()))
					},
				}
				in.Update(props)

			case "update":
				if strings.TrimSpace(d.Input) != "" {
					value = mustJSON(t, d.Input)
					props.Value = value
				}
				props.Highlight = nil
				for _, arg := range d.CmdArgs {
					if arg.Key != "highlight" || len(arg.Vals) == 0 {
						continue
					}
					p, perr := ParsePath(value, arg.Vals[0])
					require.NoError(t, perr)
					props.Highlight = &p
				}
				in.Update(props)
				if idx, ok := in.TakeScroll(); ok {
					events = append(events, fmt.Sprintf("scroll %d", idx))
				}

			case "click":
				err = in.Activate(parse(t, d))
			case "hover":
				err = in.Hover(parse(t, d))
			case "leave":
				in.Leave()
			case "submit":
				err = in.Submit(parse(t, d), strings.TrimSpace(d.Input))
			case "blur":
				err = in.Blur(parse(t, d))
			case "expanded":
				var b strings.Builder
				for _, p := range expanded.Paths() {
					fmt.Fprintln(&b, p)
				}
				return b.String()
			case "render":
			default:
				d.Fatalf(t, "unknown command %s", d.Cmd)
			}

			var b strings.Builder
			for _, ev := range events {
				fmt.Fprintln(&b, ev)
			}
			if err != nil {
				fmt.Fprintf(&b, "error: %v\n", err)
			}
			for _, ln := range in.Lines() {
				b.WriteString(strings.Repeat(Indent, ln.Depth))
				b.WriteString(ln.Text())
				if ln.Role == RoleEditor {
					fmt.Fprintf(&b, "[%s]", ln.EditSeed)
					if ln.TrailingComma {
						b.WriteString(",")
					}
				}
				if ln.Highlight {
					b.WriteString(" <hl>")
				}
				b.WriteByte('\n')
			}
			return b.String()
		})
	})
}
