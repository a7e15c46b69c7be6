package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/statelens/internal/cel"
	"github.com/oakwood-commons/statelens/internal/debugger"
	"github.com/oakwood-commons/statelens/internal/formatter"
	"github.com/oakwood-commons/statelens/internal/limiter"
	"github.com/oakwood-commons/statelens/pkg/logger"
)

var (
	rendersPathFilter      string
	rendersComponentFilter string
	rendersWhere           string
	rendersWindow          limiter.Config
)

var rendersCmd = &cobra.Command{
	Use:   "renders [file]",
	Short: "List the recorded renders",
	Long: `List every recorded render with its start time, duration, changed paths and the
components that rendered. --path keeps renders with a changed path containing the
text; --component keeps renders of a component whose name contains it, ignoring case.
--where takes a CEL predicate over render.start, render.duration, render.paths and
render.components.`,
	Example: `
  statelens renders session.json --path todos
  statelens renders session.json --where 'render.duration > 5.0 && "TodoList" in render.components'`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := rendersWindow.Validate(); err != nil {
			return err
		}
		s, err := readSession(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		renders := debugger.FilterRenders(s.Renders, rendersPathFilter, rendersComponentFilter)
		if rendersWhere != "" {
			ev, err := cel.NewEvaluator()
			if err != nil {
				return err
			}
			pred, err := ev.Compile(rendersWhere)
			if err != nil {
				return err
			}
			if renders, err = debugger.WhereRenders(renders, pred); err != nil {
				return err
			}
		}
		matched := len(renders)
		renders = limiter.Apply(rendersWindow, renders)
		logger.FromContext(cmd.Context()).V(1).Info("renders listed", "total", len(s.Renders), "matched", matched, "shown", len(renders))

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d of %d renders", matched, len(s.Renders))
		if rendersWindow.IsActive() {
			fmt.Fprintf(out, ", %s", rendersWindow.Describe(matched))
		}
		fmt.Fprintln(out)
		if len(renders) > 0 {
			formatter.WriteTable(out, formatter.RenderHeader, formatter.RenderRows(renders))
		}
		return nil
	},
}

func init() {
	f := rendersCmd.Flags()
	f.StringVar(&rendersPathFilter, "path", "", "keep renders that changed a path containing this text")
	f.StringVar(&rendersComponentFilter, "component", "", "keep renders of components whose name contains this text")
	f.StringVar(&rendersWhere, "where", "", "CEL predicate over the render variable")
	f.IntVar(&rendersWindow.Limit, "limit", 0, "show at most this many renders")
	f.IntVar(&rendersWindow.Offset, "offset", 0, "skip this many renders")
	f.IntVar(&rendersWindow.Tail, "tail", 0, "show only the last N renders")
}
