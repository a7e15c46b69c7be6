package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/statelens/internal/debugger"
	"github.com/oakwood-commons/statelens/internal/formatter"
)

var (
	statePathsPathFilter      string
	statePathsComponentFilter string
	statePathsOutput          string
)

var statePathsCmd = &cobra.Command{
	Use:     "statepaths [file]",
	Aliases: []string{"components"},
	Short:   "List registered components and the state paths they depend on",
	Example: `
  statelens statepaths session.json
  statelens statepaths session.json --component todo -o tree
  statelens statepaths session.json -o paths`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := readSession(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		counts := debugger.CountStatePaths(s.StatePaths)
		entries := debugger.FilterComponents(debugger.AggregateComponents(s.StatePaths), statePathsPathFilter, statePathsComponentFilter)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d state paths, %d components\n", counts.StatePaths, counts.Components)
		switch strings.ToLower(statePathsOutput) {
		case "", "table":
			if len(entries) > 0 {
				formatter.WriteTable(out, formatter.ComponentHeader, formatter.ComponentRows(entries))
			}
		case "tree":
			fmt.Fprintln(out, formatter.ComponentTree(entries))
		case "paths":
			fmt.Fprintln(out, formatter.StatePathTree(filterStatePaths(s.StatePaths, entries)))
		default:
			return fmt.Errorf("unknown output format %q (expected table, tree or paths)", statePathsOutput)
		}
		return nil
	},
}

// filterStatePaths keeps the registry paths that belong to a listed component.
func filterStatePaths(paths []debugger.StatePath, entries []debugger.ComponentEntry) []debugger.StatePath {
	keep := make(map[int]struct{}, len(entries))
	for _, e := range entries {
		keep[e.ID] = struct{}{}
	}
	out := make([]debugger.StatePath, 0, len(paths))
	for _, sp := range paths {
		if statePathsPathFilter != "" && !strings.Contains(sp.Path, statePathsPathFilter) {
			continue
		}
		var comps []debugger.Component
		for _, c := range sp.Components {
			if _, ok := keep[c.ID]; ok {
				comps = append(comps, c)
			}
		}
		if len(comps) > 0 {
			out = append(out, debugger.StatePath{Path: sp.Path, Components: comps})
		}
	}
	return out
}

func init() {
	f := statePathsCmd.Flags()
	f.StringVar(&statePathsPathFilter, "path", "", "keep components depending on a path containing this text")
	f.StringVar(&statePathsComponentFilter, "component", "", "keep components whose name contains this text")
	f.StringVarP(&statePathsOutput, "output", "o", "table", "output: table, tree or paths")
}
