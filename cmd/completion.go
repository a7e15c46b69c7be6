package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/statelens/internal/completion"
	"github.com/oakwood-commons/statelens/internal/debugger"
)

// completeStatePath completes --highlight and --expand against the state of the
// session file named on the command line.
func completeStatePath(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	s, err := debugger.LoadSession(data)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return pathCandidates(s, toComplete), cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func pathCandidates(s *debugger.Session, toComplete string) []string {
	cs := completion.Paths(s.State, toComplete)
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Text+"\t"+c.Detail)
	}
	return out
}

func registerCompletions() {
	for _, name := range []string{"highlight", "expand"} {
		_ = rootCmd.RegisterFlagCompletionFunc(name, completeStatePath)
	}
	_ = rootCmd.RegisterFlagCompletionFunc("output", cobra.FixedCompletions([]string{"text", "tree", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))
	_ = rootCmd.RegisterFlagCompletionFunc("theme", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		cfg, err := loadMergedConfig(resolveConfigPath(configFile))
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		names := make([]string, 0, len(cfg.UI.Themes))
		for name := range cfg.UI.Themes {
			names = append(names, name)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}
