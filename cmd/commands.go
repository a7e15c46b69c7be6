package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/statelens/internal/ui"
	"github.com/oakwood-commons/statelens/pkg/settings"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), cliVersionString())
	},
}

var themesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List the available color themes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		run := settings.FromContextOrDefault(cmd.Context())
		cfg, err := loadMergedConfig(run.ConfigFile)
		if err != nil {
			return err
		}
		if err := ui.InitializeThemes(&cfg); err != nil {
			return err
		}
		def := defaultThemeName(cfg)
		for _, name := range ui.ThemeNames() {
			marker := "  "
			if name == def {
				marker = "* "
			}
			fmt.Fprintln(cmd.OutOrStdout(), marker+name)
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the embedded defaults merged with the user config file. The output is a
valid config file and can be saved to $XDG_CONFIG_HOME/statelens/config.yaml as a
starting point.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		run := settings.FromContextOrDefault(cmd.Context())
		cfg, err := loadMergedConfig(run.ConfigFile)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		source := "embedded defaults"
		if run.ConfigFile != "" {
			source = "embedded defaults + " + run.ConfigFile
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s configuration (%s)\n%s", settings.CliBinaryName, source, strings.TrimLeft(string(data), "\n"))
		return nil
	},
}
