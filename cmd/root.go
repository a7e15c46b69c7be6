package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/oakwood-commons/statelens/internal/cel"
	"github.com/oakwood-commons/statelens/internal/formatter"
	"github.com/oakwood-commons/statelens/internal/inspector"
	"github.com/oakwood-commons/statelens/internal/store"
	"github.com/oakwood-commons/statelens/internal/ui"
	"github.com/oakwood-commons/statelens/pkg/logger"
	"github.com/oakwood-commons/statelens/pkg/settings"
)

var (
	interactive    bool
	renderSnapshot bool
	expanded       bool
	canEdit        bool
	highlightExpr  string
	expandPaths    pathList
	decodeStrings  bool
	expression     string
	outputFormat   string
	startKeys      []string
	writePath      string

	themeName      string
	configFile     string
	noColor        bool
	logLevel       int
	logFile        string
	snapshotWidth  int
	snapshotHeight int
)

var rootCtx = context.Background()

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName + " [file]",
	Short: "Inspect and edit recorded application state",
	Long: `statelens loads a debugging session (state, mutations, renders and state paths)
from a JSON, YAML or TOML file, or from stdin, and shows the state as a collapsible
tree. The node touched by the last mutation is highlighted and scrolled into view.

Without -i or --snapshot the state is printed once and statelens exits.`,
	Example: `
  statelens session.json
  statelens session.json -i --can-edit --write state.json
  statelens session.json --highlight 'user.profile.name' -o text
  statelens session.json --snapshot --width 100 --height 30 --press '<Tab>'
  statelens session.json -e 'size(_.todos.filter(t, !t.done))'
  cat session.json | statelens -i`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       cliVersionString(),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		lgr, err := logger.Setup(logger.Options{Level: int8(-logLevel), File: logFile})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		}
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())

		run := newRunSettings(args)
		rootCtx = settings.IntoContext(logger.WithLogger(context.Background(), lgr), run)
		cmd.SetContext(rootCtx)
		return nil
	},
	RunE: runRoot,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config-file", "", "config file (default $XDG_CONFIG_HOME/statelens/config.yaml)")
	pf.StringVar(&themeName, "theme", "", "color theme (see 'statelens themes')")
	pf.BoolVar(&noColor, "no-color", false, "disable colors")
	pf.IntVar(&logLevel, "log-level", 0, "log verbosity (0 info, 1 debug, 2 trace)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")

	f := rootCmd.Flags()
	f.BoolVarP(&interactive, "interactive", "i", false, "start the interactive UI")
	f.BoolVar(&renderSnapshot, "snapshot", false, "render one frame of the UI and exit")
	f.BoolVar(&expanded, "expanded", true, "open the root container on start")
	f.BoolVar(&canEdit, "can-edit", false, "allow scalar values to be edited")
	f.StringVar(&highlightExpr, "highlight", "", "path to highlight instead of the last mutation (e.g. user.tags[0])")
	f.Var(&expandPaths, "expand", "path to expand on start (repeatable)")
	f.BoolVar(&decodeStrings, "decode", false, "decode string values that hold serialized JSON or YAML")
	f.StringVarP(&expression, "expr", "e", "", "evaluate a CEL expression against the state (_) and print the result")
	f.StringVarP(&outputFormat, "output", "o", "text", "non-interactive output: text, tree, json or yaml")
	f.StringArrayVar(&startKeys, "press", nil, "keys to send on start, e.g. '<Tab><Down><CR>'")
	f.StringVar(&writePath, "write", "", "save the edited state to this file on exit")
	f.IntVar(&snapshotWidth, "width", 0, "UI width (default: terminal width)")
	f.IntVar(&snapshotHeight, "height", 0, "UI height (default: terminal height)")

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(versionCmd, themesCmd, configCmd, rendersCmd, statePathsCmd)
	registerCompletions()
}

func newRunSettings(args []string) *settings.Run {
	run := settings.NewCliParams()
	if len(args) > 0 && args[0] != "-" {
		run.EntryPointSettings.Path = args[0]
	}
	run.MinLogLevel = int8(-logLevel)
	run.LogFile = logFile
	run.Interactive = interactive
	run.Snapshot = renderSnapshot
	run.Expanded = expanded
	run.CanEdit = canEdit
	run.Highlight = strings.TrimSpace(highlightExpr)
	run.Expand = expandPaths.GetSlice()
	run.Decode = decodeStrings
	run.Expr = strings.TrimSpace(expression)
	run.Width = snapshotWidth
	run.Height = snapshotHeight
	run.Theme = themeName
	run.ConfigFile = resolveConfigPath(configFile)
	run.Write = writePath
	run.NoColor = noColor || os.Getenv("NO_COLOR") != ""
	return run
}

func runRoot(cmd *cobra.Command, args []string) error {
	run := settings.FromContextOrDefault(cmd.Context())
	lgr := logger.FromContext(cmd.Context())
	out := cmd.OutOrStdout()

	cfg, keys, err := loadConfigState(run.ConfigFile, run.Theme, cmd.Flags().Changed("theme"))
	if err != nil {
		printThemeSelectionError(cmd.ErrOrStderr(), err)
		return err
	}
	applyInspectorConfig(cmd, cfg.UI.Inspector, run)

	s, err := readSession(args, cmd.InOrStdin())
	if errors.Is(err, errNoInput) {
		return cmd.Help()
	}
	if err != nil {
		return err
	}
	prepareSession(s, run.Decode)
	lgr.V(1).Info("session loaded", logger.SourceKey, run.Source(),
		"mutations", len(s.Mutations), "renders", len(s.Renders), "statePaths", len(s.StatePaths))

	if run.Expr != "" {
		return evalExpression(out, run.Expr, s.State)
	}

	inspSettings, err := inspectorSettings(run, cfg.UI.Inspector, s.State)
	if err != nil {
		return err
	}
	ws := ui.NewWorkspace(s, run.Source(), inspSettings, lgr)

	switch {
	case run.Snapshot:
		w, h := resolveSnapshotSize(run.Width, run.Height)
		fmt.Fprintln(out, ui.RenderSnapshot(ws, ui.SnapshotConfig{
			Width:     w,
			Height:    h,
			NoColor:   run.NoColor,
			StartKeys: startKeys,
			Keys:      keys,
		}))
	case run.Interactive:
		opts, cleanup := getProgramOptions()
		defer cleanup()
		if _, err := ui.Run(ws, ui.RunConfig{
			Width:     run.Width,
			Height:    run.Height,
			NoColor:   run.NoColor,
			StartKeys: startKeys,
			Keys:      keys,
		}, opts...); err != nil {
			return err
		}
	default:
		if err := printState(out, ws, outputFormat); err != nil {
			return err
		}
	}

	return saveEdits(ws, run.Write, lgr)
}

func saveEdits(ws *ui.Workspace, path string, lgr *logr.Logger) error {
	if path == "" || !ws.Dirty() {
		return nil
	}
	if err := writeState(path, ws.Store.Pretty()); err != nil {
		return err
	}
	lgr.Info("state written", "file", path, "version", ws.Store.Version())
	return nil
}

// printState writes the state once in the requested format.
func printState(w io.Writer, ws *ui.Workspace, format string) error {
	state := ws.Store.Value()
	switch strings.ToLower(format) {
	case "", "text":
		_, err := io.WriteString(w, renderText(ws))
		return err
	case "tree":
		_, err := fmt.Fprintln(w, formatter.FormatAsTree(state, formatter.TreeOptions{}))
		return err
	case "json":
		_, err := fmt.Fprintln(w, ws.Store.Pretty())
		return err
	case "yaml":
		out, err := formatter.FormatYAML(state, formatter.YAMLFormatOptions{LiteralBlockStrings: true})
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unknown output format %q (expected text, tree, json or yaml)", format)
	}
}

// renderText draws the tree the state panel would show, without styling. Highlighted
// lines are marked with '*' in the gutter.
func renderText(ws *ui.Workspace) string {
	set := ws.Settings
	in := inspector.New(inspector.Options{Expanded: set.Expanded, ScrollMargin: set.ScrollMargin})
	var hl *inspector.Path
	if set.Highlight != nil {
		hl = set.Highlight
	} else if p, ok := ws.Session.LastMutationPath(); ok {
		hl = &p
	}
	in.Update(inspector.Props{
		Value:     ws.Store.Value(),
		Highlight: hl,
		Expanded:  inspector.NewPathSet(set.Expand...),
	})

	var b strings.Builder
	for _, ln := range in.Lines() {
		gutter := "  "
		if ln.Highlight {
			gutter = "* "
		}
		b.WriteString(gutter)
		b.WriteString(inspector.PlainText([]inspector.Line{ln}))
	}
	return b.String()
}

func evalExpression(w io.Writer, expr string, state inspector.Value) error {
	ev, err := cel.NewEvaluator()
	if err != nil {
		return err
	}
	v, err := ev.Evaluate(expr, state)
	if err != nil {
		return err
	}
	if v.IsContainer() {
		return printValueJSON(w, v)
	}
	if v.Kind() == inspector.KindString {
		_, err = fmt.Fprintln(w, v.StringValue())
		return err
	}
	_, err = fmt.Fprintln(w, v.JSON())
	return err
}

func printValueJSON(w io.Writer, v inspector.Value) error {
	_, err := fmt.Fprintln(w, store.New(v).Pretty())
	return err
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		var themeErr themeSelectionError
		if !errors.As(err, &themeErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return err
	}
	return nil
}
