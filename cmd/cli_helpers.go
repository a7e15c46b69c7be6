package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/statelens/internal/inspector"
	"github.com/oakwood-commons/statelens/internal/ui"
	"github.com/oakwood-commons/statelens/pkg/settings"
)

type themeSelectionError struct {
	Selected     string
	Available    []string
	DefaultTheme string
}

func (e themeSelectionError) Error() string {
	return fmt.Sprintf("unknown theme %q\navailable themes: %v\ndefault theme: %s", e.Selected, e.Available, e.DefaultTheme)
}

func defaultThemeName(cfg ui.ConfigFile) string {
	if name := strings.TrimSpace(cfg.UI.Theme.Default); name != "" {
		return name
	}
	return "dark"
}

func applyThemeFromConfig(cfg ui.ConfigFile, cliTheme string, themeFlagSet bool) error {
	selected := strings.TrimSpace(cliTheme)
	if !themeFlagSet || selected == "" {
		selected = defaultThemeName(cfg)
	}
	if err := ui.SetThemeByName(selected); err == nil {
		return nil
	}
	return themeSelectionError{Selected: selected, Available: ui.ThemeNames(), DefaultTheme: defaultThemeName(cfg)}
}

func printThemeSelectionError(w io.Writer, err error) {
	var themeErr themeSelectionError
	if errors.As(err, &themeErr) {
		fmt.Fprintf(w, "unknown theme %q\n", themeErr.Selected)
		fmt.Fprintf(w, "available themes: %v\n", themeErr.Available)
		fmt.Fprintf(w, "default theme: %s\n", themeErr.DefaultTheme)
		return
	}
	fmt.Fprintln(w, err)
}

// loadConfigState loads the merged config, selects the theme and builds the key map.
func loadConfigState(path, cliTheme string, themeFlagSet bool) (ui.ConfigFile, ui.KeyMap, error) {
	cfg, err := loadMergedConfig(path)
	if err != nil {
		return cfg, nil, err
	}
	if err := ui.InitializeThemes(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize themes: %v\n", err)
	}
	if err := applyThemeFromConfig(cfg, cliTheme, themeFlagSet); err != nil {
		return cfg, nil, err
	}
	keys, err := ui.NewKeyMap(cfg.UI.Keys)
	if err != nil {
		return cfg, nil, fmt.Errorf("keys: %w", err)
	}
	return cfg, keys, nil
}

// applyInspectorConfig copies config defaults into run for every flag the user did
// not set.
func applyInspectorConfig(cmd *cobra.Command, cfg ui.InspectorConfig, run *settings.Run) {
	flags := cmd.Flags()
	if cfg.Expanded != nil && !flags.Changed("expanded") {
		run.Expanded = *cfg.Expanded
	}
	if cfg.CanEdit != nil && !flags.Changed("can-edit") {
		run.CanEdit = *cfg.CanEdit
	}
	if cfg.Decode != nil && !flags.Changed("decode") {
		run.Decode = *cfg.Decode
	}
}

// inspectorSettings resolves the highlight and expand expressions against state.
func inspectorSettings(run *settings.Run, cfg ui.InspectorConfig, state inspector.Value) (ui.InspectorSettings, error) {
	out := ui.InspectorSettings{Expanded: run.Expanded, CanEdit: run.CanEdit}
	if cfg.ScrollMargin != nil {
		out.ScrollMargin = *cfg.ScrollMargin
	}
	if run.Highlight != "" {
		p, err := inspector.ParsePath(state, run.Highlight)
		if err != nil {
			return out, fmt.Errorf("--highlight: %w", err)
		}
		out.Highlight = &p
	}
	for _, expr := range run.Expand {
		p, err := inspector.ParsePath(state, expr)
		if err != nil {
			return out, fmt.Errorf("--expand: %w", err)
		}
		out.Expand = append(out.Expand, p)
	}
	return out, nil
}

// pathList is a repeatable flag collecting path expressions.
type pathList []string

func (p *pathList) String() string { return "[" + strings.Join(*p, ",") + "]" }

func (p *pathList) Set(v string) error {
	*p = append(*p, v)
	return nil
}

func (p *pathList) Type() string { return "path" }

func (p *pathList) Append(v string) error { return p.Set(v) }

func (p *pathList) Replace(vals []string) error {
	*p = append((*p)[:0], vals...)
	return nil
}

func (p *pathList) GetSlice() []string { return append([]string(nil), *p...) }

func cliVersionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s %s (commit %s, built %s)", settings.CliBinaryName, v.BuildVersion, v.Commit, v.BuildTime)
}
