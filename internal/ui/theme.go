package ui

import (
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/statelens/internal/inspector"
)

// Theme defines the colors used across the UI.
type Theme struct {
	KeyColor     color.Color // property keys
	StringColor  color.Color
	NumberColor  color.Color
	BooleanColor color.Color
	NullColor    color.Color
	PunctColor   color.Color // brackets, colons, commas
	SummaryColor color.Color // collapsed previews

	HighlightFG color.Color // highlighted node lines
	HighlightBG color.Color
	CursorBG    color.Color // cursor line background

	HeaderFG    color.Color // tab bar
	HeaderBG    color.Color
	SelectedFG  color.Color // active tab and selected table row
	SelectedBG  color.Color
	BorderStyle string // normal|rounded

	StatusColor   color.Color
	StatusError   color.Color
	StatusSuccess color.Color
	FooterFG      color.Color
	FooterBG      color.Color
	HelpKey       color.Color
	HelpValue     color.Color
}

var (
	currentTheme Theme
	themeSet     bool

	// loadedThemes holds every theme from the merged configuration, by name.
	loadedThemes = map[string]Theme{}
)

// fallbackTheme is used when the embedded configuration cannot be read.
func fallbackTheme() Theme {
	return Theme{
		KeyColor:      lipgloss.Color("81"),
		StringColor:   lipgloss.Color("114"),
		NumberColor:   lipgloss.Color("215"),
		BooleanColor:  lipgloss.Color("177"),
		NullColor:     lipgloss.Color("244"),
		PunctColor:    lipgloss.Color("246"),
		SummaryColor:  lipgloss.Color("244"),
		HighlightFG:   lipgloss.Color("230"),
		HighlightBG:   lipgloss.Color("58"),
		CursorBG:      lipgloss.Color("236"),
		HeaderFG:      lipgloss.Color("81"),
		HeaderBG:      lipgloss.Color("236"),
		SelectedFG:    lipgloss.Color("250"),
		SelectedBG:    lipgloss.Color("24"),
		BorderStyle:   "normal",
		StatusColor:   lipgloss.Color("81"),
		StatusError:   lipgloss.Color("203"),
		StatusSuccess: lipgloss.Color("114"),
		FooterFG:      lipgloss.Color("244"),
		FooterBG:      lipgloss.Color("236"),
		HelpKey:       lipgloss.Color("81"),
		HelpValue:     lipgloss.Color("245"),
	}
}

// DefaultTheme returns the default theme of the embedded configuration.
func DefaultTheme() Theme {
	cfg, err := EmbeddedDefaultConfig()
	if err != nil {
		return fallbackTheme()
	}
	if th, ok := cfg.UI.Themes[cfg.UI.Theme.Default]; ok {
		return ThemeFromConfig(th)
	}
	return fallbackTheme()
}

// SetTheme overrides the global theme.
func SetTheme(t Theme) {
	t.BorderStyle = normalizeBorderStyle(t.BorderStyle)
	currentTheme = t
	themeSet = true
}

// CurrentTheme returns the configured theme.
func CurrentTheme() Theme {
	if !themeSet {
		SetTheme(DefaultTheme())
	}
	return currentTheme
}

// InitializeThemes loads every theme from cfg so they can be selected by name.
func InitializeThemes(cfg *ConfigFile) error {
	if cfg == nil || len(cfg.UI.Themes) == 0 {
		return fmt.Errorf("configuration defines no themes")
	}
	loadedThemes = make(map[string]Theme, len(cfg.UI.Themes))
	for name, tc := range cfg.UI.Themes {
		loadedThemes[name] = ThemeFromConfig(tc)
	}
	return nil
}

// SetThemeByName selects a loaded theme.
func SetThemeByName(name string) error {
	th, ok := GetTheme(name)
	if !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
	}
	SetTheme(th)
	return nil
}

// GetTheme returns a loaded theme by name.
func GetTheme(name string) (Theme, bool) {
	th, ok := loadedThemes[name]
	return th, ok
}

// ThemeNames lists the loaded themes in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(loadedThemes))
	for name := range loadedThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ColorValue stores a color token (number or name) and marshals numerics as YAML ints.
type ColorValue string

func (c ColorValue) MarshalYAML() (interface{}, error) {
	if c == "" {
		return "", nil
	}
	s := string(c)
	if _, err := strconv.Atoi(s); err == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: s}, nil
	}
	return s, nil
}

func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*c = ""
		return nil
	}
	*c = ColorValue(value.Value)
	return nil
}

// ThemeConfig is the YAML form of a Theme. Colors accept ANSI numbers or hex strings.
type ThemeConfig struct {
	KeyColor      ColorValue `yaml:"key_color,omitempty"`
	StringColor   ColorValue `yaml:"string_color,omitempty"`
	NumberColor   ColorValue `yaml:"number_color,omitempty"`
	BooleanColor  ColorValue `yaml:"boolean_color,omitempty"`
	NullColor     ColorValue `yaml:"null_color,omitempty"`
	PunctColor    ColorValue `yaml:"punct_color,omitempty"`
	SummaryColor  ColorValue `yaml:"summary_color,omitempty"`
	HighlightFG   ColorValue `yaml:"highlight_fg,omitempty"`
	HighlightBG   ColorValue `yaml:"highlight_bg,omitempty"`
	CursorBG      ColorValue `yaml:"cursor_bg,omitempty"`
	HeaderFG      ColorValue `yaml:"header_fg,omitempty"`
	HeaderBG      ColorValue `yaml:"header_bg,omitempty"`
	SelectedFG    ColorValue `yaml:"selected_fg,omitempty"`
	SelectedBG    ColorValue `yaml:"selected_bg,omitempty"`
	BorderStyle   string     `yaml:"border_style,omitempty"`
	StatusColor   ColorValue `yaml:"status_color,omitempty"`
	StatusError   ColorValue `yaml:"status_error,omitempty"`
	StatusSuccess ColorValue `yaml:"status_success,omitempty"`
	FooterFG      ColorValue `yaml:"footer_fg,omitempty"`
	FooterBG      ColorValue `yaml:"footer_bg,omitempty"`
	HelpKey       ColorValue `yaml:"help_key,omitempty"`
	HelpValue     ColorValue `yaml:"help_value,omitempty"`
}

// colorFields pairs each config field with its theme field.
func colorFields(cfg *ThemeConfig, th *Theme) []struct {
	src *ColorValue
	dst *color.Color
} {
	return []struct {
		src *ColorValue
		dst *color.Color
	}{
		{&cfg.KeyColor, &th.KeyColor},
		{&cfg.StringColor, &th.StringColor},
		{&cfg.NumberColor, &th.NumberColor},
		{&cfg.BooleanColor, &th.BooleanColor},
		{&cfg.NullColor, &th.NullColor},
		{&cfg.PunctColor, &th.PunctColor},
		{&cfg.SummaryColor, &th.SummaryColor},
		{&cfg.HighlightFG, &th.HighlightFG},
		{&cfg.HighlightBG, &th.HighlightBG},
		{&cfg.CursorBG, &th.CursorBG},
		{&cfg.HeaderFG, &th.HeaderFG},
		{&cfg.HeaderBG, &th.HeaderBG},
		{&cfg.SelectedFG, &th.SelectedFG},
		{&cfg.SelectedBG, &th.SelectedBG},
		{&cfg.StatusColor, &th.StatusColor},
		{&cfg.StatusError, &th.StatusError},
		{&cfg.StatusSuccess, &th.StatusSuccess},
		{&cfg.FooterFG, &th.FooterFG},
		{&cfg.FooterBG, &th.FooterBG},
		{&cfg.HelpKey, &th.HelpKey},
		{&cfg.HelpValue, &th.HelpValue},
	}
}

// ThemeFromConfig builds a Theme from cfg; empty fields keep the fallback palette.
func ThemeFromConfig(cfg ThemeConfig) Theme {
	th := fallbackTheme()
	for _, f := range colorFields(&cfg, &th) {
		if *f.src != "" {
			*f.dst = lipgloss.Color(string(*f.src))
		}
	}
	if cfg.BorderStyle != "" {
		th.BorderStyle = cfg.BorderStyle
	}
	th.BorderStyle = normalizeBorderStyle(th.BorderStyle)
	return th
}

// MergeThemeConfig overlays the non-empty fields of override on base.
func MergeThemeConfig(base, override ThemeConfig) ThemeConfig {
	out := base
	var scratch Theme
	dst := colorFields(&out, &scratch)
	src := colorFields(&override, &scratch)
	for i := range dst {
		if *src[i].src != "" {
			*dst[i].src = *src[i].src
		}
	}
	if strings.TrimSpace(override.BorderStyle) != "" {
		out.BorderStyle = override.BorderStyle
	}
	return out
}

func normalizeBorderStyle(val string) string {
	switch strings.TrimSpace(strings.ToLower(val)) {
	case "rounded", "round":
		return "rounded"
	default:
		return "normal"
	}
}

func borderForTheme(th Theme) lipgloss.Border {
	if th.BorderStyle == "rounded" {
		return lipgloss.RoundedBorder()
	}
	return lipgloss.NormalBorder()
}

// classColor maps an inspector span class to its theme color.
func (t Theme) classColor(c inspector.Class) color.Color {
	switch c {
	case inspector.ClassKey:
		return t.KeyColor
	case inspector.ClassString:
		return t.StringColor
	case inspector.ClassNumber:
		return t.NumberColor
	case inspector.ClassBoolean:
		return t.BooleanColor
	case inspector.ClassNull:
		return t.NullColor
	case inspector.ClassSummary:
		return t.SummaryColor
	default:
		return t.PunctColor
	}
}
