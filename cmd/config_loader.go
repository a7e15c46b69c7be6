package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/statelens/internal/ui"
)

// configLoader merges the embedded defaults with an optional user file.
type configLoader struct {
	defaultConfig func() ([]byte, error)
}

var cfgLoader = configLoader{defaultConfig: loadDefaultConfigYAML}

func loadMergedConfig(cfgPath string) (ui.ConfigFile, error) {
	return cfgLoader.loadMergedConfig(cfgPath)
}

func loadDefaultConfigYAML() ([]byte, error) {
	data := ui.DefaultConfigYAML()
	if len(data) == 0 {
		return nil, fmt.Errorf("embedded default config is empty")
	}
	return data, nil
}

func (l configLoader) loadMergedConfig(cfgPath string) (ui.ConfigFile, error) {
	var cfg ui.ConfigFile

	defaultData, err := l.defaultConfig()
	if err != nil {
		return cfg, fmt.Errorf("load default config: %w", err)
	}
	if err := yaml.Unmarshal(defaultData, &cfg); err != nil {
		return cfg, fmt.Errorf("decode default config: %w", err)
	}
	if cfg.UI.Theme.Default == "" || len(cfg.UI.Themes) == 0 {
		return cfg, fmt.Errorf("default config is missing required theme defaults")
	}

	if cfgPath == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return cfg, err
	}
	var user ui.ConfigFile
	if err := yaml.Unmarshal(data, &user); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", cfgPath, err)
	}
	return mergeConfig(cfg, user), nil
}

// mergeConfig overlays every field override sets onto base. Themes merge per color so
// a user theme can change a single entry of a built-in one.
func mergeConfig(base, override ui.ConfigFile) ui.ConfigFile {
	out := base
	if override.App.Name != "" {
		out.App.Name = override.App.Name
	}
	if override.App.Description != "" {
		out.App.Description = override.App.Description
	}
	if override.UI.Theme.Default != "" {
		out.UI.Theme.Default = override.UI.Theme.Default
	}

	in := override.UI.Inspector
	if in.Expanded != nil {
		out.UI.Inspector.Expanded = in.Expanded
	}
	if in.CanEdit != nil {
		out.UI.Inspector.CanEdit = in.CanEdit
	}
	if in.ScrollMargin != nil {
		out.UI.Inspector.ScrollMargin = in.ScrollMargin
	}
	if in.Decode != nil {
		out.UI.Inspector.Decode = in.Decode
	}

	out.UI.Keys = make(map[string][]string, len(base.UI.Keys)+len(override.UI.Keys))
	for action, keys := range base.UI.Keys {
		out.UI.Keys[action] = keys
	}
	for action, keys := range override.UI.Keys {
		out.UI.Keys[action] = keys
	}

	out.UI.Themes = make(map[string]ui.ThemeConfig, len(base.UI.Themes)+len(override.UI.Themes))
	for name, th := range base.UI.Themes {
		out.UI.Themes[name] = th
	}
	for name, th := range override.UI.Themes {
		if existing, ok := out.UI.Themes[name]; ok {
			th = ui.MergeThemeConfig(existing, th)
		}
		out.UI.Themes[name] = th
	}
	return out
}

// resolveConfigPath returns explicit when set, otherwise the XDG config file if it
// exists.
func resolveConfigPath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	candidate := ""
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidate = filepath.Join(xdg, "statelens", "config.yaml")
	} else if home, err := os.UserHomeDir(); err == nil {
		candidate = filepath.Join(home, ".config", "statelens", "config.yaml")
	}
	if candidate != "" {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate
		}
	}
	return ""
}
