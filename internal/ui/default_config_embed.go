package ui

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedConfigOnce sync.Once
	embeddedConfig     ConfigFile
	embeddedConfigErr  error
)

// ConfigFile is the YAML configuration: application metadata plus UI settings.
type ConfigFile struct {
	App AppConfig `yaml:"app,omitempty"`
	UI  UIConfig  `yaml:"ui,omitempty"`
}

// AppConfig holds application metadata.
type AppConfig struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// UIConfig holds the interactive settings.
type UIConfig struct {
	Theme     ThemeSelectionConfig   `yaml:"theme,omitempty"`
	Inspector InspectorConfig        `yaml:"inspector,omitempty"`
	Keys      map[string][]string    `yaml:"keys,omitempty"`
	Themes    map[string]ThemeConfig `yaml:"themes,omitempty"`
}

// ThemeSelectionConfig names the default theme.
type ThemeSelectionConfig struct {
	Default string `yaml:"default,omitempty"`
}

// InspectorConfig holds inspector defaults. Command line flags take precedence.
type InspectorConfig struct {
	Expanded     *bool `yaml:"expanded,omitempty"`
	CanEdit      *bool `yaml:"can_edit,omitempty"`
	ScrollMargin *int  `yaml:"scroll_margin,omitempty"`
	Decode       *bool `yaml:"decode,omitempty"`
}

// DefaultConfigYAML returns a copy of the embedded default config YAML bytes.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// EmbeddedDefaultConfig parses the embedded default configuration.
func EmbeddedDefaultConfig() (ConfigFile, error) {
	embeddedConfigOnce.Do(func() {
		if len(embeddedDefaultConfig) == 0 {
			embeddedConfigErr = fmt.Errorf("embedded default config is empty")
			return
		}
		if err := yaml.Unmarshal(embeddedDefaultConfig, &embeddedConfig); err != nil {
			embeddedConfigErr = fmt.Errorf("decode embedded default config: %w", err)
			return
		}
		if embeddedConfig.UI.Themes == nil {
			embeddedConfig.UI.Themes = map[string]ThemeConfig{}
		}
	})
	return embeddedConfig, embeddedConfigErr
}
