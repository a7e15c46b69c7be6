package ui

import (
	"fmt"
	"sort"
	"strings"
)

// Action is something a key press can trigger.
type Action string

const (
	ActionNone            Action = ""
	ActionUp              Action = "up"
	ActionDown            Action = "down"
	ActionPageUp          Action = "page_up"
	ActionPageDown        Action = "page_down"
	ActionTop             Action = "top"
	ActionBottom          Action = "bottom"
	ActionActivate        Action = "activate"
	ActionNextTab         Action = "next_tab"
	ActionPrevTab         Action = "prev_tab"
	ActionNextMutation    Action = "next_mutation"
	ActionPrevMutation    Action = "prev_mutation"
	ActionCopy            Action = "copy"
	ActionFilterPath      Action = "filter_path"
	ActionFilterComponent Action = "filter_component"
	ActionClearFilter     Action = "clear_filter"
	ActionHelp            Action = "help"
	ActionQuit            Action = "quit"
)

// actionHelp describes each action in the help overlay, in display order.
var actionHelp = []struct {
	action Action
	text   string
}{
	{ActionUp, "move up"},
	{ActionDown, "move down"},
	{ActionPageUp, "page up"},
	{ActionPageDown, "page down"},
	{ActionTop, "first line"},
	{ActionBottom, "last line"},
	{ActionActivate, "expand, collapse or edit; jump to path"},
	{ActionNextTab, "next panel"},
	{ActionPrevTab, "previous panel"},
	{ActionNextMutation, "highlight next mutation"},
	{ActionPrevMutation, "highlight previous mutation"},
	{ActionCopy, "copy path"},
	{ActionFilterPath, "filter by path"},
	{ActionFilterComponent, "filter by component"},
	{ActionClearFilter, "clear filters"},
	{ActionHelp, "toggle help"},
	{ActionQuit, "quit"},
}

// DefaultKeyBindings is used when the configuration does not bind an action.
var DefaultKeyBindings = map[Action][]string{
	ActionUp:              {"up", "k"},
	ActionDown:            {"down", "j"},
	ActionPageUp:          {"pgup"},
	ActionPageDown:        {"pgdown"},
	ActionTop:             {"home"},
	ActionBottom:          {"end"},
	ActionActivate:        {"enter", "space"},
	ActionNextTab:         {"tab"},
	ActionPrevTab:         {"shift+tab"},
	ActionNextMutation:    {"n"},
	ActionPrevMutation:    {"p"},
	ActionCopy:            {"y"},
	ActionFilterPath:      {"/"},
	ActionFilterComponent: {"c"},
	ActionClearFilter:     {"esc"},
	ActionHelp:            {"?"},
	ActionQuit:            {"q", "ctrl+c"},
}

// KeyMap resolves key strings to actions.
type KeyMap map[string]Action

// NewKeyMap builds a key map from the defaults with the configured bindings on top.
// A configured action replaces all of its default keys.
func NewKeyMap(bindings map[string][]string) (KeyMap, error) {
	merged := make(map[Action][]string, len(DefaultKeyBindings))
	for a, keys := range DefaultKeyBindings {
		merged[a] = keys
	}
	for name, keys := range bindings {
		a := Action(strings.TrimSpace(name))
		if _, ok := DefaultKeyBindings[a]; !ok {
			return nil, fmt.Errorf("unknown key action %q", name)
		}
		merged[a] = keys
	}
	km := KeyMap{}
	for _, entry := range actionHelp {
		for _, k := range merged[entry.action] {
			k = strings.TrimSpace(k)
			if k == "" {
				continue
			}
			if prev, ok := km[k]; ok && prev != entry.action {
				return nil, fmt.Errorf("key %q is bound to both %s and %s", k, prev, entry.action)
			}
			km[k] = entry.action
		}
	}
	return km, nil
}

// DefaultKeyMap returns the built-in bindings.
func DefaultKeyMap() KeyMap {
	km, _ := NewKeyMap(nil)
	return km
}

// Lookup returns the action bound to key.
func (k KeyMap) Lookup(key string) Action {
	return k[key]
}

// Keys returns the keys bound to a, sorted.
func (k KeyMap) Keys(a Action) []string {
	var out []string
	for key, bound := range k {
		if bound == a {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

// HelpText lists every bound action with its keys.
func (k KeyMap) HelpText() string {
	var b strings.Builder
	for _, entry := range actionHelp {
		keys := k.Keys(entry.action)
		if len(keys) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%-16s %s\n", strings.Join(keys, "/"), entry.text)
	}
	return b.String()
}
