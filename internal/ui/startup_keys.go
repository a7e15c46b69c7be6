package ui

import (
	"strings"

	tea "charm.land/bubbletea/v2"
)

// namedKeys maps the <...> tokens accepted by ParseKeys to key presses.
var namedKeys = map[string]tea.KeyPressMsg{
	"esc":       {Code: tea.KeyEscape},
	"escape":    {Code: tea.KeyEscape},
	"c-[":       {Code: tea.KeyEscape},
	"cr":        {Code: tea.KeyEnter},
	"enter":     {Code: tea.KeyEnter},
	"return":    {Code: tea.KeyEnter},
	"tab":       {Code: tea.KeyTab},
	"s-tab":     {Code: tea.KeyTab, Mod: tea.ModShift},
	"space":     {Code: ' ', Text: " "},
	"bs":        {Code: tea.KeyBackspace},
	"backspace": {Code: tea.KeyBackspace},
	"up":        {Code: tea.KeyUp},
	"down":      {Code: tea.KeyDown},
	"left":      {Code: tea.KeyLeft},
	"right":     {Code: tea.KeyRight},
	"home":      {Code: tea.KeyHome},
	"end":       {Code: tea.KeyEnd},
	"pgup":      {Code: tea.KeyPgUp},
	"pgdown":    {Code: tea.KeyPgDown},
	"c-u":       {Code: 'u', Mod: tea.ModCtrl},
}

// ParseKeys turns startup tokens into key presses. Tokens mix Vim-like keys and
// literal text: "<Down><CR>" presses down then enter, "<CR>42<CR>" edits a value.
// A leading backslash makes the whole token literal.
func ParseKeys(tokens []string) []tea.KeyPressMsg {
	var out []tea.KeyPressMsg
	literal := func(s string) {
		for _, r := range s {
			out = append(out, tea.KeyPressMsg{Code: r, Text: string(r)})
		}
	}
	for _, raw := range tokens {
		token := strings.TrimSpace(raw)
		if token == "" {
			continue
		}
		if strings.HasPrefix(token, `\`) {
			literal(strings.TrimPrefix(token, `\`))
			continue
		}
		for token != "" {
			start := strings.Index(token, "<")
			if start == -1 {
				literal(token)
				break
			}
			literal(token[:start])
			end := strings.Index(token[start:], ">")
			if end == -1 {
				literal(token[start:])
				break
			}
			name := token[start : start+end+1]
			if msg, ok := namedKeys[strings.ToLower(name[1:len(name)-1])]; ok {
				out = append(out, msg)
			} else {
				literal(name)
			}
			token = token[start+end+1:]
		}
	}
	return out
}

// ApplyKeys feeds key presses to m in order. Commands returned by Update are not
// run, so only synchronous state changes take effect.
func ApplyKeys(m tea.Model, keys []tea.KeyPressMsg) tea.Model {
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m
}
