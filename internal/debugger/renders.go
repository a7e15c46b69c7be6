package debugger

import (
	"fmt"
	"strings"
	"time"
)

// Matcher is a compiled filter expression evaluated against a render's variables.
type Matcher interface {
	Match(vars map[string]interface{}) (bool, error)
}

// ExtractPaths joins every change path with '.'.
func ExtractPaths(changes []Change) []string {
	out := make([]string, 0, len(changes))
	for _, c := range changes {
		out = append(out, strings.Join(c.Path, "."))
	}
	return out
}

// Unique drops repeated entries, keeping the first occurrence.
func Unique(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Paths returns the dotted paths the render reports as changed.
func (r Render) Paths() []string { return ExtractPaths(r.Changes) }

// Clock returns the render's start as HH:MM:SS in local time.
func (r Render) Clock() string { return FormatClock(r.Start.Local()) }

// Vars exposes the render to filter expressions as the "render" variable.
func (r Render) Vars() map[string]interface{} {
	paths := r.Paths()
	ps := make([]interface{}, len(paths))
	for i, p := range paths {
		ps[i] = p
	}
	comps := make([]interface{}, len(r.Components))
	for i, c := range r.Components {
		comps[i] = c
	}
	return map[string]interface{}{
		"start":      float64(r.Start.UnixMilli()),
		"duration":   r.Duration,
		"paths":      ps,
		"components": comps,
	}
}

// FormatClock renders t as zero-padded HH:MM:SS.
func FormatClock(t time.Time) string {
	return t.Format("15:04:05")
}

// matchesPath reports whether any path contains filter. The match is case-sensitive.
func matchesPath(paths []string, filter string) bool {
	if filter == "" {
		return true
	}
	for _, p := range paths {
		if strings.Contains(p, filter) {
			return true
		}
	}
	return false
}

// matchesName reports whether any name contains filter, ignoring case.
func matchesName(names []string, filter string) bool {
	if filter == "" {
		return true
	}
	filter = strings.ToLower(filter)
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), filter) {
			return true
		}
	}
	return false
}

// Matches reports whether r changed a path containing pathFilter and rendered a
// component whose name contains componentFilter. Empty filters match all.
func (r Render) Matches(pathFilter, componentFilter string) bool {
	return matchesPath(r.Paths(), pathFilter) && matchesName(r.Components, componentFilter)
}

// FilterRenders keeps the renders that match both filters.
func FilterRenders(renders []Render, pathFilter, componentFilter string) []Render {
	out := make([]Render, 0, len(renders))
	for _, r := range renders {
		if r.Matches(pathFilter, componentFilter) {
			out = append(out, r)
		}
	}
	return out
}

// WhereRenders keeps the renders m accepts. A nil matcher keeps everything.
func WhereRenders(renders []Render, m Matcher) ([]Render, error) {
	if m == nil {
		return renders, nil
	}
	out := make([]Render, 0, len(renders))
	for i, r := range renders {
		ok, err := m.Match(map[string]interface{}{"render": r.Vars()})
		if err != nil {
			return nil, fmt.Errorf("render %d: %w", i, err)
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}
