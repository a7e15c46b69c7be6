package debugger

import (
	"sort"
	"strconv"
)

// ComponentEntry is one registered component and every state path it depends on.
type ComponentEntry struct {
	ID          int
	Name        string
	RenderCount int
	Paths       []string
}

// Label is the component name followed by its render count, when it has rendered.
func (e ComponentEntry) Label() string {
	if e.RenderCount == 0 {
		return e.Name
	}
	return e.Name + " (" + strconv.Itoa(e.RenderCount) + ")"
}

// AggregateComponents inverts the state-path registry into one entry per component
// id, ordered by id. Paths keep the registry's order. Name and render count come
// from the first registration seen.
func AggregateComponents(paths []StatePath) []ComponentEntry {
	byID := make(map[int]*ComponentEntry)
	for _, sp := range paths {
		for _, c := range sp.Components {
			e, ok := byID[c.ID]
			if !ok {
				e = &ComponentEntry{ID: c.ID, Name: c.Name, RenderCount: c.RenderCount}
				byID[c.ID] = e
			}
			e.Paths = append(e.Paths, sp.Path)
		}
	}
	out := make([]ComponentEntry, 0, len(byID))
	for _, e := range byID {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Matches reports whether e depends on a path containing pathFilter (case-sensitive)
// and has a name containing nameFilter (ignoring case).
func (e ComponentEntry) Matches(pathFilter, nameFilter string) bool {
	return matchesPath(e.Paths, pathFilter) && matchesName([]string{e.Name}, nameFilter)
}

// FilterComponents keeps the entries that match both filters.
func FilterComponents(entries []ComponentEntry, pathFilter, nameFilter string) []ComponentEntry {
	out := make([]ComponentEntry, 0, len(entries))
	for _, e := range entries {
		if e.Matches(pathFilter, nameFilter) {
			out = append(out, e)
		}
	}
	return out
}

// Counts is the header of the state-path view.
type Counts struct {
	StatePaths int
	Components int
}

// CountStatePaths returns the number of active state paths and registered components.
func CountStatePaths(paths []StatePath) Counts {
	return Counts{StatePaths: len(paths), Components: len(AggregateComponents(paths))}
}
