package inspector

import (
	"sort"
	"strconv"
	"strings"
)

// Segment is one step of a Path: an object key or an array index.
type Segment struct {
	name    string
	pos     int
	isIndex bool
}

// Key returns an object-key segment.
func Key(name string) Segment { return Segment{name: name} }

// Index returns an array-index segment.
func Index(pos int) Segment { return Segment{pos: pos, isIndex: true} }

// IsIndex reports whether s addresses an array item.
func (s Segment) IsIndex() bool { return s.isIndex }

// Name returns the key of a key segment.
func (s Segment) Name() string { return s.name }

// Pos returns the index of an index segment.
func (s Segment) Pos() int { return s.pos }

// String returns the key, or the decimal index.
func (s Segment) String() string {
	if s.isIndex {
		return strconv.Itoa(s.pos)
	}
	return s.name
}

// Path locates a node from the tree root. Paths are treated as immutable: every
// operation that extends or shortens a path returns a new slice.
type Path []Segment

// Root returns the empty, non-nil root path.
func Root() Path { return Path{} }

// NewPath builds a path from segments.
func NewPath(segs ...Segment) Path {
	return append(Path{}, segs...)
}

// Append returns p extended by seg. p is never modified.
func (p Path) Append(seg Segment) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = seg
	return out
}

// Parent returns p without its last segment. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Root()
	}
	return NewPath(p[:len(p)-1]...)
}

// Last returns the final segment.
func (p Path) Last() (Segment, bool) {
	if len(p) == 0 {
		return Segment{}, false
	}
	return p[len(p)-1], true
}

// Clone returns an independent copy of p.
func (p Path) Clone() Path { return NewPath(p...) }

// IsRoot reports whether p addresses the tree root.
func (p Path) IsRoot() bool { return len(p) == 0 }

// Equal compares element-wise; key "1" and index 1 differ.
func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is a leading part of p (or equal to it).
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return Path(p[:len(prefix)]).Equal(prefix)
}

// Key returns an unambiguous serialization used for path sets: a JSON-style array
// with quoted keys and bare indices, e.g. ["items",0,"name"].
func (p Path) Key() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, seg := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		if seg.isIndex {
			b.WriteString(strconv.Itoa(seg.pos))
		} else {
			b.WriteString(strconv.Quote(seg.name))
		}
	}
	b.WriteByte(']')
	return b.String()
}

// Dotted joins segments with '.', the form the runtime uses for state paths.
// It is lossy when keys contain dots.
func (p Path) Dotted() string {
	parts := make([]string, len(p))
	for i, seg := range p {
		parts[i] = seg.String()
	}
	return strings.Join(parts, ".")
}

// String renders p as a JSONPath expression ($, $.a.b[0], $["odd key"]).
func (p Path) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, seg := range p {
		switch {
		case seg.isIndex:
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.pos))
			b.WriteByte(']')
		case isPlainIdent(seg.name):
			b.WriteByte('.')
			b.WriteString(seg.name)
		default:
			b.WriteString("[")
			b.WriteString(strconv.Quote(seg.name))
			b.WriteString("]")
		}
	}
	return b.String()
}

func isPlainIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case i > 0 && (r >= '0' && r <= '9' || r == '-'):
		default:
			return false
		}
	}
	return true
}

// isInPath reports whether the node at path lies on the way to highlight
// (path is a prefix of, or equal to, highlight). A nil highlight matches nothing.
func isInPath(highlight *Path, path Path) bool {
	if highlight == nil {
		return false
	}
	return highlight.HasPrefix(path)
}

// isInExpandedPath reports whether path is a member of the expanded set.
func isInExpandedPath(expanded PathSet, path Path) bool {
	return expanded.Has(path)
}

// PathSet is a set of paths keyed by Path.Key. The nil set is empty and read-only.
type PathSet map[string]Path

// NewPathSet returns a set holding paths.
func NewPathSet(paths ...Path) PathSet {
	s := make(PathSet, len(paths))
	for _, p := range paths {
		s.Add(p)
	}
	return s
}

// Has reports membership.
func (s PathSet) Has(p Path) bool {
	if s == nil {
		return false
	}
	_, ok := s[p.Key()]
	return ok
}

// Add inserts p.
func (s PathSet) Add(p Path) { s[p.Key()] = p.Clone() }

// Remove deletes p.
func (s PathSet) Remove(p Path) { delete(s, p.Key()) }

// Apply records a toggle notification: expanded paths are added, collapsed ones removed.
func (s PathSet) Apply(t PathToggle) {
	if t.Expanded {
		s.Add(t.Path)
		return
	}
	s.Remove(t.Path)
}

// Paths returns the members sorted by their serialized key.
func (s PathSet) Paths() []Path {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Path, len(keys))
	for i, k := range keys {
		out[i] = s[k].Clone()
	}
	return out
}
