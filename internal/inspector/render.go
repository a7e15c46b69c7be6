package inspector

import "strings"

// Class is the visual class of a span of rendered text.
type Class string

const (
	ClassKey     Class = "key"
	ClassPunct   Class = "punct"
	ClassSummary Class = "summary"
	ClassString  Class = "string"
	ClassNumber  Class = "number"
	ClassBoolean Class = "boolean"
	ClassNull    Class = "null"
)

// Span is a run of text with one visual class.
type Span struct {
	Text  string
	Class Class
}

// Role describes what a rendered line belongs to and what activating it does.
type Role int

const (
	// RoleSummary is a collapsed container; activating it expands the container.
	RoleSummary Role = iota
	// RoleOpener is the first line of an expanded container; activating it collapses.
	RoleOpener
	// RoleCloser is the last line of an expanded container. Only the keyed root's
	// closer is clickable.
	RoleCloser
	// RoleScalar is a leaf value; activating it enters edit mode when editing is allowed.
	RoleScalar
	// RoleEditor is a leaf in edit mode. The host draws its input after the spans.
	RoleEditor
)

func (r Role) String() string {
	switch r {
	case RoleSummary:
		return "summary"
	case RoleOpener:
		return "opener"
	case RoleCloser:
		return "closer"
	case RoleScalar:
		return "scalar"
	case RoleEditor:
		return "editor"
	default:
		return "unknown"
	}
}

// Line is one rendered row of the inspector.
type Line struct {
	Depth     int
	Spans     []Span
	Path      Path
	Role      Role
	Highlight bool
	// EditSeed is the editor's initial text (RoleEditor only).
	EditSeed string
	// TrailingComma tells the host to draw a separator after the editor (RoleEditor only).
	TrailingComma bool

	clickable bool
}

// Text returns the line's text without indentation.
func (l Line) Text() string {
	var b strings.Builder
	for _, s := range l.Spans {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Activatable reports whether clicking the line does anything.
func (l Line) Activatable() bool { return l.clickable }

func (l *Line) add(text string, class Class) {
	if text == "" {
		return
	}
	l.Spans = append(l.Spans, Span{Text: text, Class: class})
}

type renderer struct {
	lines []*Line
}

func (r *renderer) line(depth int, p Path, role Role, highlight bool) *Line {
	ln := &Line{Depth: depth, Path: p.Clone(), Role: role, Highlight: highlight}
	ln.clickable = role == RoleSummary || role == RoleOpener || role == RoleScalar
	r.lines = append(r.lines, ln)
	return ln
}

// keyPrefix writes "key: " for nodes that have a property key.
func (r *renderer) keyPrefix(ln *Line, f frame) {
	if !f.hasKey {
		return
	}
	ln.add(f.key, ClassKey)
	ln.add(": ", ClassPunct)
}

func (r *renderer) comma(ln *Line, hasNext bool) {
	if hasNext {
		ln.add(",", ClassPunct)
	}
}

// Indent is the per-depth indentation used by PlainText.
const Indent = "  "

// PlainText renders lines without styling, one per row. Editor lines show their seed
// between angle brackets.
func PlainText(lines []Line) string {
	var b strings.Builder
	for _, ln := range lines {
		b.WriteString(strings.Repeat(Indent, ln.Depth))
		b.WriteString(ln.Text())
		if ln.Role == RoleEditor {
			b.WriteString("<" + ln.EditSeed + ">")
			if ln.TrailingComma {
				b.WriteString(",")
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
