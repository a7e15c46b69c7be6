package inspector

import (
	"fmt"
	"strings"
)

const (
	// maxStringLen is the longest string displayed in full when not hovered.
	maxStringLen = 50
	// truncatedStringLen is how many characters are kept when a string is shortened.
	truncatedStringLen = 47
)

// controlReplacer keeps a string value on one terminal line.
var controlReplacer = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)

// scalarNode renders a terminal value and owns its edit state.
type scalarNode struct {
	f frame
	e *env
	// pendingPath is captured at construction and used when an edit is committed.
	pendingPath Path
	isEditing   bool
	showFull    bool
}

func newScalar(f frame, e *env) *scalarNode {
	return &scalarNode{f: f, e: e, pendingPath: f.path.Clone()}
}

func (n *scalarNode) shape() shape { return shapeScalar }
func (n *scalarNode) nodePath() Path { return n.f.path }
func (n *scalarNode) child(_ Segment) node { return nil }
func (n *scalarNode) update(f frame, e *env) { n.f, n.e = f, e }

// activate enters edit mode when the inspector allows editing.
func (n *scalarNode) activate() {
	n.isEditing = n.e.opts.CanEdit
	n.markTouched()
}

func (n *scalarNode) hover() { n.showFull = true }
func (n *scalarNode) leave() { n.showFull = false }

// submit parses raw, leaves edit mode and reports the change at pendingPath.
func (n *scalarNode) submit(raw string) error {
	if !n.isEditing {
		return ErrNotEditable
	}
	parse := n.e.opts.Parser
	if parse == nil {
		parse = ParseLiteral
	}
	v, err := parse(raw)
	if err != nil {
		return fmt.Errorf("parse edited value: %w", err)
	}
	n.isEditing = false
	n.markTouched()
	if n.e.onChange != nil {
		n.e.onChange(ModelChange{Path: n.pendingPath.Clone(), Value: v})
	}
	return nil
}

// blur leaves edit mode without committing.
func (n *scalarNode) blur() {
	n.isEditing = false
	n.markTouched()
}

func (n *scalarNode) markTouched() {
	if n.e.isHighlighted(n.f.path) {
		n.e.touched = true
	}
}

// class returns the display class for the value's runtime type.
func (n *scalarNode) class() Class {
	switch n.f.value.Kind() {
	case KindNumber:
		return ClassNumber
	case KindBool:
		return ClassBoolean
	case KindNull:
		return ClassNull
	default:
		return ClassString
	}
}

// display returns the rendered form of the value.
func (n *scalarNode) display() string {
	v := n.f.value
	switch v.Kind() {
	case KindString:
		return `"` + controlReplacer.Replace(shortenString(v.StringValue(), n.showFull)) + `"`
	case KindNumber:
		return FormatNumber(v.NumberValue())
	case KindBool:
		if v.BoolValue() {
			return "true"
		}
		return "false"
	default:
		return "null"
	}
}

// shortenString truncates strings longer than maxStringLen characters unless full is set.
func shortenString(s string, full bool) string {
	if full {
		return s
	}
	r := []rune(s)
	if len(r) > maxStringLen {
		return string(r[:truncatedStringLen]) + "..."
	}
	return s
}

func (n *scalarNode) render(r *renderer, depth int) {
	highlighted := n.e.isHighlighted(n.f.path)
	if n.isEditing {
		ln := r.line(depth, n.f.path, RoleEditor, highlighted)
		r.keyPrefix(ln, n.f)
		ln.EditSeed = n.f.value.JSON()
		ln.TrailingComma = n.f.hasNext
		return
	}
	ln := r.line(depth, n.f.path, RoleScalar, highlighted)
	r.keyPrefix(ln, n.f)
	ln.add(n.display(), n.class())
	r.comma(ln, n.f.hasNext)
}
