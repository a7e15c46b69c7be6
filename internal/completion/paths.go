//revive:disable:exported
package completion

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/statelens/internal/inspector"
)

// Completion is one suggested path.
type Completion struct {
	Text   string         // The path expression to insert
	Kind   CompletionKind // Field or index
	Detail string         // Kind and size of the value at the path
}

// CompletionKind indicates the type of completion.
type CompletionKind int

const (
	CompletionField CompletionKind = iota // Object field/key
	CompletionIndex                       // Array index
)

//revive:enable:exported

// Paths returns the children of the deepest container named by partial whose path
// expression starts with partial. Typing "user." lists the fields of user, "user.na"
// narrows them, and "tags[" lists the indices of tags. Candidates are in document
// order and use the dotted shorthand accepted by inspector.ParsePath.
func Paths(v inspector.Value, partial string) []Completion {
	partial = strings.TrimSpace(partial)
	parentExpr := parentOf(partial)
	parent, err := inspector.ParsePath(v, parentExpr)
	if err != nil {
		return nil
	}
	node, ok := v.At(parent)
	if !ok || !node.IsContainer() {
		return nil
	}

	var out []Completion
	add := func(seg inspector.Segment, child inspector.Value, kind CompletionKind) {
		text := shorthand(parent.Append(seg))
		if !strings.HasPrefix(text, strings.TrimPrefix(partial, "$.")) {
			return
		}
		out = append(out, Completion{Text: text, Kind: kind, Detail: describe(child)})
	}
	if node.Kind() == inspector.KindArray {
		for i, item := range node.Items() {
			add(inspector.Index(i), item, CompletionIndex)
		}
		return out
	}
	for _, f := range node.Fields() {
		add(inspector.Key(f.Key), f.Value, CompletionField)
	}
	return out
}

// parentOf drops the segment being typed: everything after the last '.' or '['.
func parentOf(partial string) string {
	i := strings.LastIndexAny(partial, ".[")
	if i <= 0 {
		return ""
	}
	return partial[:i]
}

// shorthand renders p without the leading "$" so it reads as the user typed it.
func shorthand(p inspector.Path) string {
	s := strings.TrimPrefix(p.String(), "$")
	return strings.TrimPrefix(s, ".")
}

func describe(v inspector.Value) string {
	switch v.Kind() {
	case inspector.KindObject:
		return fmt.Sprintf("object, %d keys", v.Len())
	case inspector.KindArray:
		return fmt.Sprintf("array, %d items", v.Len())
	default:
		return v.Kind().String()
	}
}
