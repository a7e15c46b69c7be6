package inspector

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultScrollMargin is the number of lines kept above a highlighted node when it is
// scrolled into view.
const DefaultScrollMargin = 3

var (
	// ErrNoNode is returned when an event addresses a path with no rendered node.
	ErrNoNode = errors.New("no node at path")
	// ErrNotEditable is returned when an edit event addresses a node that is not being edited.
	ErrNotEditable = errors.New("node is not in edit mode")
)

// PathToggle is sent whenever a container is opened or closed by the user.
type PathToggle struct {
	Path     Path
	Expanded bool
}

// ModelChange is sent whenever a scalar edit is committed.
type ModelChange struct {
	Path  Path
	Value Value
}

// Parser turns editor text into a value.
type Parser func(raw string) (Value, error)

// Options is the configuration shared by every node of one inspector. It is fixed
// at construction.
type Options struct {
	// Expanded opens the keyed root container on mount.
	Expanded bool
	// CanEdit allows scalar nodes to enter edit mode.
	CanEdit bool
	// OnExpand and OnCollapse fire when the keyed root itself is toggled.
	OnExpand   func()
	OnCollapse func()
	// Parser converts submitted editor text. Defaults to ParseLiteral.
	Parser Parser
	// ScrollMargin overrides DefaultScrollMargin when positive.
	ScrollMargin int
}

// Props are the per-update inputs supplied by the host.
type Props struct {
	Value         Value
	Highlight     *Path
	Expanded      PathSet
	OnPathToggled func(PathToggle)
	OnModelChange func(ModelChange)
}

// ParseLiteral parses raw as a JSON literal. Text that is not valid JSON is taken as a
// bare string, so typing hello is the same as typing "hello".
func ParseLiteral(raw string) (Value, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" && gjson.Valid(trimmed) {
		return FromJSON(gjson.Parse(trimmed)), nil
	}
	return String(raw), nil
}

// FromJSON converts a gjson result into a Value, keeping object keys in document order.
func FromJSON(r gjson.Result) Value {
	switch r.Type {
	case gjson.Null:
		return Null()
	case gjson.False:
		return Bool(false)
	case gjson.True:
		return Bool(true)
	case gjson.Number:
		return Number(r.Num)
	case gjson.String:
		return String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			var items []Value
			r.ForEach(func(_, v gjson.Result) bool {
				items = append(items, FromJSON(v))
				return true
			})
			return Array(items...)
		}
		var fields []Field
		r.ForEach(func(k, v gjson.Result) bool {
			fields = append(fields, Field{Key: k.Str, Value: FromJSON(v)})
			return true
		})
		return Object(fields...)
	default:
		return Absent()
	}
}
