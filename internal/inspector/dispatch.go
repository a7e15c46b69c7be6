package inspector

// shape is the dispatcher's classification of a value.
type shape int

const (
	shapeAbsent shape = iota
	shapeKeyed
	shapeIndexed
	shapeScalar
)

func (s shape) String() string {
	switch s {
	case shapeKeyed:
		return "keyed"
	case shapeIndexed:
		return "indexed"
	case shapeScalar:
		return "scalar"
	default:
		return "absent"
	}
}

// classify maps a value to exactly one shape.
func classify(v Value) shape {
	switch v.Kind() {
	case KindObject:
		return shapeKeyed
	case KindArray:
		return shapeIndexed
	case KindNull, KindBool, KindNumber, KindString:
		return shapeScalar
	default:
		return shapeAbsent
	}
}

// frame carries the per-node inputs the dispatcher forwards to a node.
type frame struct {
	value   Value
	hasNext bool
	path    Path
	key     string
	hasKey  bool
}

// env carries the inputs shared by every node during one update pass.
type env struct {
	opts      *Options
	highlight *Path
	expanded  PathSet
	onToggle  func(PathToggle)
	onChange  func(ModelChange)
	// touched records that a node visible to the highlight changed state, so the
	// inspector re-evaluates its scroll target.
	touched bool
}

func (e *env) isHighlighted(p Path) bool {
	return e.highlight != nil && e.highlight.Equal(p)
}

// node is one retained unit of the inspector tree.
type node interface {
	shape() shape
	nodePath() Path
	// update refreshes the node with new inputs. Containers re-evaluate their
	// collapse state before reconciling children.
	update(f frame, e *env)
	render(r *renderer, depth int)
	child(seg Segment) node
}

// dispatch classifies f.value and returns the node that renders it. prev is reused
// when its shape still matches, which preserves its collapse and edit state.
func dispatch(prev node, f frame, e *env) node {
	s := classify(f.value)
	if s == shapeAbsent {
		return nil
	}
	if prev != nil && prev.shape() == s {
		prev.update(f, e)
		return prev
	}
	switch s {
	case shapeKeyed, shapeIndexed:
		return newContainer(s, f, e)
	default:
		return newScalar(f, e)
	}
}
