package inspector

import (
	"strconv"
	"strings"
)

// maxSummaryKeys is the number of keys listed in a collapsed object summary.
const maxSummaryKeys = 3

// collapseState is the per-container state machine. Inputs can only move a node
// from closed to open; closing requires an explicit user action.
type collapseState int

const (
	stateClosed collapseState = iota
	stateOpen
)

type childSlot struct {
	seg  Segment
	node node
}

// containerNode renders keyed (object) and indexed (array) values.
type containerNode struct {
	kind     shape
	f        frame
	e        *env
	state    collapseState
	children []childSlot
}

func newContainer(kind shape, f frame, e *env) *containerNode {
	n := &containerNode{kind: kind, f: f, e: e, state: stateClosed}
	if n.shouldOpen() {
		n.state = stateOpen
		n.reconcileChildren()
	}
	return n
}

func (n *containerNode) shape() shape { return n.kind }
func (n *containerNode) nodePath() Path { return n.f.path }

func (n *containerNode) isKeyedRoot() bool {
	return n.kind == shapeKeyed && n.f.path.IsRoot()
}

// shouldOpen evaluates the mount-time rule against the current inputs.
func (n *containerNode) shouldOpen() bool {
	forcedOpenAtRoot := n.isKeyedRoot() && n.e.opts.Expanded
	return forcedOpenAtRoot ||
		isInPath(n.e.highlight, n.f.path) ||
		isInExpandedPath(n.e.expanded, n.f.path)
}

func (n *containerNode) update(f frame, e *env) {
	n.f = f
	n.e = e
	if n.state == stateClosed && n.shouldOpen() {
		n.state = stateOpen
	}
	if n.state == stateOpen {
		n.reconcileChildren()
		return
	}
	n.children = nil
}

// reconcileChildren dispatches every field or item, reusing the previous child that
// had the same segment.
func (n *containerNode) reconcileChildren() {
	prev := make(map[Segment]node, len(n.children))
	for _, c := range n.children {
		prev[c.seg] = c.node
	}
	v := n.f.value
	count := v.Len()
	next := make([]childSlot, 0, count)
	for i := 0; i < count; i++ {
		var (
			seg Segment
			cf  frame
		)
		if n.kind == shapeKeyed {
			fld := v.fields[i]
			seg = Key(fld.Key)
			cf = frame{value: fld.Value, key: fld.Key, hasKey: true}
		} else {
			seg = Index(i)
			cf = frame{value: v.items[i]}
		}
		cf.hasNext = i < count-1
		cf.path = n.f.path.Append(seg)
		if child := dispatch(prev[seg], cf, n.e); child != nil {
			next = append(next, childSlot{seg: seg, node: child})
		}
	}
	n.children = next
}

func (n *containerNode) child(seg Segment) node {
	for _, c := range n.children {
		if c.seg == seg {
			return c.node
		}
	}
	return nil
}

func (n *containerNode) isOpen() bool { return n.state == stateOpen }

// expand opens the node on a user click and notifies the host.
func (n *containerNode) expand() {
	n.state = stateOpen
	n.children = nil
	n.reconcileChildren()
	n.markTouched()
	if n.e.onToggle != nil {
		n.e.onToggle(PathToggle{Path: n.f.path.Clone(), Expanded: true})
	}
	if n.isKeyedRoot() && n.e.opts.OnExpand != nil {
		n.e.opts.OnExpand()
	}
}

// collapse closes the node on a user click and notifies the host.
func (n *containerNode) collapse() {
	n.state = stateClosed
	n.children = nil
	n.markTouched()
	if n.e.onToggle != nil {
		n.e.onToggle(PathToggle{Path: n.f.path.Clone(), Expanded: false})
	}
	if n.isKeyedRoot() && n.e.opts.OnCollapse != nil {
		n.e.opts.OnCollapse()
	}
}

func (n *containerNode) markTouched() {
	if n.e.isHighlighted(n.f.path) {
		n.e.touched = true
	}
}

func (n *containerNode) brackets() (string, string) {
	if n.kind == shapeKeyed {
		return "{", "}"
	}
	return "[", "]"
}

// summary is the text between the brackets of a collapsed container.
func (n *containerNode) summary() string {
	v := n.f.value
	if n.kind == shapeIndexed {
		return strconv.Itoa(v.Len())
	}
	keys := v.Keys()
	if len(keys) > maxSummaryKeys {
		return strings.Join(keys[:maxSummaryKeys], ", ") + "..."
	}
	return strings.Join(keys, ", ")
}

func (n *containerNode) render(r *renderer, depth int) {
	open, closeB := n.brackets()
	highlighted := n.e.isHighlighted(n.f.path)
	if n.state == stateClosed {
		ln := r.line(depth, n.f.path, RoleSummary, highlighted)
		r.keyPrefix(ln, n.f)
		ln.add(open+" ", ClassPunct)
		ln.add(n.summary(), ClassSummary)
		ln.add(" "+closeB, ClassPunct)
		r.comma(ln, n.f.hasNext)
		return
	}
	ln := r.line(depth, n.f.path, RoleOpener, highlighted)
	r.keyPrefix(ln, n.f)
	ln.add(open, ClassPunct)
	for _, c := range n.children {
		c.node.render(r, depth+1)
	}
	cl := r.line(depth, n.f.path, RoleCloser, highlighted)
	cl.clickable = n.isKeyedRoot()
	cl.add(closeB, ClassPunct)
	r.comma(cl, n.f.hasNext)
}
