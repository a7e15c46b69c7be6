package inspector

import "fmt"

// Inspector is the root of a retained value tree. The host feeds it props with Update,
// forwards pointer and keyboard events addressed by path, and draws Lines.
//
// An Inspector is not safe for concurrent use. Callbacks run synchronously inside the
// event method that caused them, after the node has finished its own state change, so
// a callback may call Update.
type Inspector struct {
	opts Options
	env  *env
	root node

	lines []Line
	dirty bool

	hovered       Path
	hasHovered    bool
	scrollPending bool
}

// New returns an inspector with the given options and no value.
func New(opts Options) *Inspector {
	in := &Inspector{opts: opts}
	in.env = &env{opts: &in.opts}
	return in
}

// Update supplies new props. Existing nodes keep their collapse and edit state when
// the value at their path still has the same shape.
func (in *Inspector) Update(p Props) {
	var hl *Path
	if p.Highlight != nil {
		c := p.Highlight.Clone()
		hl = &c
	}
	in.env.highlight = hl
	in.env.expanded = p.Expanded
	in.env.onToggle = p.OnPathToggled
	in.env.onChange = p.OnModelChange
	in.root = dispatch(in.root, frame{value: p.Value, path: Root()}, in.env)
	in.dirty = true
	in.scrollPending = hl != nil
}

// Lines returns the current rendering.
func (in *Inspector) Lines() []Line {
	in.rerender()
	out := make([]Line, len(in.lines))
	copy(out, in.lines)
	return out
}

// Len returns the number of rendered lines.
func (in *Inspector) Len() int {
	in.rerender()
	return len(in.lines)
}

func (in *Inspector) rerender() {
	if !in.dirty {
		return
	}
	in.dirty = false
	in.lines = in.lines[:0]
	if in.root == nil {
		return
	}
	r := &renderer{}
	in.root.render(r, 0)
	for _, ln := range r.lines {
		in.lines = append(in.lines, *ln)
	}
}

// String renders the tree as indented plain text.
func (in *Inspector) String() string {
	return PlainText(in.Lines())
}

// find walks the retained tree to the node at p.
func (in *Inspector) find(p Path) node {
	n := in.root
	for _, seg := range p {
		if n == nil {
			return nil
		}
		n = n.child(seg)
	}
	return n
}

// Activate performs a click on the node at p: containers toggle, scalars enter edit
// mode when editing is enabled.
func (in *Inspector) Activate(p Path) error {
	n := in.find(p)
	if n == nil {
		return fmt.Errorf("activate %s: %w", p, ErrNoNode)
	}
	switch t := n.(type) {
	case *containerNode:
		if t.isOpen() {
			t.collapse()
		} else {
			t.expand()
		}
	case *scalarNode:
		t.activate()
	}
	in.afterEvent()
	return nil
}

// ActivateLine activates the node a rendered line belongs to. Lines that are not
// activatable are ignored.
func (in *Inspector) ActivateLine(idx int) error {
	in.rerender()
	if idx < 0 || idx >= len(in.lines) {
		return fmt.Errorf("activate line %d: %w", idx, ErrNoNode)
	}
	ln := in.lines[idx]
	if !ln.Activatable() {
		return nil
	}
	return in.Activate(ln.Path)
}

// Hover marks the scalar at p as under the pointer, so long strings display in full.
// Any previously hovered node is left first. Hovering a container is a no-op.
func (in *Inspector) Hover(p Path) error {
	n := in.find(p)
	if n == nil {
		return fmt.Errorf("hover %s: %w", p, ErrNoNode)
	}
	// A node rebuilt since the last hover starts truncated again.
	if s, ok := n.(*scalarNode); ok && s.showFull && in.hasHovered && in.hovered.Equal(p) {
		return nil
	}
	in.Leave()
	if s, ok := n.(*scalarNode); ok {
		s.hover()
		in.hovered, in.hasHovered = p.Clone(), true
		in.dirty = true
	}
	return nil
}

// Leave clears the hover state.
func (in *Inspector) Leave() {
	if !in.hasHovered {
		return
	}
	if s, ok := in.find(in.hovered).(*scalarNode); ok {
		s.leave()
		in.dirty = true
	}
	in.hovered, in.hasHovered = nil, false
}

// Submit commits raw as the new value of the scalar being edited at p.
func (in *Inspector) Submit(p Path, raw string) error {
	s, ok := in.find(p).(*scalarNode)
	if !ok {
		return fmt.Errorf("submit %s: %w", p, ErrNoNode)
	}
	if err := s.submit(raw); err != nil {
		return fmt.Errorf("submit %s: %w", p, err)
	}
	in.afterEvent()
	return nil
}

// Blur leaves edit mode at p without committing.
func (in *Inspector) Blur(p Path) error {
	s, ok := in.find(p).(*scalarNode)
	if !ok {
		return fmt.Errorf("blur %s: %w", p, ErrNoNode)
	}
	s.blur()
	in.afterEvent()
	return nil
}

// Editing returns the path of the first scalar in edit mode, in render order.
func (in *Inspector) Editing() (Path, bool) {
	in.rerender()
	for _, ln := range in.lines {
		if ln.Role == RoleEditor {
			return ln.Path.Clone(), true
		}
	}
	return nil, false
}

// IsOpen reports whether the container at p is expanded.
func (in *Inspector) IsOpen(p Path) (bool, error) {
	c, ok := in.find(p).(*containerNode)
	if !ok {
		return false, fmt.Errorf("container %s: %w", p, ErrNoNode)
	}
	return c.isOpen(), nil
}

// LineOf returns the index of the first rendered line of the node at p.
func (in *Inspector) LineOf(p Path) (int, bool) {
	in.rerender()
	for i, ln := range in.lines {
		if ln.Path.Equal(p) {
			return i, true
		}
	}
	return 0, false
}

// ScrollTarget returns the line to scroll to so the highlighted node is visible with
// the configured margin above it.
func (in *Inspector) ScrollTarget() (int, bool) {
	if in.env.highlight == nil {
		return 0, false
	}
	idx, ok := in.LineOf(*in.env.highlight)
	if !ok {
		return 0, false
	}
	margin := in.opts.ScrollMargin
	if margin <= 0 {
		margin = DefaultScrollMargin
	}
	idx -= margin
	if idx < 0 {
		idx = 0
	}
	return idx, true
}

// TakeScroll returns the scroll target once after each update or state change that
// involves the highlighted node.
func (in *Inspector) TakeScroll() (int, bool) {
	if !in.scrollPending {
		return 0, false
	}
	in.scrollPending = false
	return in.ScrollTarget()
}

func (in *Inspector) afterEvent() {
	in.dirty = true
	if in.env.touched {
		in.env.touched = false
		in.scrollPending = true
	}
}
