// Package debugger models a recorded debugging session: the state tree, the
// mutations applied to it, and the render and state-path logs the runtime reports.
package debugger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oakwood-commons/statelens/internal/inspector"
	"github.com/oakwood-commons/statelens/pkg/loader"
)

// ErrInvalidSession is returned when a session document has the wrong shape.
var ErrInvalidSession = errors.New("invalid session")

// Mutation is one recorded state change.
type Mutation struct {
	Method string
	Path   []string
	Args   []inspector.Value
}

// Change is a path reported as changed by a render.
type Change struct {
	Path []string
}

// Render is one flush of the view layer.
type Render struct {
	Start      time.Time
	Duration   float64
	Changes    []Change
	Components []string
}

// Component is a view component registered on a state path.
type Component struct {
	ID          int
	Name        string
	RenderCount int
}

// StatePath is a dotted state path and the components that depend on it.
type StatePath struct {
	Path       string
	Components []Component
}

// Session is a loaded debugging session.
type Session struct {
	State      inspector.Value
	Mutations  []Mutation
	Renders    []Render
	StatePaths []StatePath
}

// LoadSession parses a session document (JSON, YAML or TOML). A document without a
// "state" key is taken as the state itself.
func LoadSession(data []byte) (*Session, error) {
	v, err := loader.LoadValue(string(data))
	if err != nil {
		return nil, err
	}
	return SessionFromValue(v)
}

// SessionFromValue builds a session from an already decoded document.
func SessionFromValue(v inspector.Value) (*Session, error) {
	state, ok := v.Get("state")
	if v.Kind() != inspector.KindObject || !ok {
		return &Session{State: v}, nil
	}
	s := &Session{State: state}
	var err error
	if raw, ok := v.Get("mutations"); ok {
		if s.Mutations, err = decodeMutations(raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := v.Get("renders"); ok {
		if s.Renders, err = decodeRenders(raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := v.Get("statePaths"); ok {
		if s.StatePaths, err = decodeStatePaths(raw); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// MutationPaths returns the path of every mutation, typed against the current state.
func (s *Session) MutationPaths() []inspector.Path {
	out := make([]inspector.Path, len(s.Mutations))
	for i, m := range s.Mutations {
		out[i] = inspector.ResolveSegments(s.State, m.Path)
	}
	return out
}

// LastMutationPath is the default highlight: the path of the most recent mutation.
func (s *Session) LastMutationPath() (inspector.Path, bool) {
	if len(s.Mutations) == 0 {
		return nil, false
	}
	last := s.Mutations[len(s.Mutations)-1]
	return inspector.ResolveSegments(s.State, last.Path), true
}

// Record appends a "set" mutation for an edit committed at p.
func (s *Session) Record(p inspector.Path, v inspector.Value) {
	segs := make([]string, len(p))
	for i, seg := range p {
		segs[i] = seg.String()
	}
	s.Mutations = append(s.Mutations, Mutation{Method: "set", Path: segs, Args: []inspector.Value{v}})
}

func decodeMutations(v inspector.Value) ([]Mutation, error) {
	if v.Kind() != inspector.KindArray {
		return nil, fmt.Errorf("%w: mutations must be a list", ErrInvalidSession)
	}
	out := make([]Mutation, 0, v.Len())
	for i, item := range v.Items() {
		if item.Kind() != inspector.KindObject {
			return nil, fmt.Errorf("%w: mutations[%d] must be an object", ErrInvalidSession, i)
		}
		m := Mutation{Method: stringField(item, "method")}
		p, _ := item.Get("path")
		var err error
		if m.Path, err = decodeSegments(p); err != nil {
			return nil, fmt.Errorf("mutations[%d]: %w", i, err)
		}
		if args, ok := item.Get("args"); ok && args.Kind() == inspector.KindArray {
			m.Args = args.Items()
		}
		out = append(out, m)
	}
	return out, nil
}

func decodeRenders(v inspector.Value) ([]Render, error) {
	if v.Kind() != inspector.KindArray {
		return nil, fmt.Errorf("%w: renders must be a list", ErrInvalidSession)
	}
	out := make([]Render, 0, v.Len())
	for i, item := range v.Items() {
		if item.Kind() != inspector.KindObject {
			return nil, fmt.Errorf("%w: renders[%d] must be an object", ErrInvalidSession, i)
		}
		r := Render{
			Start:    time.UnixMilli(int64(numberField(item, "start"))),
			Duration: numberField(item, "duration"),
		}
		if changes, ok := item.Get("changes"); ok && changes.Kind() == inspector.KindArray {
			for j, c := range changes.Items() {
				p, _ := c.Get("path")
				segs, err := decodeSegments(p)
				if err != nil {
					return nil, fmt.Errorf("renders[%d].changes[%d]: %w", i, j, err)
				}
				r.Changes = append(r.Changes, Change{Path: segs})
			}
		}
		if comps, ok := item.Get("components"); ok && comps.Kind() == inspector.KindArray {
			for _, c := range comps.Items() {
				r.Components = append(r.Components, scalarString(c))
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func decodeStatePaths(v inspector.Value) ([]StatePath, error) {
	if v.Kind() != inspector.KindObject {
		return nil, fmt.Errorf("%w: statePaths must be an object", ErrInvalidSession)
	}
	out := make([]StatePath, 0, v.Len())
	for _, f := range v.Fields() {
		if f.Value.Kind() != inspector.KindArray {
			return nil, fmt.Errorf("%w: statePaths[%q] must be a list", ErrInvalidSession, f.Key)
		}
		sp := StatePath{Path: f.Key}
		for _, c := range f.Value.Items() {
			sp.Components = append(sp.Components, Component{
				ID:          int(numberField(c, "id")),
				Name:        stringField(c, "name"),
				RenderCount: int(numberField(c, "renderCount")),
			})
		}
		out = append(out, sp)
	}
	return out, nil
}

// decodeSegments accepts a list of keys/indices or a dotted string.
func decodeSegments(v inspector.Value) ([]string, error) {
	switch v.Kind() {
	case inspector.KindArray:
		segs := make([]string, 0, v.Len())
		for _, s := range v.Items() {
			segs = append(segs, scalarString(s))
		}
		return segs, nil
	case inspector.KindString:
		if v.StringValue() == "" {
			return nil, nil
		}
		return strings.Split(v.StringValue(), "."), nil
	case inspector.KindAbsent, inspector.KindNull:
		return nil, nil
	default:
		return nil, fmt.Errorf("%w: path must be a list or a dotted string", ErrInvalidSession)
	}
}

func stringField(v inspector.Value, key string) string {
	f, _ := v.Get(key)
	return scalarString(f)
}

func numberField(v inspector.Value, key string) float64 {
	f, _ := v.Get(key)
	return f.NumberValue()
}

func scalarString(v inspector.Value) string {
	switch v.Kind() {
	case inspector.KindString:
		return v.StringValue()
	case inspector.KindNumber:
		return inspector.FormatNumber(v.NumberValue())
	case inspector.KindBool, inspector.KindNull:
		return v.JSON()
	default:
		return ""
	}
}
