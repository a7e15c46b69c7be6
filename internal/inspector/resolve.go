package inspector

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ohler55/ojg/jp"
)

// ParsePath parses a path expression and types each segment against v: a segment that
// addresses an array becomes an index, anything else a key. Accepted forms are the
// empty string or "$" for the root, JSONPath ($.items[0].name, $['odd key']) and the
// dotted shorthand items.0.name or items[0].name.
func ParsePath(v Value, expr string) (Path, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" || expr == "$" {
		return Root(), nil
	}
	src := expr
	switch {
	case strings.HasPrefix(expr, "$"):
	case strings.HasPrefix(expr, "["):
		src = "$" + expr
	default:
		src = "$." + expr
	}
	x, err := jp.ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", expr, err)
	}
	var raw []interface{}
	for _, frag := range x {
		switch f := frag.(type) {
		case jp.Root, jp.At, jp.Bracket:
		case jp.Child:
			raw = append(raw, string(f))
		case jp.Nth:
			raw = append(raw, int(f))
		default:
			return nil, fmt.Errorf("invalid path %q: unsupported selector %T", expr, frag)
		}
	}
	return typeSegments(v, raw), nil
}

// ResolveSegments types plain string segments against v.
func ResolveSegments(v Value, segs []string) Path {
	raw := make([]interface{}, len(segs))
	for i, s := range segs {
		raw[i] = s
	}
	return typeSegments(v, raw)
}

func typeSegments(v Value, raw []interface{}) Path {
	p := make(Path, 0, len(raw))
	cur, ok := v, true
	for _, r := range raw {
		var seg Segment
		isArray := ok && cur.Kind() == KindArray
		switch r := r.(type) {
		case int:
			switch {
			case !isArray:
				seg = Key(strconv.Itoa(r))
			case r < 0:
				seg = Index(cur.Len() + r)
			default:
				seg = Index(r)
			}
		case string:
			if n, err := strconv.Atoi(r); err == nil && isArray && n >= 0 {
				seg = Index(n)
			} else {
				seg = Key(r)
			}
		}
		p = append(p, seg)
		if ok {
			if seg.IsIndex() {
				cur, ok = cur.Index(seg.Pos())
			} else {
				cur, ok = cur.Get(seg.Name())
			}
		}
	}
	return p
}
