// Package formatter renders session data for non-interactive output: ASCII trees,
// plain tables and YAML.
package formatter

import (
	"fmt"
	"strconv"

	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/statelens/internal/debugger"
	"github.com/oakwood-commons/statelens/internal/inspector"
)

// defaultMaxArrayInline is the max number of array elements to show inline.
const defaultMaxArrayInline = 3

// TreeOptions controls tree output formatting.
type TreeOptions struct {
	// NoValues hides values at leaf nodes (structure only).
	NoValues bool
	// MaxDepth limits tree depth (0 = unlimited).
	MaxDepth int
	// ExpandArrays shows all array elements instead of "[N items]" summary.
	ExpandArrays bool
	// MaxArrayInline is max items to show inline for scalar arrays (default 3).
	MaxArrayInline int
	// MaxStringLen is max chars before truncating inline strings.
	// 0 or negative = no truncation.
	MaxStringLen int
}

func formatKeyValue(key, value string) string {
	if key == "" {
		return value
	}
	return key + ": " + value
}

// FormatAsTree renders v as an ASCII tree. Object keys keep document order.
func FormatAsTree(v inspector.Value, opts TreeOptions) string {
	if opts.MaxArrayInline == 0 {
		opts.MaxArrayInline = defaultMaxArrayInline
	}
	tree := treeprint.New()
	switch v.Kind() {
	case inspector.KindObject:
		buildObjectTree(tree, v, opts, 0)
	case inspector.KindArray:
		buildArrayTree(tree, v, opts, 0)
	default:
		tree.AddNode(formatScalar(v, opts))
	}
	return tree.String()
}

func buildObjectTree(branch treeprint.Tree, v inspector.Value, opts TreeOptions, depth int) {
	for _, f := range v.Fields() {
		addNode(branch, f.Key, f.Value, opts, depth)
	}
}

func buildArrayTree(branch treeprint.Tree, v inspector.Value, opts TreeOptions, depth int) {
	for i, item := range v.Items() {
		addNode(branch, "["+strconv.Itoa(i)+"]", item, opts, depth)
	}
}

func addNode(branch treeprint.Tree, key string, v inspector.Value, opts TreeOptions, depth int) {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		branch.AddNode(formatKeyValue(key, "..."))
		return
	}
	switch v.Kind() {
	case inspector.KindObject:
		if v.Len() == 0 {
			branch.AddNode(leaf(key, "{}", opts))
			return
		}
		buildObjectTree(branch.AddBranch(key), v, opts, depth+1)
	case inspector.KindArray:
		switch {
		case v.Len() == 0:
			branch.AddNode(leaf(key, "[]", opts))
		case !opts.ExpandArrays && isScalarArray(v) && v.Len() <= opts.MaxArrayInline:
			branch.AddNode(leaf(key, formatInlineArray(v, opts), opts))
		case !opts.ExpandArrays && isScalarArray(v):
			branch.AddNode(leaf(key, fmt.Sprintf("[%d items]", v.Len()), opts))
		default:
			buildArrayTree(branch.AddBranch(key), v, opts, depth+1)
		}
	default:
		branch.AddNode(leaf(key, formatScalar(v, opts), opts))
	}
}

func leaf(key, value string, opts TreeOptions) string {
	if opts.NoValues {
		return key
	}
	return formatKeyValue(key, value)
}

func isScalarArray(v inspector.Value) bool {
	for _, item := range v.Items() {
		if item.IsContainer() {
			return false
		}
	}
	return true
}

func formatInlineArray(v inspector.Value, opts TreeOptions) string {
	out := "["
	for i, item := range v.Items() {
		if i > 0 {
			out += ", "
		}
		out += formatScalar(item, opts)
	}
	return out + "]"
}

// formatScalar renders a leaf; strings are shown unquoted and truncated to
// MaxStringLen.
func formatScalar(v inspector.Value, opts TreeOptions) string {
	var s string
	switch v.Kind() {
	case inspector.KindString:
		s = v.StringValue()
	case inspector.KindAbsent:
		s = "undefined"
	default:
		s = v.JSON()
	}
	if opts.MaxStringLen <= 0 || len([]rune(s)) <= opts.MaxStringLen {
		return s
	}
	if opts.MaxStringLen <= 3 {
		return "..."
	}
	return string([]rune(s)[:opts.MaxStringLen-3]) + "..."
}

// ComponentTree renders one branch per component with the state paths it depends
// on as leaves.
func ComponentTree(entries []debugger.ComponentEntry) string {
	tree := treeprint.New()
	for _, e := range entries {
		branch := tree.AddBranch(fmt.Sprintf("#%d %s", e.ID, e.Label()))
		for _, p := range e.Paths {
			branch.AddNode(p)
		}
	}
	return tree.String()
}

// StatePathTree renders one branch per state path with its components as leaves.
func StatePathTree(paths []debugger.StatePath) string {
	tree := treeprint.New()
	for _, sp := range paths {
		branch := tree.AddBranch(sp.Path)
		for _, c := range sp.Components {
			branch.AddNode(fmt.Sprintf("#%d %s", c.ID, c.Name))
		}
	}
	return tree.String()
}
