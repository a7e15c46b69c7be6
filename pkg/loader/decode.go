package loader

import (
	"strings"

	"github.com/oakwood-commons/statelens/internal/inspector"
)

// TryDecode parses a string leaf as serialized data (JSON, YAML, TOML, NDJSON). It
// succeeds only when the result is an object or array; plain words and numbers are
// left alone.
func TryDecode(s string) (inspector.Value, bool) {
	if strings.TrimSpace(s) == "" {
		return inspector.Value{}, false
	}
	v, err := LoadValue(s)
	if err != nil || !v.IsContainer() {
		return inspector.Value{}, false
	}
	return v, true
}

// RecursiveDecode replaces every string leaf that holds serialized data with its
// parsed tree, recursing into the result so nested encodings are expanded too.
func RecursiveDecode(v inspector.Value) inspector.Value {
	return recursiveDecode(v, 0)
}

const maxDecodeDepth = 20

func recursiveDecode(v inspector.Value, depth int) inspector.Value {
	if depth > maxDecodeDepth {
		return v
	}
	switch v.Kind() {
	case inspector.KindObject:
		fields := v.Fields()
		for i := range fields {
			fields[i].Value = recursiveDecode(fields[i].Value, depth+1)
		}
		return inspector.Object(fields...)
	case inspector.KindArray:
		items := v.Items()
		for i := range items {
			items[i] = recursiveDecode(items[i], depth+1)
		}
		return inspector.Array(items...)
	case inspector.KindString:
		if decoded, ok := TryDecode(v.StringValue()); ok {
			return recursiveDecode(decoded, depth+1)
		}
		return v
	default:
		return v
	}
}
