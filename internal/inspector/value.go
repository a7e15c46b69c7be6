package inspector

import (
	"encoding/json"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	// KindAbsent is an unset value (missing key, unsupported host type). It renders nothing.
	KindAbsent Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "absent"
	}
}

// Field is one key of a keyed container. Field order is display order.
type Field struct {
	Key   string
	Value Value
}

// Value is an immutable JSON-like value. The zero Value is absent.
type Value struct {
	kind   Kind
	b      bool
	n      float64
	s      string
	fields []Field
	items  []Value
}

// Absent returns the absent value.
func Absent() Value { return Value{} }

// Null returns the JSON null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a number.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Object builds a keyed container. Later duplicates of a key replace the earlier value
// but keep the earlier position.
func Object(fields ...Field) Value {
	out := make([]Field, 0, len(fields))
	seen := make(map[string]int, len(fields))
	for _, f := range fields {
		if i, ok := seen[f.Key]; ok {
			out[i].Value = f.Value
			continue
		}
		seen[f.Key] = len(out)
		out = append(out, f)
	}
	return Value{kind: KindObject, fields: out}
}

// Array builds an indexed container.
func Array(items ...Value) Value {
	out := make([]Value, len(items))
	copy(out, items)
	return Value{kind: KindArray, items: out}
}

// Kind returns the value's kind.
func (v Value) Kind() Kind { return v.kind }

// IsAbsent reports whether v renders nothing.
func (v Value) IsAbsent() bool { return v.kind == KindAbsent }

// IsContainer reports whether v is an object or array.
func (v Value) IsContainer() bool { return v.kind == KindObject || v.kind == KindArray }

// BoolValue returns the boolean payload.
func (v Value) BoolValue() bool { return v.b }

// NumberValue returns the numeric payload.
func (v Value) NumberValue() float64 { return v.n }

// StringValue returns the string payload.
func (v Value) StringValue() string { return v.s }

// Len returns the number of fields or items; zero for scalars.
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		return len(v.fields)
	case KindArray:
		return len(v.items)
	default:
		return 0
	}
}

// Keys returns the object keys in display order.
func (v Value) Keys() []string {
	keys := make([]string, len(v.fields))
	for i, f := range v.fields {
		keys[i] = f.Key
	}
	return keys
}

// Fields returns a copy of the object fields.
func (v Value) Fields() []Field {
	return append([]Field(nil), v.fields...)
}

// Items returns a copy of the array items.
func (v Value) Items() []Value {
	return append([]Value(nil), v.items...)
}

// Get returns the value stored under key.
func (v Value) Get(key string) (Value, bool) {
	for _, f := range v.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return Value{}, false
}

// Index returns the array item at i.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindArray || i < 0 || i >= len(v.items) {
		return Value{}, false
	}
	return v.items[i], true
}

// At walks p from v. The second result is false when any step is missing.
func (v Value) At(p Path) (Value, bool) {
	cur := v
	for _, seg := range p {
		var ok bool
		switch {
		case seg.IsIndex() && cur.kind == KindArray:
			cur, ok = cur.Index(seg.Pos())
		case !seg.IsIndex() && cur.kind == KindObject:
			cur, ok = cur.Get(seg.Name())
		}
		if !ok {
			return Value{}, false
		}
	}
	return cur, true
}

// Equal reports deep equality, including field order.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindNumber:
		return v.n == o.n
	case KindString:
		return v.s == o.s
	case KindObject:
		if len(v.fields) != len(o.fields) {
			return false
		}
		for i := range v.fields {
			if v.fields[i].Key != o.fields[i].Key || !v.fields[i].Value.Equal(o.fields[i].Value) {
				return false
			}
		}
		return true
	case KindArray:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Interface converts v to plain Go values (map[string]interface{}, []interface{}, float64, ...).
// Field order is lost. Absent values become nil.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.n
	case KindString:
		return v.s
	case KindObject:
		m := make(map[string]interface{}, len(v.fields))
		for _, f := range v.fields {
			if f.Value.IsAbsent() {
				continue
			}
			m[f.Key] = f.Value.Interface()
		}
		return m
	case KindArray:
		out := make([]interface{}, len(v.items))
		for i, it := range v.items {
			out[i] = it.Interface()
		}
		return out
	default:
		return nil
	}
}

// JSON encodes v as a JSON literal preserving field order. Absent values encode as null
// at the top level and are skipped inside objects.
func (v Value) JSON() string {
	var b strings.Builder
	v.appendJSON(&b)
	return b.String()
}

func (v Value) appendJSON(b *strings.Builder) {
	switch v.kind {
	case KindBool:
		b.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			b.WriteString("null")
			return
		}
		b.WriteString(FormatNumber(v.n))
	case KindString:
		b.WriteString(quoteJSON(v.s))
	case KindObject:
		b.WriteByte('{')
		first := true
		for _, f := range v.fields {
			if f.Value.IsAbsent() {
				continue
			}
			if !first {
				b.WriteByte(',')
			}
			first = false
			b.WriteString(quoteJSON(f.Key))
			b.WriteByte(':')
			f.Value.appendJSON(b)
		}
		b.WriteByte('}')
	case KindArray:
		b.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				b.WriteByte(',')
			}
			if it.IsAbsent() {
				b.WriteString("null")
				continue
			}
			it.appendJSON(b)
		}
		b.WriteByte(']')
	default:
		b.WriteString("null")
	}
}

// quoteJSON quotes s with JSON escaping rules and without HTML escaping.
func quoteJSON(s string) string {
	b := make([]byte, 0, len(s)+2)
	b = append(b, '"')
	for {
		i := strings.IndexAny(s, "<>&")
		if i < 0 {
			break
		}
		b = appendEscaped(b, s[:i])
		b = append(b, s[i])
		s = s[i+1:]
	}
	b = appendEscaped(b, s)
	return string(append(b, '"'))
}

// appendEscaped appends the escaped body of s, without quotes.
func appendEscaped(dst []byte, s string) []byte {
	if s == "" {
		return dst
	}
	q := gjson.AppendJSONString(nil, s)
	return append(dst, q[1:len(q)-1]...)
}

// FormatNumber renders a number the way the inspector displays it: integral values
// without a fractional part, everything else in shortest form.
func FormatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// FromInterface converts plain Go data into a Value. Map keys are sorted because Go
// maps carry no order; use Object for ordered input. Functions, channels and other
// unsupported kinds become absent.
func FromInterface(x interface{}) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return String(t.String())
		}
		return Number(f)
	case []Field:
		return Object(t...)
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, len(keys))
		for i, k := range keys {
			fields[i] = Field{Key: k, Value: FromInterface(t[k])}
		}
		return Value{kind: KindObject, fields: fields}
	case []interface{}:
		items := make([]Value, len(t))
		for i, it := range t {
			items[i] = FromInterface(it)
		}
		return Value{kind: KindArray, items: items}
	}
	return fromReflect(reflect.ValueOf(x))
}

func fromReflect(rv reflect.Value) Value {
	if !rv.IsValid() {
		return Null()
	}
	switch rv.Kind() { //nolint:exhaustive // unsupported kinds fall through to absent
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		return fromReflect(rv.Elem())
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.String:
		return String(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Number(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null()
		}
		items := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items[i] = fromReflect(rv.Index(i))
		}
		return Value{kind: KindArray, items: items}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Absent()
		}
		if rv.IsNil() {
			return Null()
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		fields := make([]Field, len(keys))
		for i, k := range keys {
			fields[i] = Field{Key: k, Value: fromReflect(rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())))}
		}
		return Value{kind: KindObject, fields: fields}
	default:
		return Absent()
	}
}
