package yamlupdate

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	gyaml "github.com/goccy/go-yaml"
	"gopkg.in/yaml.v3"
)

// ErrCoerce is matched by every failed Value coercion.
var ErrCoerce = errors.New("yamlupdate: cannot coerce value")

// Kind is the type of a Value.
type Kind int

const (
	NullKind Kind = iota
	BoolKind
	IntKind
	FloatKind
	StringKind
	SequenceKind
	MappingKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	case SequenceKind:
		return "sequence"
	case MappingKind:
		return "mapping"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is a node value: a scalar, a sequence of values or a mapping.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	seq  []Value
	sec  *Section

	// source formatting, only set by the parser
	raw   string
	tag   string
	style yaml.Style
}

func Null() Value { return Value{} }
func Bool(b bool) Value { return Value{kind: BoolKind, b: b} }
func Int(i int64) Value { return Value{kind: IntKind, i: i} }
func Float(f float64) Value { return Value{kind: FloatKind, f: f} }
func String(s string) Value { return Value{kind: StringKind, s: s} }
func Sequence(vs ...Value) Value {
	return Value{kind: SequenceKind, seq: append([]Value{}, vs...)}
}

// Mapping wraps a section. A nil section becomes an empty one.
func Mapping(sec *Section) Value {
	if sec == nil {
		sec = NewSection()
	}
	return Value{kind: MappingKind, sec: sec}
}

func (v Value) Kind() Kind { return v.kind }
func (v Value) IsNull() bool { return v.kind == NullKind }
func (v Value) IsSection() bool { return v.kind == MappingKind }

// IsScalar reports whether v is neither a sequence nor a mapping.
func (v Value) IsScalar() bool {
	return v.kind != SequenceKind && v.kind != MappingKind
}

func coerceErr(v Value, to string) error {
	return fmt.Errorf("%w: %s to %s", ErrCoerce, v.kind, to)
}

// AsBool returns a bool value, or parses a string one.
func (v Value) AsBool() (bool, error) {
	switch v.kind {
	case BoolKind:
		return v.b, nil
	case StringKind:
		b, err := strconv.ParseBool(v.s)
		if err != nil {
			return false, fmt.Errorf("%w: %q to bool", ErrCoerce, v.s)
		}
		return b, nil
	}
	return false, coerceErr(v, "bool")
}

// AsInt returns an int value, an integral float or a parsed string.
func (v Value) AsInt() (int64, error) {
	switch v.kind {
	case IntKind:
		return v.i, nil
	case FloatKind:
		if v.f == math.Trunc(v.f) && v.f >= math.MinInt64 && v.f < math.MaxInt64 {
			return int64(v.f), nil
		}
		return 0, fmt.Errorf("%w: %v to int", ErrCoerce, v.f)
	case StringKind:
		i, err := strconv.ParseInt(strings.TrimSpace(v.s), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q to int", ErrCoerce, v.s)
		}
		return i, nil
	}
	return 0, coerceErr(v, "int")
}

// AsFloat returns a float or int value, or parses a string one.
func (v Value) AsFloat() (float64, error) {
	switch v.kind {
	case FloatKind:
		return v.f, nil
	case IntKind:
		return float64(v.i), nil
	case StringKind:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q to float", ErrCoerce, v.s)
		}
		return f, nil
	}
	return 0, coerceErr(v, "float")
}

// AsString renders any scalar but null as a string.
func (v Value) AsString() (string, error) {
	switch v.kind {
	case StringKind:
		return v.s, nil
	case BoolKind:
		return strconv.FormatBool(v.b), nil
	case IntKind:
		return strconv.FormatInt(v.i, 10), nil
	case FloatKind:
		return formatFloat(v.f), nil
	}
	return "", coerceErr(v, "string")
}

func (v Value) AsSequence() ([]Value, error) {
	if v.kind != SequenceKind {
		return nil, coerceErr(v, "sequence")
	}
	return v.seq, nil
}

func (v Value) AsSection() (*Section, error) {
	if v.kind != MappingKind {
		return nil, coerceErr(v, "mapping")
	}
	return v.sec, nil
}

// Interface converts v to plain Go values. Mappings become gyaml.MapSlice so
// that key order survives.
func (v Value) Interface() any {
	switch v.kind {
	case BoolKind:
		return v.b
	case IntKind:
		return v.i
	case FloatKind:
		return v.f
	case StringKind:
		return v.s
	case SequenceKind:
		res := make([]any, len(v.seq))
		for i, item := range v.seq {
			res[i] = item.Interface()
		}
		return res
	case MappingKind:
		return v.sec.MapSlice()
	}
	return nil
}

// FromInterface converts plain Go values, including gyaml.MapSlice and
// map[string]any, to a Value. Plain maps are sorted by key.
func FromInterface(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t.Clone(), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return uintValue(uint64(t)), nil
	case uint8:
		return Int(int64(t)), nil
	case uint16:
		return Int(int64(t)), nil
	case uint32:
		return Int(int64(t)), nil
	case uint64:
		return uintValue(t), nil
	case float32:
		return Float(float64(t)), nil
	case float64:
		return Float(t), nil
	case string:
		return String(t), nil
	case []any:
		items := make([]Value, len(t))
		for i, e := range t {
			iv, err := FromInterface(e)
			if err != nil {
				return Value{}, err
			}
			items[i] = iv
		}
		return Sequence(items...), nil
	case []string:
		items := make([]Value, len(t))
		for i, e := range t {
			items[i] = String(e)
		}
		return Sequence(items...), nil
	case gyaml.MapSlice:
		sec, err := SectionFromMapSlice(t)
		if err != nil {
			return Value{}, err
		}
		return Mapping(sec), nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sec := NewSection()
		for _, k := range keys {
			iv, err := FromInterface(t[k])
			if err != nil {
				return Value{}, err
			}
			sec.Set(k, NewBlock(iv))
		}
		return Mapping(sec), nil
	case *Section:
		return Mapping(t.Clone()), nil
	}
	return Value{}, fmt.Errorf("%w: unsupported type %T", ErrCoerce, x)
}

func uintValue(u uint64) Value {
	if u > math.MaxInt64 {
		return String(strconv.FormatUint(u, 10))
	}
	return Int(int64(u))
}

// Clone deep-copies sequences and sections.
func (v Value) Clone() Value {
	res := v
	switch v.kind {
	case SequenceKind:
		res.seq = make([]Value, len(v.seq))
		for i, item := range v.seq {
			res.seq[i] = item.Clone()
		}
	case MappingKind:
		res.sec = v.sec.Clone()
	}
	return res
}

// Equal compares kinds and contents, ignoring source formatting and comments.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case NullKind:
		return true
	case BoolKind:
		return v.b == o.b
	case IntKind:
		return v.i == o.i
	case FloatKind:
		return v.f == o.f || (math.IsNaN(v.f) && math.IsNaN(o.f))
	case StringKind:
		return v.s == o.s
	case SequenceKind:
		if len(v.seq) != len(o.seq) {
			return false
		}
		for i := range v.seq {
			if !v.seq[i].Equal(o.seq[i]) {
				return false
			}
		}
		return true
	case MappingKind:
		return v.sec.Equal(o.sec, false)
	}
	return false
}

// Source returns a scalar as it was spelled in the parsed file, or its
// canonical string form for values built in code.
func (v Value) Source() string {
	if v.raw != "" {
		return v.raw
	}
	return v.String()
}

func (v Value) String() string {
	switch v.kind {
	case NullKind:
		return "null"
	case SequenceKind, MappingKind:
		return fmt.Sprint(v.Interface())
	}
	s, _ := v.AsString()
	return s
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}
