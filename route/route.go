// Package route addresses nodes in a document tree.
//
// A Route is an immutable, ordered sequence of one or more key tokens. There
// are two variants: Single, carrying exactly one key, and Multi, carrying any
// number of keys. Both satisfy the same contract and a Single route is equal to
// (and hashes like) a Multi route of length one with the same key:
//
//	a := route.Single{K: "server"}
//	b, _ := route.MustFrom("server", "port").Parent() // Multi{"server"}
//	a.Key() == b.Key() // true
//
// Integer keys of any width are normalized to int64 and unsigned values that fit
// are normalized the same way, so route.MustFrom(1) resolves a YAML key parsed
// as 1.
package route

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

var (
	// ErrEmptyRoute is returned when a route is built from no keys.
	ErrEmptyRoute = errors.New("route: empty route")
	// ErrNilKey is returned when a route is built with a nil key.
	ErrNilKey = errors.New("route: nil key")
	// ErrNoParent is returned by Parent on a route of length one.
	ErrNoParent = errors.New("route: route of length 1 has no parent")
	// ErrIndexOutOfRange is matched by *IndexError.
	ErrIndexOutOfRange = errors.New("route: index out of range")
)

// IndexError reports a token access outside [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("route: index %d out of range for route of length %d", e.Index, e.Len)
}

func (e *IndexError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// Route is an immutable key path.
type Route interface {
	// Len is the number of keys, always at least 1.
	Len() int
	// Get returns the key at index i or an *IndexError.
	Get(i int) (any, error)
	// Add returns a new route with key appended.
	Add(key any) Route
	// Parent returns the route without its last key.
	Parent() (Route, error)
	// Key returns a comparable form usable as a map key.
	Key() Key
	// Hash hashes Key.
	Hash() uint64
	// Join renders the keys separated by sep.
	Join(sep rune) string
	String() string
}

// Key is the canonical, comparable identity of a route.
type Key string

// Single is a route made of exactly one key.
type Single struct {
	K any
}

// Multi is a route made of one or more keys.
type Multi struct {
	keys []any
}

// From builds a route from the given keys.
func From(keys ...any) (Route, error) {
	if len(keys) == 0 {
		return nil, ErrEmptyRoute
	}
	norm := make([]any, len(keys))
	for i, k := range keys {
		if k == nil {
			return nil, fmt.Errorf("%w at index %d", ErrNilKey, i)
		}
		norm[i] = NormalizeKey(k)
	}
	if len(norm) == 1 {
		return Single{K: norm[0]}, nil
	}
	return Multi{keys: norm}, nil
}

// MustFrom is like From but panics on error.
func MustFrom(keys ...any) Route {
	r, err := From(keys...)
	if err != nil {
		panic(err)
	}
	return r
}

// Keys returns a copy of the keys of r.
func Keys(r Route) []any {
	res := make([]any, r.Len())
	for i := range res {
		res[i], _ = r.Get(i)
	}
	return res
}

// Equal reports whether a and b address the same node. A value that is not a
// Route is treated as a route of length one.
func Equal(a, b any) bool {
	ra, ok := asRoute(a)
	if !ok {
		return false
	}
	rb, ok := asRoute(b)
	if !ok {
		return false
	}
	return ra.Key() == rb.Key()
}

func asRoute(v any) (Route, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case Route:
		return x, true
	default:
		return Single{K: NormalizeKey(x)}, true
	}
}

// NormalizeKey maps integer kinds to int64 and float32 to float64.
func NormalizeKey(k any) any {
	switch v := k.(type) {
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		if uint64(v) <= 1<<63-1 {
			return int64(v)
		}
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		if v <= 1<<63-1 {
			return int64(v)
		}
	case float32:
		return float64(v)
	}
	return k
}

func (s Single) Len() int { return 1 }

func (s Single) Get(i int) (any, error) {
	if i != 0 {
		return nil, &IndexError{Index: i, Len: 1}
	}
	return s.K, nil
}

func (s Single) Add(key any) Route {
	return Multi{keys: []any{NormalizeKey(s.K), NormalizeKey(key)}}
}

func (s Single) Parent() (Route, error) {
	return nil, ErrNoParent
}

func (s Single) Key() Key { return Key(keyToken(s.K)) }

func (s Single) Hash() uint64 { return xxhash.Sum64String(string(s.Key())) }

func (s Single) Join(sep rune) string { return keyString(s.K) }

func (s Single) String() string { return s.Join('.') }

func (m Multi) Len() int { return len(m.keys) }

func (m Multi) Get(i int) (any, error) {
	if i < 0 || i >= len(m.keys) {
		return nil, &IndexError{Index: i, Len: len(m.keys)}
	}
	return m.keys[i], nil
}

func (m Multi) Add(key any) Route {
	keys := make([]any, len(m.keys), len(m.keys)+1)
	copy(keys, m.keys)
	return Multi{keys: append(keys, NormalizeKey(key))}
}

func (m Multi) Parent() (Route, error) {
	if len(m.keys) <= 1 {
		return nil, ErrNoParent
	}
	keys := make([]any, len(m.keys)-1)
	copy(keys, m.keys)
	return Multi{keys: keys}, nil
}

func (m Multi) Key() Key {
	var sb strings.Builder
	for _, k := range m.keys {
		sb.WriteString(keyToken(k))
	}
	return Key(sb.String())
}

func (m Multi) Hash() uint64 { return xxhash.Sum64String(string(m.Key())) }

func (m Multi) Join(sep rune) string {
	parts := make([]string, len(m.keys))
	for i, k := range m.keys {
		parts[i] = keyString(k)
	}
	return strings.Join(parts, string(sep))
}

func (m Multi) String() string { return m.Join('.') }

// keyToken encodes a key with its kind so that "1" and 1 stay distinct. The
// length prefix keeps concatenated tokens unambiguous.
func keyToken(k any) string {
	var t string
	switch v := NormalizeKey(k).(type) {
	case string:
		t = "s:" + v
	case bool:
		t = "b:" + strconv.FormatBool(v)
	case int64:
		t = "i:" + strconv.FormatInt(v, 10)
	case float64:
		t = "f:" + strconv.FormatFloat(v, 'g', -1, 64)
	default:
		t = fmt.Sprintf("%T:%v", v, v)
	}
	return strconv.Itoa(len(t)) + ":" + t
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}
