package yamlupdate

import (
	"github.com/kevinwang15/yamlupdate/route"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Section is an ordered mapping of keys to blocks. Keys are unique and keep
// their insertion position, also when overwritten. Keys are stored normalized
// (see route.NormalizeKey). The zero value is an empty section.
type Section struct {
	entries *orderedmap.OrderedMap[any, *Block]
}

func NewSection() *Section {
	return &Section{entries: orderedmap.New[any, *Block]()}
}

func (s *Section) init() {
	if s.entries == nil {
		s.entries = orderedmap.New[any, *Block]()
	}
}

func (s *Section) Len() int {
	if s == nil || s.entries == nil {
		return 0
	}
	return s.entries.Len()
}

// Keys returns the keys in order.
func (s *Section) Keys() []any {
	keys := make([]any, 0, s.Len())
	s.Each(func(k any, _ *Block) bool {
		keys = append(keys, k)
		return true
	})
	return keys
}

func (s *Section) Get(key any) (*Block, bool) {
	if s == nil || s.entries == nil {
		return nil, false
	}
	return s.entries.Get(route.NormalizeKey(key))
}

// Set stores b under key, in place if the key exists, appended otherwise.
func (s *Section) Set(key any, b *Block) {
	s.init()
	s.entries.Set(route.NormalizeKey(key), b)
}

func (s *Section) Delete(key any) bool {
	if s == nil || s.entries == nil {
		return false
	}
	_, ok := s.entries.Delete(route.NormalizeKey(key))
	return ok
}

// Each calls fn for every entry in order until fn returns false.
func (s *Section) Each(fn func(key any, b *Block) bool) {
	if s == nil || s.entries == nil {
		return
	}
	for pair := s.entries.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Clone deep-copies the section.
func (s *Section) Clone() *Section {
	res := NewSection()
	s.Each(func(k any, b *Block) bool {
		res.entries.Set(k, b.Clone())
		return true
	})
	return res
}

// Equal compares keys in order and values; comments are compared when
// withComments is set.
func (s *Section) Equal(o *Section, withComments bool) bool {
	if s.Len() != o.Len() {
		return false
	}
	if s.Len() == 0 {
		return true
	}
	a, b := s.entries.Oldest(), o.entries.Oldest()
	for ; a != nil && b != nil; a, b = a.Next(), b.Next() {
		if a.Key != b.Key || !blocksEqual(a.Value, b.Value, withComments) {
			return false
		}
	}
	return a == nil && b == nil
}

func blocksEqual(a, b *Block, withComments bool) bool {
	if withComments && (a.KeyComments != b.KeyComments || a.ValueComments != b.ValueComments) {
		return false
	}
	if a.IsSection() && b.IsSection() {
		return a.Value.sec.Equal(b.Value.sec, withComments)
	}
	return a.Value.Equal(b.Value)
}

// Resolve walks r from s. It reports false as soon as a key is missing or a
// terminal block is reached with keys left.
func (s *Section) Resolve(r route.Route) (*Block, bool) {
	cur := s
	for i := range r.Len() {
		key, _ := r.Get(i)
		b, ok := cur.Get(key)
		if !ok {
			return nil, false
		}
		if i == r.Len()-1 {
			return b, true
		}
		if !b.IsSection() {
			return nil, false
		}
		cur = b.Value.sec
	}
	return nil, false
}

// ValueAt resolves r and returns its value.
func (s *Section) ValueAt(r route.Route) (Value, bool) {
	b, ok := s.Resolve(r)
	if !ok {
		return Value{}, false
	}
	return b.Value, true
}

// SectionAt resolves r to a nested section.
func (s *Section) SectionAt(r route.Route) (*Section, bool) {
	b, ok := s.Resolve(r)
	if !ok || !b.IsSection() {
		return nil, false
	}
	return b.Value.sec, true
}

// SetAt stores b at r, creating missing sections on the way. A terminal found
// on the way is replaced by an empty section; its key comments stay.
func (s *Section) SetAt(r route.Route, b *Block) {
	cur := s
	for i := range r.Len() - 1 {
		key, _ := r.Get(i)
		next, ok := cur.Get(key)
		if !ok {
			next = NewBlock(Mapping(nil))
			cur.Set(key, next)
		} else if !next.IsSection() {
			next.Value = Mapping(nil)
			next.ValueComments = Comments{}
		}
		cur = next.Value.sec
	}
	last, _ := r.Get(r.Len() - 1)
	cur.Set(last, b)
}

// RemoveAt deletes the entry at r and reports whether it existed.
func (s *Section) RemoveAt(r route.Route) bool {
	parent := s
	if r.Len() > 1 {
		pr, _ := r.Parent()
		sec, ok := s.SectionAt(pr)
		if !ok {
			return false
		}
		parent = sec
	}
	last, _ := r.Get(r.Len() - 1)
	return parent.Delete(last)
}
