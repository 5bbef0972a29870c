package pattern

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// NotFound is returned by Segment.Parse when no element matches.
const NotFound = -1

// Unbounded may be passed as the end of a Range for an open-ended segment.
const Unbounded = math.MaxInt

// maxDigits bounds the digit run inspected by range parsing; longer runs
// cannot be an int anyway.
const maxDigits = 19

// Segment is one ordered, finite alphabet of version identifier elements.
// Elements are addressed by cursor, 0 through Len()-1.
type Segment interface {
	// Len is the number of elements.
	Len() int
	// ElementAt renders the element at cursor.
	ElementAt(cursor int) string
	// ElementLen is len(ElementAt(cursor)).
	ElementLen(cursor int) int
	// Parse returns the cursor of the element found at offset in text, or
	// NotFound.
	Parse(text string, offset int) int
}

type literalSegment struct {
	elements []string
}

// Literal returns a segment made of the given fixed strings, in cursor order.
// It panics when no element is given or an element is empty.
func Literal(elements ...string) Segment {
	if len(elements) == 0 {
		panic("pattern: literal segment needs at least one element")
	}
	for _, e := range elements {
		if e == "" {
			panic("pattern: literal segment element is empty")
		}
	}
	return &literalSegment{elements: append([]string(nil), elements...)}
}

func (s *literalSegment) Len() int { return len(s.elements) }

func (s *literalSegment) ElementAt(cursor int) string { return s.elements[cursor] }

func (s *literalSegment) ElementLen(cursor int) int { return len(s.elements[cursor]) }

func (s *literalSegment) Parse(text string, offset int) int {
	if offset < 0 || offset > len(text) {
		return NotFound
	}
	rest := text[offset:]
	for i, e := range s.elements {
		if strings.HasPrefix(rest, e) {
			return i
		}
	}
	return NotFound
}

func (s *literalSegment) String() string {
	return fmt.Sprintf("literal(%s)", strings.Join(s.elements, "|"))
}

type rangeSegment struct {
	start, end, step int
	fill             int
	length           int
}

// RangeOption configures a range segment.
type RangeOption func(*rangeSegment)

// WithFill zero-pads every element to width characters.
func WithFill(width int) RangeOption {
	return func(s *rangeSegment) { s.fill = width }
}

// Range returns the integers start, start+step, ... strictly below end. Pass
// Unbounded as end for an open-ended segment. It panics on a negative start, a
// non-positive step, an empty range or a negative fill width.
func Range(start, end, step int, opts ...RangeOption) Segment {
	if start < 0 {
		panic(fmt.Sprintf("pattern: range start %d is negative", start))
	}
	if step <= 0 {
		panic(fmt.Sprintf("pattern: range step %d is not positive", step))
	}
	if end <= start {
		panic(fmt.Sprintf("pattern: range [%d, %d) is empty", start, end))
	}
	s := &rangeSegment{start: start, end: end, step: step}
	for _, o := range opts {
		o(s)
	}
	if s.fill < 0 {
		panic(fmt.Sprintf("pattern: fill width %d is negative", s.fill))
	}
	s.length = (end-start-1)/step + 1
	return s
}

func (s *rangeSegment) Len() int { return s.length }

func (s *rangeSegment) ElementAt(cursor int) string {
	v := strconv.Itoa(s.start + cursor*s.step)
	if len(v) < s.fill {
		v = strings.Repeat("0", s.fill-len(v)) + v
	}
	return v
}

func (s *rangeSegment) ElementLen(cursor int) int { return len(s.ElementAt(cursor)) }

// Parse takes the longest digit run at offset whose rendering is an element.
// Trying longer candidates first means a match is never directly followed by
// a digit that would extend it to another element.
func (s *rangeSegment) Parse(text string, offset int) int {
	if offset < 0 || offset >= len(text) {
		return NotFound
	}
	n := 0
	for offset+n < len(text) && n < maxDigits && isDigit(text[offset+n]) {
		n++
	}
	for l := n; l > 0; l-- {
		cand := text[offset : offset+l]
		v, err := strconv.Atoi(cand)
		if err != nil {
			continue
		}
		c, ok := s.cursorOf(v)
		if !ok {
			continue
		}
		if s.ElementAt(c) == cand {
			return c
		}
	}
	return NotFound
}

func (s *rangeSegment) cursorOf(v int) (int, bool) {
	if v < s.start || v >= s.end || (v-s.start)%s.step != 0 {
		return 0, false
	}
	return (v - s.start) / s.step, true
}

func (s *rangeSegment) String() string {
	end := strconv.Itoa(s.end)
	if s.end == Unbounded {
		end = "inf"
	}
	return fmt.Sprintf("range(%d,%s,%d,fill=%d)", s.start, end, s.step, s.fill)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func segmentsEqual(a, b Segment) bool {
	if a == b {
		return true
	}
	switch x := a.(type) {
	case *literalSegment:
		y, ok := b.(*literalSegment)
		if !ok || len(x.elements) != len(y.elements) {
			return false
		}
		for i := range x.elements {
			if x.elements[i] != y.elements[i] {
				return false
			}
		}
		return true
	case *rangeSegment:
		y, ok := b.(*rangeSegment)
		return ok && *x == *y
	}
	return false
}
