// Package pattern tokenizes and compares version identifiers.
//
// A Pattern is an ordered list of Segments, most significant first. Each
// segment is a finite alphabet: either literal strings or a numeric range.
// A Version is one cursor per segment; versions of the same pattern compare
// like the identifiers they render and can step to their successor.
//
//	p := pattern.New(
//		pattern.Range(1, pattern.Unbounded, 1),
//		pattern.Literal("."),
//		pattern.Range(0, 10, 1),
//	)
//	v, _ := p.Version("1.9")
//	_ = v.Next() // v.ID() == "2.0"
//
// Adjacent segments must not be able to match across their boundary; the
// pattern does not check this.
package pattern

import (
	"fmt"
	"strings"
)

// Pattern is an ordered list of segments.
type Pattern struct {
	segments []Segment
}

// New returns a pattern of the given segments. It panics if none is given.
func New(segments ...Segment) *Pattern {
	if len(segments) == 0 {
		panic("pattern: pattern needs at least one segment")
	}
	return &Pattern{segments: append([]Segment(nil), segments...)}
}

// Dotted returns MAJOR(.PART)* with parts numeric parts: the first counts from 1,
// the others from 0, all unbounded.
func Dotted(parts int) *Pattern {
	if parts <= 0 {
		panic(fmt.Sprintf("pattern: dotted pattern needs at least one part, got %d", parts))
	}
	segs := []Segment{Range(1, Unbounded, 1)}
	for i := 1; i < parts; i++ {
		segs = append(segs, Literal("."), Range(0, Unbounded, 1))
	}
	return New(segs...)
}

// Len is the number of segments.
func (p *Pattern) Len() int { return len(p.segments) }

// Segment returns the segment at index i.
func (p *Pattern) Segment(i int) Segment { return p.segments[i] }

// Segments returns a copy of the segment list.
func (p *Pattern) Segments() []Segment {
	return append([]Segment(nil), p.segments...)
}

// Version parses id. The boolean is false when a segment does not match or
// input remains after the last segment.
func (p *Pattern) Version(id string) (*Version, bool) {
	cursors := make([]int, len(p.segments))
	offset := 0
	for i, seg := range p.segments {
		c := seg.Parse(id, offset)
		if c == NotFound {
			return nil, false
		}
		cursors[i] = c
		offset += seg.ElementLen(c)
	}
	if offset != len(id) {
		return nil, false
	}
	return newVersion(p, cursors), true
}

// FirstVersion returns the version with every cursor at 0.
func (p *Pattern) FirstVersion() *Version {
	return newVersion(p, make([]int, len(p.segments)))
}

// Equal reports whether p and o describe the same identifiers.
func (p *Pattern) Equal(o *Pattern) bool {
	if p == o {
		return true
	}
	if p == nil || o == nil || len(p.segments) != len(o.segments) {
		return false
	}
	for i := range p.segments {
		if !segmentsEqual(p.segments[i], o.segments[i]) {
			return false
		}
	}
	return true
}

func (p *Pattern) String() string {
	parts := make([]string, len(p.segments))
	for i, s := range p.segments {
		parts[i] = fmt.Sprint(s)
	}
	return strings.Join(parts, " ")
}
