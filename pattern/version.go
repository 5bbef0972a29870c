package pattern

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrIncomparable is returned when comparing versions of different patterns.
	ErrIncomparable = errors.New("pattern: versions of different patterns are not comparable")
	// ErrExhausted is returned by Next when the most significant segment overflows.
	ErrExhausted = errors.New("pattern: no version after the last one")
)

// Version is a position within a Pattern.
type Version struct {
	pattern *Pattern
	cursors []int
	id      string
}

func newVersion(p *Pattern, cursors []int) *Version {
	v := &Version{pattern: p, cursors: cursors}
	v.render()
	return v
}

func (v *Version) render() {
	var sb strings.Builder
	for i, seg := range v.pattern.segments {
		sb.WriteString(seg.ElementAt(v.cursors[i]))
	}
	v.id = sb.String()
}

// Pattern returns the pattern v belongs to.
func (v *Version) Pattern() *Pattern { return v.pattern }

// Cursor returns the cursor of segment i.
func (v *Version) Cursor(i int) int { return v.cursors[i] }

// ID returns the rendered identifier.
func (v *Version) ID() string { return v.id }

func (v *Version) String() string { return v.id }

// Compare returns -1, 0 or +1 comparing cursors from the most significant
// segment to the least significant one.
func (v *Version) Compare(o *Version) (int, error) {
	if o == nil || !v.pattern.Equal(o.pattern) {
		return 0, ErrIncomparable
	}
	for i := range v.cursors {
		if c := cmp.Compare(v.cursors[i], o.cursors[i]); c != 0 {
			return c, nil
		}
	}
	return 0, nil
}

// Next advances v to its successor: the least significant cursor is
// incremented and overflowing cursors reset to 0, carrying to the left. When
// every segment overflows v is left unchanged and ErrExhausted is returned.
func (v *Version) Next() error {
	cursors := append([]int(nil), v.cursors...)
	for i := len(cursors) - 1; i >= 0; i-- {
		if cursors[i]+1 < v.pattern.segments[i].Len() {
			cursors[i]++
			v.cursors = cursors
			v.render()
			return nil
		}
		cursors[i] = 0
	}
	return fmt.Errorf("%w: %s", ErrExhausted, v.id)
}

// Copy returns a version with its own cursors and the same pattern.
func (v *Version) Copy() *Version {
	return &Version{pattern: v.pattern, cursors: append([]int(nil), v.cursors...), id: v.id}
}

// Sort orders versions ascending. All versions must share a pattern.
func Sort(vs []*Version) error {
	var err error
	slices.SortStableFunc(vs, func(a, b *Version) int {
		c, cerr := a.Compare(b)
		if cerr != nil && err == nil {
			err = cerr
		}
		return c
	})
	return err
}
