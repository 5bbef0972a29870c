package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func majorMinor() *Pattern {
	return New(Range(1, Unbounded, 1), Literal("."), Range(0, 10, 1))
}

func mustVersion(t *testing.T, p *Pattern, id string) *Version {
	t.Helper()
	v, ok := p.Version(id)
	require.True(t, ok, "expected %q to match %s", id, p)
	return v
}

func TestLiteralParse(t *testing.T) {
	s := Literal("alpha", "beta", "b")
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 0, s.Parse("1-alpha", 2))
	assert.Equal(t, 1, s.Parse("beta", 0))
	assert.Equal(t, 2, s.Parse("bx", 0))
	assert.Equal(t, NotFound, s.Parse("gamma", 0))
	assert.Equal(t, NotFound, s.Parse("alpha", 9))
	assert.Equal(t, 5, s.ElementLen(0))
}

func TestRangeElements(t *testing.T) {
	s := Range(0, 10, 2)
	assert.Equal(t, 5, s.Len())
	assert.Equal(t, "8", s.ElementAt(4))

	padded := Range(0, 100, 1, WithFill(2))
	assert.Equal(t, "07", padded.ElementAt(7))
	assert.Equal(t, 2, padded.ElementLen(7))

	open := Range(1, Unbounded, 1)
	assert.Equal(t, "1", open.ElementAt(0))
	assert.Greater(t, open.Len(), 1<<40)
}

func TestRangeParse(t *testing.T) {
	tests := []struct {
		name   string
		seg    Segment
		text   string
		offset int
		want   int
	}{
		{"single digit", Range(0, 10, 1), "7", 0, 7},
		{"longest in range", Range(0, 100, 1), "42.1", 0, 42},
		{"falls back to shorter", Range(0, 10, 1), "42", 0, 4},
		{"respects step", Range(0, 10, 2), "3", 0, NotFound},
		{"below start", Range(5, 10, 1), "4", 0, NotFound},
		{"offset", Range(0, 100, 1), "1.23", 2, 23},
		{"no digits", Range(0, 10, 1), ".", 0, NotFound},
		{"offset at end", Range(0, 10, 1), "1", 1, NotFound},
		{"leading zero is its own element", Range(0, 100, 1), "07", 0, 0},
		{"padded exact width", Range(0, 100, 1, WithFill(2)), "0512", 0, 5},
		{"padded needs width", Range(0, 100, 1, WithFill(2)), "5", 0, NotFound},
		{"padded wider value", Range(0, 1000, 1, WithFill(2)), "123", 0, 123},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.seg.Parse(tt.text, tt.offset))
		})
	}
}

func TestRangePanicsOnBadArguments(t *testing.T) {
	assert.Panics(t, func() { Range(-1, 3, 1) })
	assert.Panics(t, func() { Range(0, 3, 0) })
	assert.Panics(t, func() { Range(3, 3, 1) })
	assert.Panics(t, func() { Range(0, 3, 1, WithFill(-1)) })
	assert.Panics(t, func() { Literal() })
	assert.Panics(t, func() { Literal("a", "") })
	assert.Panics(t, func() { New() })
}

func TestVersionRoundTrip(t *testing.T) {
	patterns := map[string]*Pattern{
		"major.minor": majorMinor(),
		"dotted3":     Dotted(3),
		"padded":      New(Range(2020, 2100, 1), Literal("-"), Range(1, 13, 1, WithFill(2))),
		"tagged":      New(Range(1, 10, 1), Literal("-alpha", "-beta", "-rc")),
	}
	ids := map[string][]string{
		"major.minor": {"1.0", "1.9", "12.3", "999.0"},
		"dotted3":     {"1.0.0", "3.14.159", "10.0.1"},
		"padded":      {"2024-01", "2099-12"},
		"tagged":      {"1-alpha", "2-beta", "3-rc"},
	}
	for name, p := range patterns {
		for _, id := range ids[name] {
			v := mustVersion(t, p, id)
			assert.Equal(t, id, v.ID(), "%s: %s", name, id)
		}
	}
}

func TestVersionNoMatch(t *testing.T) {
	p := majorMinor()
	for _, id := range []string{"", "1", "1.", "0.1", "1.10", "1.2.3", "a.b", "1-2"} {
		_, ok := p.Version(id)
		assert.False(t, ok, "expected %q not to match", id)
	}
}

func TestFirstVersion(t *testing.T) {
	assert.Equal(t, "1.0", majorMinor().FirstVersion().ID())
	assert.Equal(t, "1.0.0", Dotted(3).FirstVersion().ID())
}

func TestNextCarries(t *testing.T) {
	p := majorMinor()
	tests := []struct{ from, to string }{
		{"1.4", "1.5"},
		{"1.8", "1.9"},
		{"1.9", "2.0"},
		{"41.9", "42.0"},
	}
	for _, tt := range tests {
		v := mustVersion(t, p, tt.from)
		require.NoError(t, v.Next())
		assert.Equal(t, tt.to, v.ID())
	}

	three := New(Range(1, 10, 1), Literal("."), Range(0, 10, 1), Literal("."), Range(0, 10, 1))
	deep := []struct{ from, to string }{
		{"1.0.0", "1.0.1"},
		{"1.0.9", "1.1.0"},
		{"1.9.9", "2.0.0"},
		{"8.9.9", "9.0.0"},
	}
	for _, tt := range deep {
		v := mustVersion(t, three, tt.from)
		require.NoError(t, v.Next())
		assert.Equal(t, tt.to, v.ID())
	}
}

func TestNextFullCycleCarriesOnce(t *testing.T) {
	p := majorMinor()
	v := mustVersion(t, p, "3.4")
	minor := p.Segment(2)
	for range minor.Len() {
		require.NoError(t, v.Next())
	}
	assert.Equal(t, "4.4", v.ID())
	assert.Equal(t, 4, v.Cursor(2))
}

func TestNextExhausted(t *testing.T) {
	p := New(Range(1, 3, 1), Literal("."), Range(0, 2, 1))
	v := mustVersion(t, p, "2.1")
	err := v.Next()
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, "2.1", v.ID())
}

func TestCompare(t *testing.T) {
	p := majorMinor()
	tests := []struct {
		a, b string
		want int
	}{
		{"1.9", "2.1", -1},
		{"1.4", "1.6", -1},
		{"1.2", "1.2", 0},
		{"3.0", "2.9", 1},
		{"10.0", "9.9", 1},
	}
	for _, tt := range tests {
		got, err := mustVersion(t, p, tt.a).Compare(mustVersion(t, p, tt.b))
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s vs %s", tt.a, tt.b)
	}
}

func TestCompareIsTotalOrder(t *testing.T) {
	p := majorMinor()
	ids := []string{"1.0", "1.5", "1.9", "2.0", "2.3", "7.1", "10.0"}
	vs := make([]*Version, len(ids))
	for i, id := range ids {
		vs[i] = mustVersion(t, p, id)
	}
	for i := range vs {
		for j := range vs {
			ab, err := vs[i].Compare(vs[j])
			require.NoError(t, err)
			ba, err := vs[j].Compare(vs[i])
			require.NoError(t, err)
			assert.Equal(t, -ab, ba, "antisymmetry %s %s", ids[i], ids[j])
			switch {
			case i < j:
				assert.Equal(t, -1, ab)
			case i == j:
				assert.Equal(t, 0, ab)
			default:
				assert.Equal(t, 1, ab)
			}
		}
	}
}

func TestCompareDifferentPatterns(t *testing.T) {
	a := mustVersion(t, majorMinor(), "1.2")
	b := mustVersion(t, Dotted(3), "1.2.0")
	_, err := a.Compare(b)
	assert.ErrorIs(t, err, ErrIncomparable)

	// Structurally equal patterns compare fine.
	c := mustVersion(t, majorMinor(), "1.3")
	got, err := a.Compare(c)
	require.NoError(t, err)
	assert.Equal(t, -1, got)
}

func TestCopySharesPattern(t *testing.T) {
	v := mustVersion(t, majorMinor(), "1.9")
	c := v.Copy()
	require.NoError(t, c.Next())
	assert.Equal(t, "1.9", v.ID())
	assert.Equal(t, "2.0", c.ID())
	assert.Same(t, v.Pattern(), c.Pattern())
}

func TestSort(t *testing.T) {
	p := majorMinor()
	vs := []*Version{mustVersion(t, p, "2.0"), mustVersion(t, p, "1.3"), mustVersion(t, p, "1.1")}
	require.NoError(t, Sort(vs))
	assert.Equal(t, "1.1", vs[0].ID())
	assert.Equal(t, "1.3", vs[1].ID())
	assert.Equal(t, "2.0", vs[2].ID())
}
