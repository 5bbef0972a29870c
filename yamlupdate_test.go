package yamlupdate

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/kevinwang15/yamlupdate/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func mustParse(t *testing.T, in string, opts ...ParseOption) *Document {
	t.Helper()
	doc, err := Parse([]byte(in), opts...)
	require.NoError(t, err)
	return doc
}

func mustMarshal(t *testing.T, doc *Document) string {
	t.Helper()
	out, err := Marshal(doc)
	require.NoError(t, err)
	return string(out)
}

func TestParseErrorsOnNonMappingTopLevel(t *testing.T) {
	in := []byte("- 1\n- 2\n")
	if _, err := Parse(in); err == nil {
		t.Fatalf("expected error for non-mapping top-level, got nil")
	}
}

func TestParseErrorsOnInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("a: [1, 2\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yamlupdate: failed to parse YAML")
}

func TestEmptyDataCreatesEmptyDoc(t *testing.T) {
	doc, err := Parse([]byte{})
	if err != nil {
		t.Fatalf("Parse empty should succeed, got error: %v", err)
	}
	if doc == nil || doc.Root == nil || doc.Root.Len() != 0 {
		t.Fatalf("expected empty root section for empty data")
	}

	doc = mustParse(t, "# only a comment\n")
	assert.Equal(t, 0, doc.Root.Len())
}

func TestParseScalarKinds(t *testing.T) {
	doc := mustParse(t, `n: ~
b: true
i: 42
h: 0x1F
f: 1.5
s: hello
q: "true"
seq: [1, two]
m:
  inner: x
`)
	kinds := map[string]Kind{
		"n": NullKind, "b": BoolKind, "i": IntKind, "h": IntKind, "f": FloatKind,
		"s": StringKind, "q": StringKind, "seq": SequenceKind, "m": MappingKind,
	}
	for k, want := range kinds {
		b, ok := doc.Root.Get(k)
		require.True(t, ok, k)
		assert.Equal(t, want, b.Value.Kind(), k)
	}
	h, _ := doc.Root.Get("h")
	i, err := h.Value.AsInt()
	require.NoError(t, err)
	assert.Equal(t, int64(31), i)

	out := mustMarshal(t, doc)
	assert.Contains(t, out, "h: 0x1F")
	assert.Contains(t, out, `q: "true"`)
	assert.Contains(t, out, "n: ~")
}

func TestKeyFormats(t *testing.T) {
	in := "1: one\ntrue: yes\n"

	doc := mustParse(t, in)
	_, ok := doc.Root.Get("1")
	assert.True(t, ok)

	doc = mustParse(t, in, WithKeyFormat(ObjectKeys))
	_, ok = doc.Root.Get(1)
	assert.True(t, ok)
	_, ok = doc.Root.Get(true)
	assert.True(t, ok)
	_, ok = doc.Root.Get("1")
	assert.False(t, ok)

	out := mustMarshal(t, doc)
	assert.Contains(t, out, "1: one")
	assert.Contains(t, out, "true: yes")
}

func TestPreservesCommentsAndIndent(t *testing.T) {
	// Test with 4-space indent
	in := []byte(`# file header comment
resources:
    # cpu comment
    cpu: 100 # inline
    # memory comment
    memory: 256
`)
	doc, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	assert.Equal(t, 4, doc.Indent)

	res, ok := doc.Root.SectionAt(route.MustFrom("resources"))
	require.True(t, ok)
	cpu, ok := res.Get("cpu")
	require.True(t, ok)
	res.Set("cpu", cpu.WithValue(Int(150)))

	out, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	if !bytes.Contains(out, []byte("# cpu comment")) || !bytes.Contains(out, []byte("# memory comment")) {
		t.Fatalf("expected comments to be preserved; got:\n%s", string(out))
	}
	if !bytes.Contains(out, []byte("# file header comment")) {
		t.Fatalf("expected header comment to be preserved; got:\n%s", string(out))
	}
	if !bytes.Contains(out, []byte("    cpu: 150 # inline")) {
		t.Fatalf("expected 4-space indent and inline comment for cpu; got:\n%s", string(out))
	}
}

func TestRoundTripIsStable(t *testing.T) {
	in := `# header

server:
  # where to listen
  host: localhost # default
  port: 8080
  tags:
    - a
    - b
limits: {cpu: 1, memory: 2}
`
	doc := mustParse(t, in)
	first := mustMarshal(t, doc)
	second := mustMarshal(t, mustParse(t, first))
	assert.Equal(t, first, second)
	assert.Contains(t, first, "# where to listen")
	assert.Contains(t, first, "host: localhost # default")
	assert.Contains(t, first, "{cpu: 1, memory: 2}")
}

// Adding a key next to nested sequences must not disturb them.
func TestAddingKeyKeepsNestedSequences(t *testing.T) {
	input := `service:
  enabled: true
  routes:
    - host: app.example.com
      paths:
        - /
`
	doc := mustParse(t, input)
	service, ok := doc.Root.SectionAt(route.MustFrom("service"))
	require.True(t, ok)
	service.Set("replicas", NewBlock(Int(5)))

	out := mustMarshal(t, doc)

	var round struct {
		Service struct {
			Enabled  bool `yaml:"enabled"`
			Replicas int  `yaml:"replicas"`
			Routes   []struct {
				Host  string   `yaml:"host"`
				Paths []string `yaml:"paths"`
			} `yaml:"routes"`
		} `yaml:"service"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &round), out)
	assert.Equal(t, 5, round.Service.Replicas)
	require.Len(t, round.Service.Routes, 1)
	assert.Equal(t, []string{"/"}, round.Service.Routes[0].Paths)
	assert.True(t, strings.HasSuffix(out, "replicas: 5\n"), out)
}

func TestAliasesAreResolved(t *testing.T) {
	doc := mustParse(t, `base: &b
  x: 1
copy: *b
`)
	v, ok := doc.Root.ValueAt(route.MustFrom("copy", "x"))
	require.True(t, ok)
	assert.True(t, v.Equal(Int(1)))
}

func TestConcurrentEditsAreSerialized(t *testing.T) {
	doc := mustParse(t, "root: {}\n")

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = doc.Edit(func(d *Document) error {
				sec, _ := d.Root.SectionAt(route.MustFrom("root"))
				sec.Set(i, NewBlock(Int(int64(i))))
				return nil
			})
		}()
	}
	wg.Wait()

	sec, ok := doc.Root.SectionAt(route.MustFrom("root"))
	require.True(t, ok)
	assert.Equal(t, 20, sec.Len())
}

func TestMarshalSection(t *testing.T) {
	sec := NewSection()
	sec.Set("a", NewBlock(Float(2)))
	sec.Set("b", NewBlock(Null()))
	out, err := MarshalSection(sec, 2)
	require.NoError(t, err)
	assert.Equal(t, "a: 2.0\nb: null\n", string(out))
}

func TestDiff(t *testing.T) {
	d, err := Diff("config.yml", []byte("a: 1\nb: 2\n"), []byte("a: 1\nb: 3\n"))
	require.NoError(t, err)
	assert.Contains(t, d, "--- config.yml (current)")
	assert.Contains(t, d, "+++ config.yml (updated)")
	assert.Contains(t, d, "-b: 2")
	assert.Contains(t, d, "+b: 3")

	d, err = Diff("config.yml", []byte("a: 1\n"), []byte("a: 1\n"))
	require.NoError(t, err)
	assert.Empty(t, d)
}

func TestIndentDetection(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"two spaces", "root:\n  child: value", 2},
		{"four spaces", "root:\n    child: value", 4},
		{"three spaces", "root:\n   child: value", 3},
		{"nested levels", "root:\n  child:\n    deep:\n      deeper: value", 2},
		{"comments ignored", "root:\n # odd\n    child: value", 4},
		{"flat", "a: 1\nb: 2", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, detectIndent([]byte(tt.input)))
		})
	}
}
