// Package yamlupdate holds the in-memory document tree used to reconcile a
// user's YAML configuration with a newer default document.
//
// A Document wraps a root Section. A Section is an ordered mapping of keys to
// Blocks; each Block carries a Value and the comments attached to its key and
// value nodes. Values are a closed set of kinds (null, bool, int, float,
// string, sequence, mapping) with explicit, fallible coercions.
//
// Parse and Marshal convert between bytes and the tree using gopkg.in/yaml.v3.
// The update algorithms (relocation, mapping, merging, versioning) live in the
// updater package.
package yamlupdate

import (
	"bytes"
	"fmt"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// Document is a parsed YAML file whose top level is a mapping.
type Document struct {
	mu sync.Mutex

	Root *Section
	// Comments of the document node (file header and trailer).
	Comments Comments
	// Comments of the top-level mapping node.
	RootComments Comments
	// Indent is the detected indentation width, used by Marshal.
	Indent int
}

// NewDocument returns a document around root with the default indent.
func NewDocument(root *Section) *Document {
	if root == nil {
		root = NewSection()
	}
	return &Document{Root: root, Indent: 2}
}

// Edit runs fn while holding the document lock. Callers sharing a document
// between goroutines serialize updates through it.
func (d *Document) Edit(fn func(d *Document) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fn(d)
}

// KeyFormat selects how mapping keys are stored.
type KeyFormat int

const (
	// StringKeys stores every key as its string form.
	StringKeys KeyFormat = iota
	// ObjectKeys keeps the scalar type of keys (bool, int64, float64, string).
	ObjectKeys
)

type parseConfig struct {
	keyFormat KeyFormat
}

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

func WithKeyFormat(f KeyFormat) ParseOption {
	return func(c *parseConfig) { c.keyFormat = f }
}

// Parse reads YAML data, returning an empty document when data is empty.
func Parse(data []byte, opts ...ParseOption) (*Document, error) {
	cfg := &parseConfig{}
	for _, o := range opts {
		o(cfg)
	}
	doc := NewDocument(nil)
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}

	var tmp yaml.Node
	if err := yaml.Unmarshal(data, &tmp); err != nil {
		return nil, fmt.Errorf("yamlupdate: failed to parse YAML: %w", err)
	}
	doc.Comments = nodeComments(&tmp)
	if len(tmp.Content) == 0 {
		// comments only
		return doc, nil
	}
	if tmp.Kind != yaml.DocumentNode || tmp.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("yamlupdate: top-level YAML is not a mapping")
	}
	top := tmp.Content[0]
	root, err := cfg.section(top)
	if err != nil {
		return nil, err
	}
	doc.Root = root
	doc.RootComments = nodeComments(top)
	doc.Indent = detectIndent(data)
	return doc, nil
}

// ParseSection parses data and returns its root section.
func ParseSection(data []byte, opts ...ParseOption) (*Section, error) {
	doc, err := Parse(data, opts...)
	if err != nil {
		return nil, err
	}
	return doc.Root, nil
}

func nodeComments(n *yaml.Node) Comments {
	return Comments{Before: n.HeadComment, Inline: n.LineComment, After: n.FootComment}
}

func (c *parseConfig) section(n *yaml.Node) (*Section, error) {
	sec := NewSection()
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		key, err := c.key(k)
		if err != nil {
			return nil, err
		}
		val, err := c.value(v)
		if err != nil {
			return nil, fmt.Errorf("yamlupdate: key %v: %w", key, err)
		}
		sec.Set(key, &Block{Value: val, KeyComments: nodeComments(k), ValueComments: nodeComments(v)})
	}
	return sec, nil
}

func (c *parseConfig) key(k *yaml.Node) (any, error) {
	for k.Kind == yaml.AliasNode && k.Alias != nil {
		k = k.Alias
	}
	if k.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("yamlupdate: unsupported non-scalar mapping key at line %d", k.Line)
	}
	if c.keyFormat == StringKeys {
		return k.Value, nil
	}
	v, err := scalar(k)
	if err != nil {
		return nil, err
	}
	switch v.kind {
	case BoolKind:
		return v.b, nil
	case IntKind:
		return v.i, nil
	case FloatKind:
		return v.f, nil
	}
	return k.Value, nil
}

func (c *parseConfig) value(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		if n.Alias == nil {
			return Value{}, fmt.Errorf("yamlupdate: unresolved alias %q", n.Value)
		}
		return c.value(n.Alias)
	case yaml.ScalarNode:
		return scalar(n)
	case yaml.SequenceNode:
		items := make([]Value, len(n.Content))
		for i, item := range n.Content {
			iv, err := c.value(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = iv
		}
		v := Sequence(items...)
		v.style = n.Style
		return v, nil
	case yaml.MappingNode:
		sec, err := c.section(n)
		if err != nil {
			return Value{}, err
		}
		v := Mapping(sec)
		v.style = n.Style
		return v, nil
	}
	return Value{}, fmt.Errorf("yamlupdate: unexpected node kind %d at line %d", n.Kind, n.Line)
}

func scalar(n *yaml.Node) (Value, error) {
	var v Value
	switch n.ShortTag() {
	case "!!null":
		v = Null()
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, err
		}
		v = Bool(b)
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			// out of int64 range, keep the text
			v = String(n.Value)
			v.tag = "!!int"
			break
		}
		v = Int(i)
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, err
		}
		v = Float(f)
	default:
		v = String(n.Value)
		v.tag = n.ShortTag()
	}
	v.raw = n.Value
	v.style = n.Style
	return v, nil
}

// detectIndent returns the GCD of all non-zero indents, 2 when there is none.
func detectIndent(b []byte) int {
	lines := bytes.Split(b, []byte("\n"))

	indents := []int{}
	for _, ln := range lines {
		if isBlankOrComment(ln) {
			continue
		}
		n := leadingSpaces(ln)
		if n > 0 {
			indents = append(indents, n)
		}
	}

	if len(indents) == 0 {
		return 2
	}

	result := indents[0]
	for i := 1; i < len(indents); i++ {
		result = gcd(result, indents[i])
		if result == 1 {
			break
		}
	}

	if result > 1 && result <= 8 {
		return result
	}
	return 2
}

func isBlankOrComment(ln []byte) bool {
	t := bytes.TrimSpace(ln)
	return len(t) == 0 || t[0] == '#'
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func leadingSpaces(line []byte) int {
	i := 0
	for i < len(line) && line[i] == ' ' {
		i++
	}
	return i
}

// KeyString returns the text form of a mapping key, as written to YAML and JSON.
func KeyString(k any) string {
	switch v := k.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatFloat(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(k)
}
