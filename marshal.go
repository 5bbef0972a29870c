package yamlupdate

import (
	"bytes"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Marshal encodes the document, with its comments, at the document indent.
func Marshal(doc *Document) ([]byte, error) {
	root := sectionNode(doc.Root)
	setComments(root, doc.RootComments)
	d := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
	setComments(d, doc.Comments)
	return encode(d, doc.Indent)
}

// MarshalSection encodes a bare section.
func MarshalSection(sec *Section, indent int) ([]byte, error) {
	d := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{sectionNode(sec)}}
	return encode(d, indent)
}

func encode(n *yaml.Node, indent int) ([]byte, error) {
	if indent < 2 {
		indent = 2
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(n); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("yamlupdate: failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("yamlupdate: failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func setComments(n *yaml.Node, c Comments) {
	n.HeadComment, n.LineComment, n.FootComment = c.Before, c.Inline, c.After
}

func sectionNode(sec *Section) *yaml.Node {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	sec.Each(func(k any, b *Block) bool {
		kn := keyNode(k)
		setComments(kn, b.KeyComments)
		vn := valueNode(b.Value)
		setComments(vn, b.ValueComments)
		n.Content = append(n.Content, kn, vn)
		return true
	})
	return n
}

func keyNode(k any) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: KeyString(k)}
	switch k.(type) {
	case bool:
		n.Tag = "!!bool"
	case int64:
		n.Tag = "!!int"
	case float64:
		n.Tag = "!!float"
	}
	return n
}

func valueNode(v Value) *yaml.Node {
	switch v.kind {
	case SequenceKind:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: v.style}
		for _, item := range v.seq {
			n.Content = append(n.Content, valueNode(item))
		}
		return n
	case MappingKind:
		n := sectionNode(v.sec)
		n.Style = v.style
		return n
	}
	n := &yaml.Node{Kind: yaml.ScalarNode, Style: v.style}
	switch v.kind {
	case NullKind:
		n.Tag, n.Value = "!!null", "null"
	case BoolKind:
		n.Tag, n.Value = "!!bool", strconv.FormatBool(v.b)
	case IntKind:
		n.Tag, n.Value = "!!int", strconv.FormatInt(v.i, 10)
	case FloatKind:
		n.Tag, n.Value = "!!float", formatFloat(v.f)
	case StringKind:
		n.Tag, n.Value = "!!str", v.s
		if v.tag != "" {
			n.Tag = v.tag
		}
	}
	if v.raw != "" {
		// source spelling, e.g. 0x1F or ~
		n.Value = v.raw
	}
	return n
}
