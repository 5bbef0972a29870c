package yamlupdate

// Comments is the comment text attached to a key or a value node, as the
// parser reports it (including the leading '#').
type Comments struct {
	Before string
	Inline string
	After  string
}

func (c Comments) IsZero() bool {
	return c.Before == "" && c.Inline == "" && c.After == ""
}

// Block is one mapping entry: a value plus the comments of its key and value.
// A block whose value is a mapping is a section block.
type Block struct {
	Value         Value
	KeyComments   Comments
	ValueComments Comments
}

func NewBlock(v Value) *Block {
	return &Block{Value: v}
}

// IsSection reports whether the block holds a nested mapping.
func (b *Block) IsSection() bool {
	return b != nil && b.Value.kind == MappingKind
}

// Section returns the nested mapping, or nil for a terminal block.
func (b *Block) Section() *Section {
	if !b.IsSection() {
		return nil
	}
	return b.Value.sec
}

// Clone deep-copies the block, nested sections included.
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}
	return &Block{Value: b.Value.Clone(), KeyComments: b.KeyComments, ValueComments: b.ValueComments}
}

// WithValue returns a copy of b carrying v and the same comments.
func (b *Block) WithValue(v Value) *Block {
	return &Block{Value: v, KeyComments: b.KeyComments, ValueComments: b.ValueComments}
}
