package yamlupdate

import (
	"fmt"

	gyaml "github.com/goccy/go-yaml"
)

// MapSlice converts the section to an ordered goccy mapping, dropping comments.
func (s *Section) MapSlice() gyaml.MapSlice {
	ms := make(gyaml.MapSlice, 0, s.Len())
	s.Each(func(k any, b *Block) bool {
		ms = append(ms, gyaml.MapItem{Key: k, Value: b.Value.Interface()})
		return true
	})
	return ms
}

// SectionFromMapSlice builds a section from an ordered goccy mapping.
func SectionFromMapSlice(ms gyaml.MapSlice) (*Section, error) {
	sec := NewSection()
	for _, item := range ms {
		if item.Key == nil {
			return nil, fmt.Errorf("yamlupdate: nil key in mapping")
		}
		v, err := FromInterface(item.Value)
		if err != nil {
			return nil, fmt.Errorf("yamlupdate: key %v: %w", item.Key, err)
		}
		sec.Set(item.Key, NewBlock(v))
	}
	return sec, nil
}

// Decode fills out, typically a host configuration struct, from the section.
// This is the boundary to host-specific config objects; the update engine
// never calls it.
func (s *Section) Decode(out any, opts ...gyaml.DecodeOption) error {
	x, err := stringKeyed(Mapping(s))
	if err != nil {
		return fmt.Errorf("yamlupdate: failed to encode section: %w", err)
	}
	data, err := gyaml.Marshal(x)
	if err != nil {
		return fmt.Errorf("yamlupdate: failed to encode section: %w", err)
	}
	if err := gyaml.UnmarshalWithOptions(data, out, opts...); err != nil {
		return fmt.Errorf("yamlupdate: failed to decode section: %w", err)
	}
	return nil
}

// Encode builds a section from a host value such as a struct, using its yaml tags.
func Encode(in any) (*Section, error) {
	data, err := gyaml.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("yamlupdate: failed to encode value: %w", err)
	}
	var ms gyaml.MapSlice
	if err := gyaml.UnmarshalWithOptions(data, &ms, gyaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("yamlupdate: value is not a mapping: %w", err)
	}
	return SectionFromMapSlice(ms)
}
