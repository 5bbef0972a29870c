package yamlupdate

import (
	"fmt"
	"math"

	gyaml "github.com/goccy/go-yaml"
)

// MarshalJSON encodes v with mapping keys in section order. Keys are written in
// their string form.
func (v Value) MarshalJSON() ([]byte, error) {
	x, err := stringKeyed(v)
	if err != nil {
		return nil, err
	}
	out, err := gyaml.MarshalWithOptions(x, gyaml.JSON())
	if err != nil {
		return nil, fmt.Errorf("yamlupdate: failed to encode JSON: %w", err)
	}
	return out, nil
}

// ValueFromJSON decodes JSON keeping object key order.
func ValueFromJSON(data []byte) (Value, error) {
	var x any
	if err := gyaml.UnmarshalWithOptions(data, &x, gyaml.UseOrderedMap()); err != nil {
		return Value{}, fmt.Errorf("yamlupdate: invalid JSON value: %w", err)
	}
	return FromInterface(x)
}

// stringKeyed is Interface with every mapping key in its string form, as
// goccy's encoder requires.
func stringKeyed(v Value) (any, error) {
	switch v.kind {
	case FloatKind:
		if math.IsInf(v.f, 0) || math.IsNaN(v.f) {
			return nil, fmt.Errorf("yamlupdate: %s has no JSON form", formatFloat(v.f))
		}
	case SequenceKind:
		res := make([]any, len(v.seq))
		for i, item := range v.seq {
			x, err := stringKeyed(item)
			if err != nil {
				return nil, err
			}
			res[i] = x
		}
		return res, nil
	case MappingKind:
		ms := make(gyaml.MapSlice, 0, v.sec.Len())
		var err error
		v.sec.Each(func(k any, b *Block) bool {
			var x any
			x, err = stringKeyed(b.Value)
			ms = append(ms, gyaml.MapItem{Key: KeyString(k), Value: x})
			return err == nil
		})
		if err != nil {
			return nil, err
		}
		return ms, nil
	}
	return v.Interface(), nil
}
