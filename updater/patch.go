package updater

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/kevinwang15/yamlupdate"
)

// PatchMapper applies an RFC 6902 JSON Patch to a mapping or sequence value.
// Keys that survive the patch keep their original type and comments.
func PatchMapper(p jsonpatch.Patch) ValueMapper {
	return MapBlock(func(b *yamlupdate.Block) (yamlupdate.Value, error) {
		doc, err := b.Value.MarshalJSON()
		if err != nil {
			return yamlupdate.Value{}, fmt.Errorf("yamlupdate: failed to encode value for patch: %w", err)
		}
		out, err := p.Apply(doc)
		if err != nil {
			return yamlupdate.Value{}, fmt.Errorf("yamlupdate: failed to apply patch: %w", err)
		}
		v, err := yamlupdate.ValueFromJSON(out)
		if err != nil {
			return yamlupdate.Value{}, err
		}
		return restoreKeys(b.Value, v), nil
	})
}

// DecodePatch builds a patch from decoded operations, as read from a settings
// file.
func DecodePatch(ops []map[string]any) (jsonpatch.Patch, error) {
	data, err := json.Marshal(ops)
	if err != nil {
		return nil, fmt.Errorf("yamlupdate: invalid patch operations: %w", err)
	}
	p, err := jsonpatch.DecodePatch(data)
	if err != nil {
		return nil, fmt.Errorf("yamlupdate: invalid patch: %w", err)
	}
	return p, nil
}

// restoreKeys maps the string keys of a patched mapping back to the keys of
// the mapping it was built from, carrying their comments over.
func restoreKeys(from, to yamlupdate.Value) yamlupdate.Value {
	src, err := from.AsSection()
	if err != nil {
		return to
	}
	dst, err := to.AsSection()
	if err != nil {
		return to
	}

	orig := make(map[string]any, src.Len())
	src.Each(func(k any, _ *yamlupdate.Block) bool {
		orig[yamlupdate.KeyString(k)] = k
		return true
	})

	res := yamlupdate.NewSection()
	dst.Each(func(k any, b *yamlupdate.Block) bool {
		if key, found := orig[yamlupdate.KeyString(k)]; found {
			old, _ := src.Get(key)
			b.KeyComments, b.ValueComments = old.KeyComments, old.ValueComments
			b.Value = restoreKeys(old.Value, b.Value)
			k = key
		}
		res.Set(k, b)
		return true
	})
	return yamlupdate.Mapping(res)
}
