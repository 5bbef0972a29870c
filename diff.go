package yamlupdate

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// Diff returns a unified diff between two renderings of the file name, or ""
// when they are equal.
func Diff(name string, before, after []byte) (string, error) {
	if string(before) == string(after) {
		return "", nil
	}
	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: name + " (current)",
		ToFile:   name + " (updated)",
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("yamlupdate: failed to diff %s: %w", name, err)
	}
	return out, nil
}
