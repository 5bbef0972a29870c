package updater

import (
	"fmt"
	"strings"
)

// MergeRule names a pairing of user and default block types. The rule's value
// in MergeOptions.Rules decides whether the user's block wins.
type MergeRule int

const (
	// Mappings: both blocks are terminals.
	Mappings MergeRule = iota
	// MappingAtSection: the user has a terminal where the default has a section.
	MappingAtSection
	// SectionAtMapping: the user has a section where the default has a terminal.
	SectionAtMapping
)

var ruleNames = map[MergeRule]string{
	Mappings:         "mappings",
	MappingAtSection: "mapping-at-section",
	SectionAtMapping: "section-at-mapping",
}

func (r MergeRule) String() string {
	if n, ok := ruleNames[r]; ok {
		return n
	}
	return fmt.Sprintf("MergeRule(%d)", int(r))
}

// ParseMergeRule accepts the rule names, case-insensitively and with either
// '-' or '_' between words.
func ParseMergeRule(s string) (MergeRule, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for r, n := range ruleNames {
		if n == norm {
			return r, nil
		}
	}
	return 0, fmt.Errorf("yamlupdate: unknown merge rule %q", s)
}

// DefaultMergeRules lets the user win for terminals and the default win on
// type conflicts.
func DefaultMergeRules() map[MergeRule]bool {
	return map[MergeRule]bool{
		Mappings:         true,
		MappingAtSection: false,
		SectionAtMapping: false,
	}
}

// RuleFor selects the rule for a pair of blocks. Two sections have no rule,
// they are merged recursively.
func RuleFor(defIsSection, userIsSection bool) (MergeRule, bool) {
	switch {
	case defIsSection && !userIsSection:
		return MappingAtSection, true
	case !defIsSection && userIsSection:
		return SectionAtMapping, true
	case !defIsSection && !userIsSection:
		return Mappings, true
	}
	return 0, false
}
