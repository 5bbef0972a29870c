package updater

import (
	"github.com/kevinwang15/yamlupdate"
	"github.com/kevinwang15/yamlupdate/route"
)

// MergeOptions controls Merge.
type MergeOptions struct {
	// KeepAll keeps keys that exist only in the user section.
	KeepAll bool
	// Rules maps each MergeRule to whether the user's block wins. Nil means
	// DefaultMergeRules; a rule missing from the map lets the default win.
	Rules map[MergeRule]bool
	// Ignored routes keep the user's block as is, wherever it is.
	Ignored []route.Route
}

type merger struct {
	opts MergeOptions
}

// Merge combines user values with the structure of def and returns a new
// tree. The result follows def's key order; user-only keys that are kept are
// appended in their original order. Comments travel with the chosen block.
func Merge(user, def *yamlupdate.Section, opts MergeOptions) *yamlupdate.Section {
	if opts.Rules == nil {
		opts.Rules = DefaultMergeRules()
	}
	m := &merger{opts: opts}
	return m.merge(user, def, nil)
}

func (m *merger) merge(user, def *yamlupdate.Section, at route.Route) *yamlupdate.Section {
	res := yamlupdate.NewSection()
	def.Each(func(k any, db *yamlupdate.Block) bool {
		r := childRoute(at, k)
		ub, ok := user.Get(k)
		switch {
		case !ok:
			res.Set(k, db.Clone())
		case m.ignored(r):
			res.Set(k, ub.Clone())
		case db.IsSection() && ub.IsSection():
			merged := m.merge(ub.Section(), db.Section(), r)
			res.Set(k, ub.WithValue(yamlupdate.Mapping(merged)))
		case m.userWins(db.IsSection(), ub.IsSection()):
			res.Set(k, ub.Clone())
		default:
			res.Set(k, db.Clone())
		}
		return true
	})

	user.Each(func(k any, ub *yamlupdate.Block) bool {
		if _, ok := def.Get(k); ok {
			return true
		}
		if m.opts.KeepAll {
			res.Set(k, ub.Clone())
			return true
		}
		if b, ok := m.keepIgnored(ub, childRoute(at, k)); ok {
			res.Set(k, b)
		}
		return true
	})
	return res
}

func (m *merger) userWins(defIsSection, userIsSection bool) bool {
	rule, ok := RuleFor(defIsSection, userIsSection)
	if !ok {
		return false
	}
	return m.opts.Rules[rule]
}

func (m *merger) ignored(r route.Route) bool {
	for _, ig := range m.opts.Ignored {
		if route.Equal(ig, r) {
			return true
		}
	}
	return false
}

// keepIgnored returns the part of a user-only block that ignored routes
// protect: the whole block when r itself is ignored, otherwise the ignored
// descendants of a section.
func (m *merger) keepIgnored(b *yamlupdate.Block, r route.Route) (*yamlupdate.Block, bool) {
	if m.ignored(r) {
		return b.Clone(), true
	}
	if !b.IsSection() || !m.hasIgnoredBelow(r) {
		return nil, false
	}
	kept := yamlupdate.NewSection()
	b.Section().Each(func(k any, cb *yamlupdate.Block) bool {
		if c, ok := m.keepIgnored(cb, r.Add(k)); ok {
			kept.Set(k, c)
		}
		return true
	})
	if kept.Len() == 0 {
		return nil, false
	}
	return b.WithValue(yamlupdate.Mapping(kept)), true
}

func (m *merger) hasIgnoredBelow(r route.Route) bool {
	for _, ig := range m.opts.Ignored {
		if ig.Len() > r.Len() && hasPrefix(ig, r) {
			return true
		}
	}
	return false
}

func hasPrefix(r, prefix route.Route) bool {
	if prefix.Len() > r.Len() {
		return false
	}
	for i := range prefix.Len() {
		a, _ := r.Get(i)
		b, _ := prefix.Get(i)
		if route.NormalizeKey(a) != route.NormalizeKey(b) {
			return false
		}
	}
	return true
}

func childRoute(at route.Route, k any) route.Route {
	if at == nil {
		return route.Single{K: k}
	}
	return at.Add(k)
}
