package updater

import (
	"github.com/kevinwang15/yamlupdate"
	"github.com/kevinwang15/yamlupdate/route"
	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type relocation struct {
	from, to route.Route
}

// Relocations is an ordered set of source to destination routes. Adding a
// source twice replaces its destination and keeps its position.
type Relocations struct {
	entries *orderedmap.OrderedMap[route.Key, relocation]
}

func NewRelocations() *Relocations {
	return &Relocations{entries: orderedmap.New[route.Key, relocation]()}
}

// Add registers from -> to and returns r for chaining.
func (r *Relocations) Add(from, to route.Route) *Relocations {
	if r.entries == nil {
		r.entries = orderedmap.New[route.Key, relocation]()
	}
	r.entries.Set(from.Key(), relocation{from: from, to: to})
	return r
}

func (r *Relocations) Len() int {
	if r == nil || r.entries == nil {
		return 0
	}
	return r.entries.Len()
}

// Each calls fn in declaration order until it returns false.
func (r *Relocations) Each(fn func(from, to route.Route) bool) {
	if r.Len() == 0 {
		return
	}
	for p := r.entries.Oldest(); p != nil; p = p.Next() {
		if !fn(p.Value.from, p.Value.to) {
			return
		}
	}
}

type moved struct {
	to    route.Route
	block *yamlupdate.Block
}

// Relocate moves blocks, comments included, from their source routes to their
// destinations and returns the result as a new tree.
//
// Every source is read from sec before anything is written, so chains and
// swaps (a -> b, b -> a) see the original values. All resolved sources are then
// removed and the destinations are written in declaration order. Parent
// sections left empty by the removal are pruned last, unless they lead to a
// destination. Sources that do not resolve are skipped.
func Relocate(sec *yamlupdate.Section, rel *Relocations, log logrus.FieldLogger) *yamlupdate.Section {
	if log == nil {
		log = logrus.StandardLogger()
	}
	res := sec.Clone()

	var (
		pending []moved
		sources []route.Route
	)
	rel.Each(func(from, to route.Route) bool {
		b, ok := sec.Resolve(from)
		if !ok {
			log.WithField("route", from.String()).Debug("relocation source not found, skipping")
			return true
		}
		pending = append(pending, moved{to: to, block: b.Clone()})
		sources = append(sources, from)
		return true
	})

	for _, from := range sources {
		res.RemoveAt(from)
	}
	written := make(map[route.Key]bool)
	for _, m := range pending {
		res.SetAt(m.to, m.block)
		for r, err := m.to, error(nil); err == nil; r, err = r.Parent() {
			written[r.Key()] = true
		}
		log.WithField("route", m.to.String()).Debug("relocated")
	}
	for _, from := range sources {
		pruneEmptyParents(res, from, written)
	}
	return res
}

func pruneEmptyParents(sec *yamlupdate.Section, r route.Route, keep map[route.Key]bool) {
	for p, err := r.Parent(); err == nil; p, err = p.Parent() {
		if keep[p.Key()] {
			return
		}
		s, ok := sec.SectionAt(p)
		if !ok || s.Len() > 0 {
			return
		}
		sec.RemoveAt(p)
	}
}
