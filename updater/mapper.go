package updater

import (
	"github.com/kevinwang15/yamlupdate"
	"github.com/kevinwang15/yamlupdate/route"
	"github.com/sirupsen/logrus"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ValueMapper computes the replacement value for the block at r. root is the
// whole tree being mapped.
type ValueMapper interface {
	Map(root *yamlupdate.Section, r route.Route, b *yamlupdate.Block) (yamlupdate.Value, error)
}

// MapValue transforms the stored value only.
type MapValue func(v yamlupdate.Value) (yamlupdate.Value, error)

func (f MapValue) Map(_ *yamlupdate.Section, _ route.Route, b *yamlupdate.Block) (yamlupdate.Value, error) {
	return f(b.Value)
}

// MapInContext receives the tree and the route, for lookups that depend on
// surrounding values.
type MapInContext func(root *yamlupdate.Section, r route.Route) (yamlupdate.Value, error)

func (f MapInContext) Map(root *yamlupdate.Section, r route.Route, _ *yamlupdate.Block) (yamlupdate.Value, error) {
	return f(root, r)
}

// MapBlock receives the block, comments included.
type MapBlock func(b *yamlupdate.Block) (yamlupdate.Value, error)

func (f MapBlock) Map(_ *yamlupdate.Section, _ route.Route, b *yamlupdate.Block) (yamlupdate.Value, error) {
	return f(b)
}

type mapping struct {
	r route.Route
	m ValueMapper
}

// Mappers is an ordered set of route to mapper entries.
type Mappers struct {
	entries *orderedmap.OrderedMap[route.Key, mapping]
}

func NewMappers() *Mappers {
	return &Mappers{entries: orderedmap.New[route.Key, mapping]()}
}

// Add registers m for r, replacing any mapper already registered there.
func (ms *Mappers) Add(r route.Route, m ValueMapper) *Mappers {
	if ms.entries == nil {
		ms.entries = orderedmap.New[route.Key, mapping]()
	}
	ms.entries.Set(r.Key(), mapping{r: r, m: m})
	return ms
}

func (ms *Mappers) Len() int {
	if ms == nil || ms.entries == nil {
		return 0
	}
	return ms.entries.Len()
}

func (ms *Mappers) Each(fn func(r route.Route, m ValueMapper) bool) {
	if ms.Len() == 0 {
		return
	}
	for p := ms.entries.Oldest(); p != nil; p = p.Next() {
		if !fn(p.Value.r, p.Value.m) {
			return
		}
	}
}

// Map replaces the value at each registered route with its mapper's output
// and returns the result as a new tree. Key and value comments stay. Routes
// that do not resolve are skipped; a failing mapper leaves the value as is.
func Map(sec *yamlupdate.Section, mappers *Mappers, log logrus.FieldLogger) *yamlupdate.Section {
	if log == nil {
		log = logrus.StandardLogger()
	}
	res := sec.Clone()
	mappers.Each(func(r route.Route, m ValueMapper) bool {
		b, ok := res.Resolve(r)
		if !ok {
			log.WithField("route", r.String()).Debug("mapper route not found, skipping")
			return true
		}
		v, err := m.Map(res, r, b)
		if err != nil {
			log.WithError(err).WithField("route", r.String()).Warn("mapper failed, keeping value")
			return true
		}
		b.Value = v
		return true
	})
	return res
}
