package updater

import (
	"github.com/kevinwang15/yamlupdate"
	"github.com/kevinwang15/yamlupdate/pattern"
	"github.com/kevinwang15/yamlupdate/route"
)

// Versioning supplies the versions of the user and default documents.
type Versioning interface {
	// DocumentVersion returns the version of sec, or nil when sec carries
	// none. A present but unparsable identifier is a *MalformedVersionError.
	DocumentVersion(sec *yamlupdate.Section, isDefault bool) (*pattern.Version, error)
	// FirstVersion is assumed for unversioned user documents.
	FirstVersion() *pattern.Version
	// Stamp writes the default's version identifier into result.
	Stamp(result, def *yamlupdate.Section)
}

// Automatic reads version identifiers from a route inside each document.
type Automatic struct {
	Pattern *pattern.Pattern
	Route   route.Route
}

func AutomaticVersioning(p *pattern.Pattern, r route.Route) *Automatic {
	return &Automatic{Pattern: p, Route: r}
}

// BasicVersioning reads plain increasing integers (1, 2, 3, ...) from r.
func BasicVersioning(r route.Route) *Automatic {
	return AutomaticVersioning(pattern.New(pattern.Range(1, pattern.Unbounded, 1)), r)
}

func (a *Automatic) DocumentVersion(sec *yamlupdate.Section, isDefault bool) (*pattern.Version, error) {
	v, ok := sec.ValueAt(a.Route)
	if !ok || v.IsNull() {
		return nil, nil
	}
	if !v.IsScalar() {
		return nil, &MalformedVersionError{Route: a.Route, ID: v.String(), Default: isDefault}
	}
	id := v.Source()
	ver, ok := a.Pattern.Version(id)
	if !ok {
		return nil, &MalformedVersionError{Route: a.Route, ID: id, Default: isDefault}
	}
	return ver, nil
}

func (a *Automatic) FirstVersion() *pattern.Version { return a.Pattern.FirstVersion() }

// Stamp copies the default's version value into result, keeping the
// comments result already has at the route.
func (a *Automatic) Stamp(result, def *yamlupdate.Section) {
	src, ok := def.Resolve(a.Route)
	if !ok {
		return
	}
	if cur, ok := result.Resolve(a.Route); ok {
		result.SetAt(a.Route, cur.WithValue(src.Value.Clone()))
		return
	}
	result.SetAt(a.Route, src.Clone())
}

// Manual uses version identifiers declared by the caller. An empty user ID
// means the user document is unversioned.
type Manual struct {
	Pattern   *pattern.Pattern
	UserID    string
	DefaultID string
}

func ManualVersioning(p *pattern.Pattern, userID, defaultID string) *Manual {
	return &Manual{Pattern: p, UserID: userID, DefaultID: defaultID}
}

func (m *Manual) DocumentVersion(_ *yamlupdate.Section, isDefault bool) (*pattern.Version, error) {
	id := m.UserID
	if isDefault {
		id = m.DefaultID
	}
	if id == "" {
		return nil, nil
	}
	ver, ok := m.Pattern.Version(id)
	if !ok {
		return nil, &MalformedVersionError{ID: id, Default: isDefault}
	}
	return ver, nil
}

func (m *Manual) FirstVersion() *pattern.Version { return m.Pattern.FirstVersion() }

// Stamp is a no-op: manual versions live outside the documents.
func (m *Manual) Stamp(_, _ *yamlupdate.Section) {}
