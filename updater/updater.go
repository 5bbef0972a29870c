// Package updater reconciles a user's configuration with a newer default one.
//
// Update resolves the version of both documents, replays the relocations and
// mappers registered for every version between them, merges the user's values
// into the default's structure and stamps the result with the default's
// version:
//
//	s := updater.NewSettings(
//		updater.WithVersioning(updater.BasicVersioning(route.MustFrom("config-version"))),
//		updater.WithRelocations("2", updater.NewRelocations().
//			Add(route.MustFrom("port"), route.MustFrom("server", "port"))),
//	)
//	out, res, err := updater.UpdateDocument(userYAML, defaultYAML, s)
package updater

import (
	"fmt"
	"slices"

	"github.com/kevinwang15/yamlupdate"
	"github.com/kevinwang15/yamlupdate/pattern"
	"github.com/kevinwang15/yamlupdate/route"
	"github.com/sirupsen/logrus"
)

// State is the progress of an update.
type State int

const (
	// Unversioned: the user document carries no version.
	Unversioned State = iota
	// Versioned: the user's version is known and instructions are replayed.
	Versioned
	// Done: the merge finished.
	Done
	// Malformed: a version could not be resolved; the update stopped.
	Malformed
)

func (s State) String() string {
	switch s {
	case Unversioned:
		return "unversioned"
	case Versioned:
		return "versioned"
	case Done:
		return "done"
	case Malformed:
		return "malformed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Result describes a finished or failed update.
type Result struct {
	Section *yamlupdate.Section
	State   State
	// Unversioned reports that the user document carried no version and the
	// pattern's first version was assumed.
	Unversioned    bool
	UserVersion    *pattern.Version
	DefaultVersion *pattern.Version
	// Applied lists the version IDs whose instructions were replayed, in order.
	Applied []string
}

// Resolve returns the block at r, if any.
func Resolve(sec *yamlupdate.Section, r route.Route) (*yamlupdate.Block, bool) {
	return sec.Resolve(r)
}

// Update merges user into def. Neither input is modified. A nil s uses
// NewSettings().
//
// Versions are only consulted when s.Versioning is set. A missing or
// malformed default version, a malformed user version or a refused downgrade
// stops the update with State Malformed.
func Update(user, def *yamlupdate.Section, s *Settings) (*Result, error) {
	if s == nil {
		s = NewSettings()
	}
	log := s.logger()
	res := &Result{State: Unversioned}

	if s.Versioning == nil {
		res.Section = Merge(user, def, s.mergeOptions(""))
		res.State = Done
		return res, nil
	}

	defV, err := s.Versioning.DocumentVersion(def, true)
	if err != nil {
		return res.fail(err)
	}
	if defV == nil {
		return res.fail(ErrMissingDefaultVersion)
	}
	res.DefaultVersion = defV

	userV, err := s.Versioning.DocumentVersion(user, false)
	if err != nil {
		return res.fail(err)
	}
	if userV == nil {
		userV = s.Versioning.FirstVersion()
		res.Unversioned = true
	} else {
		res.State = Versioned
	}
	res.UserVersion = userV

	c, err := userV.Compare(defV)
	if err != nil {
		return res.fail(fmt.Errorf("yamlupdate: cannot compare %s with %s: %w", userV, defV, err))
	}
	if c > 0 && !s.EnableDowngrading {
		return res.fail(fmt.Errorf("%w: user version %s is newer than %s", ErrDowngrade, userV, defV))
	}

	cur := user
	if c < 0 {
		log.WithFields(logrus.Fields{"from": userV.ID(), "to": defV.ID()}).Info("updating document")
		res.State = Versioned
		for _, st := range s.pending(userV, defV) {
			if rel := s.Relocations[st.key]; rel.Len() > 0 {
				cur = Relocate(cur, rel, log)
			}
			if ms := s.Mappers[st.key]; ms.Len() > 0 {
				cur = Map(cur, ms, log)
			}
			res.Applied = append(res.Applied, st.version.ID())
			log.WithField("version", st.version.ID()).Debug("applied version instructions")
		}
	}

	res.Section = Merge(cur, def, s.mergeOptions(userV.ID()))
	s.Versioning.Stamp(res.Section, def)
	res.State = Done
	return res, nil
}

func (r *Result) fail(err error) (*Result, error) {
	r.State = Malformed
	return r, err
}

type step struct {
	key     string
	version *pattern.Version
}

// pending returns the registered instruction versions v with
// from < v <= to, ascending. Keys that do not parse are logged and skipped.
func (s *Settings) pending(from, to *pattern.Version) []step {
	log := s.logger()
	seen := map[string]bool{}
	var steps []step
	add := func(key string) {
		if seen[key] {
			return
		}
		seen[key] = true
		v, ok := from.Pattern().Version(key)
		if !ok {
			log.WithField("version", key).Warn("instructions registered for an unparsable version, skipping")
			return
		}
		lo, _ := from.Compare(v)
		hi, _ := v.Compare(to)
		if lo < 0 && hi <= 0 {
			steps = append(steps, step{key: key, version: v})
		}
	}
	for k := range s.Relocations {
		add(k)
	}
	for k := range s.Mappers {
		add(k)
	}
	slices.SortFunc(steps, func(a, b step) int {
		c, _ := a.version.Compare(b.version)
		return c
	})
	return steps
}

// UpdateDocument parses both documents, updates the user's one and renders
// the result with the user's indentation. Header comments are the user's,
// or the default's when the user file has none.
func UpdateDocument(userData, defData []byte, s *Settings) ([]byte, *Result, error) {
	if s == nil {
		s = NewSettings()
	}
	userDoc, err := yamlupdate.Parse(userData, yamlupdate.WithKeyFormat(s.KeyFormat))
	if err != nil {
		return nil, nil, fmt.Errorf("user document: %w", err)
	}
	defDoc, err := yamlupdate.Parse(defData, yamlupdate.WithKeyFormat(s.KeyFormat))
	if err != nil {
		return nil, nil, fmt.Errorf("default document: %w", err)
	}

	res, err := Update(userDoc.Root, defDoc.Root, s)
	if err != nil {
		return nil, res, err
	}

	out := yamlupdate.NewDocument(res.Section)
	out.Comments, out.RootComments, out.Indent = userDoc.Comments, userDoc.RootComments, userDoc.Indent
	if userDoc.Root.Len() == 0 {
		out.Indent = defDoc.Indent
	}
	if out.Comments.IsZero() && out.RootComments.IsZero() {
		out.Comments, out.RootComments = defDoc.Comments, defDoc.RootComments
	}
	data, err := yamlupdate.Marshal(out)
	if err != nil {
		return nil, res, err
	}
	return data, res, nil
}
