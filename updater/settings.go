package updater

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/kevinwang15/yamlupdate"
	"github.com/kevinwang15/yamlupdate/pattern"
	"github.com/kevinwang15/yamlupdate/route"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Settings configures Update. Instruction sets are keyed by the version ID
// they upgrade to; ignored routes by the user document's version ID.
type Settings struct {
	KeepAll     bool
	MergeRules  map[MergeRule]bool
	Relocations map[string]*Relocations
	Mappers     map[string]*Mappers
	// IgnoredRoutes keep the user's blocks untouched by the merge.
	IgnoredRoutes map[string][]route.Route
	// Versioning is optional; without it documents are only merged.
	Versioning        Versioning
	EnableDowngrading bool
	// Separator splits route strings given to Route and in settings files.
	Separator rune
	KeyFormat yamlupdate.KeyFormat
	Logger    logrus.FieldLogger
}

// Option configures Settings.
type Option func(*Settings)

// NewSettings returns settings with the default merge rules and downgrading
// enabled, modified by opts.
func NewSettings(opts ...Option) *Settings {
	s := &Settings{
		MergeRules:        DefaultMergeRules(),
		Relocations:       map[string]*Relocations{},
		Mappers:           map[string]*Mappers{},
		IgnoredRoutes:     map[string][]route.Route{},
		EnableDowngrading: true,
		Separator:         route.DefaultSeparator,
		Logger:            logrus.StandardLogger(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func WithKeepAll(keep bool) Option {
	return func(s *Settings) { s.KeepAll = keep }
}

// WithMergeRule sets whether the user's block wins under rule.
func WithMergeRule(rule MergeRule, userWins bool) Option {
	return func(s *Settings) { s.MergeRules[rule] = userWins }
}

// WithRelocations registers relocations applied when upgrading to versionID.
// Repeated calls for the same version add to the set.
func WithRelocations(versionID string, rel *Relocations) Option {
	return func(s *Settings) {
		cur, ok := s.Relocations[versionID]
		if !ok {
			s.Relocations[versionID] = rel
			return
		}
		rel.Each(func(from, to route.Route) bool {
			cur.Add(from, to)
			return true
		})
	}
}

// WithMappers registers mappers applied when upgrading to versionID.
func WithMappers(versionID string, m *Mappers) Option {
	return func(s *Settings) {
		cur, ok := s.Mappers[versionID]
		if !ok {
			s.Mappers[versionID] = m
			return
		}
		m.Each(func(r route.Route, vm ValueMapper) bool {
			cur.Add(r, vm)
			return true
		})
	}
}

// WithIgnoredRoutes protects routes in user documents at versionID.
func WithIgnoredRoutes(versionID string, routes ...route.Route) Option {
	return func(s *Settings) {
		s.IgnoredRoutes[versionID] = append(s.IgnoredRoutes[versionID], routes...)
	}
}

func WithVersioning(v Versioning) Option {
	return func(s *Settings) { s.Versioning = v }
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Settings) { s.Logger = l }
}

// WithDowngrading controls whether a user document newer than the default
// is accepted.
func WithDowngrading(enabled bool) Option {
	return func(s *Settings) { s.EnableDowngrading = enabled }
}

func WithSeparator(sep rune) Option {
	return func(s *Settings) { s.Separator = sep }
}

func WithKeyFormat(f yamlupdate.KeyFormat) Option {
	return func(s *Settings) { s.KeyFormat = f }
}

// Route splits str on the configured separator.
func (s *Settings) Route(str string) route.Route {
	return route.NewFactory(s.Separator).Create(str)
}

func (s *Settings) logger() logrus.FieldLogger {
	if s.Logger == nil {
		return logrus.StandardLogger()
	}
	return s.Logger
}

func (s *Settings) mergeOptions(userID string) MergeOptions {
	var ignored []route.Route
	if userID != "" {
		ignored = s.IgnoredRoutes[userID]
	}
	return MergeOptions{KeepAll: s.KeepAll, Rules: s.MergeRules, Ignored: ignored}
}

type fileSettings struct {
	KeepAll     bool            `mapstructure:"keep-all"`
	Separator   string          `mapstructure:"separator"`
	Downgrading *bool           `mapstructure:"downgrading"`
	KeyFormat   string          `mapstructure:"key-format"`
	MergeRules  map[string]bool `mapstructure:"merge-rules"`
	Versioning  struct {
		Route   route.Route `mapstructure:"route"`
		Parts   int         `mapstructure:"parts"`
		User    string      `mapstructure:"user"`
		Default string      `mapstructure:"default"`
	} `mapstructure:"versioning"`
	Relocations []struct {
		Version string      `mapstructure:"version"`
		From    route.Route `mapstructure:"from"`
		To      route.Route `mapstructure:"to"`
	} `mapstructure:"relocations"`
	IgnoredRoutes []struct {
		Version string        `mapstructure:"version"`
		Routes  []route.Route `mapstructure:"routes"`
	} `mapstructure:"ignored-routes"`
	Patches []struct {
		Version string           `mapstructure:"version"`
		Route   route.Route      `mapstructure:"route"`
		Ops     []map[string]any `mapstructure:"ops"`
	} `mapstructure:"patches"`
}

var routeType = reflect.TypeOf((*route.Route)(nil)).Elem()

// routeDecodeHook turns strings into routes split on sep. Empty strings
// decode to no route.
func routeDecodeHook(sep rune) mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != routeType || f.Kind() != reflect.String {
			return data, nil
		}
		str, _ := data.(string)
		if str == "" {
			return nil, nil
		}
		return route.FromString(str, sep), nil
	}
}

// LoadSettings builds Settings from a settings file already read into v.
// Options are applied after the file, so they override it.
//
//	keep-all: false
//	separator: "."
//	downgrading: true
//	key-format: string        # or "object"
//	versioning:
//	  route: config-version   # read from the documents
//	  parts: 2                # numeric parts joined by '.', 0 for plain integers
//	  user: ""                # or manual IDs instead of route; parts
//	                          # then defaults to the parts of default
//	  default: ""
//	merge-rules:
//	  mapping-at-section: true
//	relocations:
//	  - {version: "1.2", from: old.key, to: new.key}
//	ignored-routes:
//	  - {version: "1.1", routes: [plugins.custom]}
//	patches:
//	  - version: "1.3"
//	    route: server
//	    ops: [{op: remove, path: /legacy}]
//
// Versions in the file should be quoted so that "1.10" stays a string.
func LoadSettings(v *viper.Viper, opts ...Option) (*Settings, error) {
	sep := route.DefaultSeparator
	if str := v.GetString("separator"); str != "" {
		r, size := utf8.DecodeRuneInString(str)
		if size != len(str) {
			return nil, fmt.Errorf("yamlupdate: separator %q is not a single character", str)
		}
		sep = r
	}

	var fs fileSettings
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		routeDecodeHook(sep),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&fs, hook); err != nil {
		return nil, fmt.Errorf("yamlupdate: failed to unmarshal settings: %w", err)
	}

	s := NewSettings(WithSeparator(sep), WithKeepAll(fs.KeepAll))
	if fs.Downgrading != nil {
		s.EnableDowngrading = *fs.Downgrading
	}

	switch fs.KeyFormat {
	case "", "string":
	case "object":
		s.KeyFormat = yamlupdate.ObjectKeys
	default:
		return nil, fmt.Errorf("yamlupdate: unknown key format %q", fs.KeyFormat)
	}

	for name, userWins := range fs.MergeRules {
		rule, err := ParseMergeRule(name)
		if err != nil {
			return nil, err
		}
		s.MergeRules[rule] = userWins
	}

	vs, err := fs.versioning()
	if err != nil {
		return nil, err
	}
	s.Versioning = vs

	for _, r := range fs.Relocations {
		if r.From == nil || r.To == nil {
			return nil, fmt.Errorf("yamlupdate: relocation for version %q needs from and to", r.Version)
		}
		WithRelocations(r.Version, NewRelocations().Add(r.From, r.To))(s)
	}
	for _, ig := range fs.IgnoredRoutes {
		routes := slices.DeleteFunc(ig.Routes, func(r route.Route) bool { return r == nil })
		WithIgnoredRoutes(ig.Version, routes...)(s)
	}
	for _, p := range fs.Patches {
		if p.Route == nil {
			return nil, fmt.Errorf("yamlupdate: patch for version %q needs a route", p.Version)
		}
		patch, err := DecodePatch(p.Ops)
		if err != nil {
			return nil, err
		}
		WithMappers(p.Version, NewMappers().Add(p.Route, PatchMapper(patch)))(s)
	}

	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (fs *fileSettings) versioning() (Versioning, error) {
	vs := fs.Versioning
	if vs.Parts < 0 {
		return nil, fmt.Errorf("yamlupdate: versioning parts must not be negative, got %d", vs.Parts)
	}
	switch {
	case vs.User != "" || vs.Default != "":
		if vs.Route != nil {
			return nil, fmt.Errorf("yamlupdate: versioning takes either a route or manual versions")
		}
		parts := vs.Parts
		if parts == 0 {
			parts = strings.Count(vs.Default, ".") + 1
		}
		return ManualVersioning(pattern.Dotted(parts), vs.User, vs.Default), nil
	case vs.Route == nil:
		return nil, nil
	case vs.Parts == 0:
		return BasicVersioning(vs.Route), nil
	default:
		return AutomaticVersioning(pattern.Dotted(vs.Parts), vs.Route), nil
	}
}
