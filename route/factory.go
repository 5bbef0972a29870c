package route

import "strings"

// DefaultSeparator splits route strings when no other separator is configured.
const DefaultSeparator = '.'

// Factory turns flat strings into routes using a configurable separator.
type Factory struct {
	Separator rune
}

// NewFactory returns a factory splitting on sep.
func NewFactory(sep rune) Factory {
	return Factory{Separator: sep}
}

// Create splits s on the factory separator.
func (f Factory) Create(s string) Route {
	sep := f.Separator
	if sep == 0 {
		sep = DefaultSeparator
	}
	return FromString(s, sep)
}

// FromString splits s on sep. Every token is a string key; an empty string
// yields a route with the single key "".
func FromString(s string, sep rune) Route {
	parts := strings.Split(s, string(sep))
	if len(parts) == 1 {
		return Single{K: parts[0]}
	}
	keys := make([]any, len(parts))
	for i, p := range parts {
		keys[i] = p
	}
	return Multi{keys: keys}
}

// FromStrings converts each string with FromString.
func FromStrings(sep rune, ss ...string) []Route {
	res := make([]Route, len(ss))
	for i, s := range ss {
		res[i] = FromString(s, sep)
	}
	return res
}
