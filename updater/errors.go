package updater

import (
	"errors"
	"fmt"

	"github.com/kevinwang15/yamlupdate/route"
)

var (
	// ErrMalformedVersion is matched by every MalformedVersionError.
	ErrMalformedVersion = errors.New("yamlupdate: malformed version")
	// ErrMissingDefaultVersion is returned when versioning is configured but
	// the default document carries no version.
	ErrMissingDefaultVersion = errors.New("yamlupdate: default document has no version")
	// ErrDowngrade is returned when the user document is newer than the
	// default and downgrading is disabled.
	ErrDowngrade = errors.New("yamlupdate: downgrading is disabled")
)

// MalformedVersionError reports a version identifier that is present but does
// not match the versioning pattern.
type MalformedVersionError struct {
	// Route the identifier was read from; nil for manually declared versions.
	Route   route.Route
	ID      string
	Default bool
}

func (e *MalformedVersionError) Error() string {
	doc := "user"
	if e.Default {
		doc = "default"
	}
	if e.Route == nil {
		return fmt.Sprintf("yamlupdate: malformed %s version %q", doc, e.ID)
	}
	return fmt.Sprintf("yamlupdate: malformed %s version %q at %s", doc, e.ID, e.Route)
}

func (e *MalformedVersionError) Is(target error) bool {
	return target == ErrMalformedVersion
}
