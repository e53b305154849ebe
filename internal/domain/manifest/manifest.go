package manifest

import (
	"errors"
	"fmt"
	"maps"
)

// Component keys recognized in the version manifest.
const (
	Wrapper       = "wrapper"
	Console       = "console"
	CoreQQAndroid = "core-qqandroid"
	MiraiAPIHTTP  = "mirai-api-http"
)

var (
	// ErrManifestUnreadable is returned when the manifest file cannot be read.
	ErrManifestUnreadable = errors.New("version manifest is unreadable")
	// ErrManifestMalformed is returned when the manifest is not a valid mapping
	// or lacks a required component.
	ErrManifestMalformed = errors.New("version manifest is malformed")
)

// RequiredComponents returns the keys every manifest must define.
func RequiredComponents() []string {
	return []string{Wrapper, Console, CoreQQAndroid, MiraiAPIHTTP}
}

// VersionManifest maps a component key to the version string used verbatim in URLs.
type VersionManifest map[string]string

// Validate ensures every required component has a non-empty version.
func (m VersionManifest) Validate() error {
	for _, component := range RequiredComponents() {
		if m[component] == "" {
			return fmt.Errorf("%w: missing version for %q", ErrManifestMalformed, component)
		}
	}

	return nil
}

// Version returns the version of the component.
func (m VersionManifest) Version(component string) string {
	return m[component]
}

// Clone returns a copy so callers cannot mutate a loaded manifest.
func (m VersionManifest) Clone() VersionManifest {
	return maps.Clone(m)
}
