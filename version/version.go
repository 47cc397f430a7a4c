// Package version carries build metadata stamped in via ldflags:
//
//	go build -ldflags "\
//	  -X github.com/eventhub/eventhub/version.Version=1.2.3 \
//	  -X github.com/eventhub/eventhub/version.Revision=abc123 \
//	  -X 'github.com/eventhub/eventhub/version.BuiltAt=2026-08-31T12:00:00Z'"
package version

import (
	"fmt"
	"runtime"
)

// Set at build time.
var (
	// Version is the semantic version, from git tags.
	Version = "0.0.0"

	// Revision is the short commit hash of the source tree.
	Revision = "unknown"

	// BuiltAt is the build timestamp.
	BuiltAt = "unknown"
)

// Info is the structured view of the build metadata.
type Info struct {
	Version   string `json:"version"`
	Revision  string `json:"revision"`
	BuiltAt   string `json:"built_at"`
	GoVersion string `json:"go_version"`
}

// Get returns the build metadata.
func Get() Info {
	return Info{
		Version:   Version,
		Revision:  Revision,
		BuiltAt:   BuiltAt,
		GoVersion: runtime.Version(),
	}
}

// String returns a single-line rendering suitable for logs.
func (i Info) String() string {
	return fmt.Sprintf("%s (%s, built %s, %s)", i.Version, i.Revision, i.BuiltAt, i.GoVersion)
}
