// Package version exposes build metadata stamped in via -ldflags.
package version

import "fmt"

// Overridden at build time, e.g.
// -ldflags "-X .../internal/version.Version=v1.2.0".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build info as a single human-readable line.
func String() string {
	return fmt.Sprintf("%s (%s, built %s)", Version, Commit, Date)
}
