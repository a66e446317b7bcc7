// Package version holds build metadata injected with -ldflags.
package version

import "fmt"

// Build metadata. Overridden at link time:
//
//	-ldflags "-X github.com/Sumatoshi-tech/tswift/pkg/version.Version=v0.1.0"
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String formats the metadata for `tswift version`.
func String() string {
	return fmt.Sprintf("tswift %s (commit: %s, built: %s)", Version, Commit, Date)
}
