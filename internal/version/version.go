// Package version carries build identification, overridable at link time.
package version

import "fmt"

var (
	// Version is the semantic version of the build.
	Version = "0.3.0"
	// Commit is the VCS revision, set via -ldflags.
	Commit = "unknown"
	// Date is the build timestamp, set via -ldflags.
	Date = "unknown"
)

// String formats the full build identification.
func String() string {
	return fmt.Sprintf("nes-2 %s (%s, built %s)", Version, Commit, Date)
}
