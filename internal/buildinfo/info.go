// Package buildinfo holds version stamps set with -ldflags at release time.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version will be set via ldflags during build.
	Version = "dev"
	// Commit will be set via ldflags during build.
	Commit = "none"
	// Date will be set via ldflags during build.
	Date = "unknown"
)

// String is the --version text. Unstamped builds installed with go install
// report the module version instead of "dev".
func String() string {
	v := Version
	if v == "dev" {
		if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			v = bi.Main.Version
		}
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", v, Commit, Date)
}
