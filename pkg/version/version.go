// Package version carries build metadata stamped in with -ldflags.
package version

import (
	"fmt"
	"runtime"
)

// These variables are set via ldflags during build.
var (
	Version   = "dev"
	Commit    = "none"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

const shortCommitLen = 7

// Platform returns GOOS/GOARCH.
func Platform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

// Summary is the version plus the short commit when one was stamped,
// e.g. "1.4.0 (3f2a9c1)".
func Summary() string {
	v := Version
	if v == "" {
		v = "dev"
	}
	if Commit == "" || Commit == "none" {
		return v
	}
	short := Commit
	if len(short) > shortCommitLen {
		short = short[:shortCommitLen]
	}
	return fmt.Sprintf("%s (%s)", v, short)
}

// Details is the multi-line block printed by --version.
func Details() string {
	return fmt.Sprintf("airbutler version %s\n  commit: %s\n  built: %s\n  go: %s\n  platform: %s",
		Summary(), Commit, Date, GoVersion, Platform())
}
