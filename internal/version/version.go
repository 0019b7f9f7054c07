// Package version provides build-time version information.
package version

import "fmt"

// Set at build time via -ldflags "-X".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String formats the full version line printed by `folio --version`.
func String() string {
	return fmt.Sprintf("folio version %s (commit: %s, built: %s)", Version, Commit, Date)
}
