// Package cmd holds build metadata injected with -ldflags, e.g.
//
//	-X github.com/thoreinstein/wsgen/cmd.Version=v0.3.0
package cmd

import "fmt"

// Build-time variables set via ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Summary renders the build metadata on three lines.
func Summary() string {
	return fmt.Sprintf("wsgen version %s\n  commit: %s\n  built:  %s\n", Version, Commit, Date)
}
