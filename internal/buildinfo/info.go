// Package buildinfo carries version details stamped in at link time.
package buildinfo

// Set with -ldflags "-X github.com/movingout-dev/movingout/internal/buildinfo.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
