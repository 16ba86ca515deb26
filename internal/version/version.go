// Package version holds build-time version information.
package version

// Set via -ldflags at build time.
var (
	// Version is the release version.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
)
