package version

import "fmt"

var (
	// Version is the semantic version of the build. Local builds report a
	// dev placeholder; releases override it via ldflags.
	Version = "0.0.0-dev"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version string with commit and build time.
func Full() string {
	return fmt.Sprintf("sd-packager %s, commit: %s, built at: %s", Version, Commit, BuildTime)
}
