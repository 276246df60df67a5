// Package version exposes build metadata for sd-packager.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags; local builds fall back to a dev placeholder. Helper functions
// Short and Full render the version string for CLI output and logs.
package version
