// Package packager assembles a distributable Stream Deck plugin archive.
//
// A run resolves the plugin source directory, stages a filtered copy under
// the plugin's folder name, compresses the staged tree into a ZIP and moves
// the result into the invocation directory under the vendor extension.
// The staging directory is removed on every exit path, and failures carry
// step-specific exit codes for the CLI.
package packager
