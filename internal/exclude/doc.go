// Package exclude holds the glob patterns that keep development artifacts
// out of the distributable archive.
//
// The built-in defaults cover version control metadata, Python bytecode and
// caches, editor files, packaging scripts and prior archive outputs.
// Configuration may extend the set but never shrink it.
package exclude
