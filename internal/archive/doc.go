// Package archive writes a directory tree into a deflate ZIP archive with all
// entries rooted under a single top-level folder.
//
// The output is a standard ZIP regardless of the extension it ships under, so
// any archive reader can open it after renaming.
package archive
