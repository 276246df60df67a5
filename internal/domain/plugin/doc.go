// Package plugin contains the domain model of a Stream Deck plugin manifest.
//
// The Manifest type mirrors the fields of manifest.json the packager needs to
// derive archive names and to reject source trees that are not plugins.
package plugin
