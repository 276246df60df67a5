// Package config defines packaging settings for the sd-packager binary and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the plugin source directory, overrides for the
// archive folder and output names, and extra exclusion patterns.
package config
