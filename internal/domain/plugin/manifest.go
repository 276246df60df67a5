package plugin

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// ManifestFilename is the manifest file the Stream Deck runtime expects
	// at the root of every plugin folder.
	ManifestFilename = "manifest.json"

	// FolderSuffix is the extension of the plugin folder inside the archive.
	FolderSuffix = ".sdPlugin"

	// ArchiveSuffix is the vendor extension of the distributable archive.
	// The file itself is a plain ZIP; only the extension is vendor-specific.
	ArchiveSuffix = ".streamDeckPlugin"

	// minUUIDLabels is the minimum number of dot-separated labels in a
	// reverse-DNS plugin identifier (e.g. "com.sdpulse.audio").
	minUUIDLabels = 3
)

var (
	// errUUIDRequired is returned when the manifest has no plugin identifier.
	errUUIDRequired = errors.New("manifest UUID is required")
	// errUUIDMalformed is returned when the identifier is not reverse-DNS shaped.
	errUUIDMalformed = errors.New("manifest UUID must be a reverse-DNS identifier")
	// errFieldRequired is returned for other missing mandatory fields.
	errFieldRequired = errors.New("manifest field is required")
)

// Action describes a single key action the plugin contributes.
type Action struct {
	// Name is the human-readable action title shown in the actions list.
	Name string `json:"Name"`
	// UUID is the action identifier, conventionally prefixed with the plugin UUID.
	UUID string `json:"UUID"`
	// Icon is the path of the action icon, relative to the plugin folder.
	Icon string `json:"Icon,omitempty"`
}

// Manifest models the subset of manifest.json the packager cares about:
// identity, entry point and the action list.
type Manifest struct {
	// Name is the plugin display name.
	Name string `json:"Name"`
	// UUID is the reverse-DNS plugin identifier. It doubles as the base of
	// the archive folder and output filenames.
	UUID string `json:"UUID"`
	// Version is the plugin version string.
	Version string `json:"Version"`
	// Author is the plugin author shown in the store.
	Author string `json:"Author,omitempty"`
	// CodePath is the entry point executed by the runtime.
	CodePath string `json:"CodePath"`
	// Actions lists the key actions the plugin provides.
	Actions []Action `json:"Actions,omitempty"`
}

// Load reads and validates the manifest inside the given plugin source directory.
func Load(sourceDir string) (*Manifest, error) {
	path := filepath.Join(sourceDir, ManifestFilename)

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ManifestFilename, err)
	}

	var m Manifest
	if err := json.Unmarshal(contents, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ManifestFilename, err)
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks the mandatory fields and the shape of the plugin identifier.
func (m *Manifest) Validate() error {
	if m.UUID == "" {
		return errUUIDRequired
	}

	labels := strings.Split(m.UUID, ".")
	if len(labels) < minUUIDLabels {
		return fmt.Errorf("%w: %q", errUUIDMalformed, m.UUID)
	}

	for _, label := range labels {
		if label == "" {
			return fmt.Errorf("%w: %q", errUUIDMalformed, m.UUID)
		}
	}

	if m.Name == "" {
		return fmt.Errorf("%w: Name", errFieldRequired)
	}

	if m.Version == "" {
		return fmt.Errorf("%w: Version", errFieldRequired)
	}

	if m.CodePath == "" {
		return fmt.Errorf("%w: CodePath", errFieldRequired)
	}

	return nil
}

// FolderName returns the top-level folder name used inside the archive,
// following the runtime's plugin-identifier-as-directory convention.
func (m *Manifest) FolderName() string {
	return m.UUID + FolderSuffix
}

// ArchiveName returns the distributable archive filename.
func (m *Manifest) ArchiveName() string {
	return m.UUID + ArchiveSuffix
}
