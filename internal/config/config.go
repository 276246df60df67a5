package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sdpulse/sd-packager/internal/exclude"
)

// Config holds packaging settings for the sd-packager binary.
// All fields are optional: unset values fall back to manifest-derived names
// and the built-in exclusion list.
type Config struct {
	// SourceDir is the plugin source directory, relative to the invocation
	// directory unless absolute. Empty means "resolve automatically".
	SourceDir string `yaml:"source_dir"`
	// PluginFolder overrides the top-level folder name used inside the
	// archive. Empty means "<manifest UUID>.sdPlugin".
	PluginFolder string `yaml:"plugin_folder"`
	// OutputName overrides the produced archive filename.
	// Empty means "<manifest UUID>.streamDeckPlugin".
	OutputName string `yaml:"output_name"`
	// Exclude lists extra glob patterns never copied into the staged output.
	// They extend the built-in defaults rather than replacing them.
	Exclude []string `yaml:"exclude"`
}

const (
	// DefaultConfigFilename is the default filename for packaging settings.
	DefaultConfigFilename = "sd-packager.yaml"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNameHasSeparator is returned when a folder or output name contains a path separator.
	errNameHasSeparator = errors.New("name must not contain path separators")
)

// Load reads configuration from the provided path and validates its fields.
// A missing file is not an error: defaults apply and an empty Config is returned.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return new(Config), nil
		}

		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for well-formed names and patterns.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if err := CheckBareName(cfg.PluginFolder); err != nil {
		return fmt.Errorf("plugin folder: %w", err)
	}

	if err := CheckBareName(cfg.OutputName); err != nil {
		return fmt.Errorf("output name: %w", err)
	}

	for _, pattern := range cfg.Exclude {
		if err := exclude.ValidatePattern(pattern); err != nil {
			return err
		}
	}

	return nil
}

// CheckBareName rejects names that would escape the staging or output
// directory. It applies to every folder or output name override, whether it
// arrives from the YAML settings or from a command-line flag.
func CheckBareName(name string) error {
	if name == "" {
		return nil
	}

	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%q: %w", name, errNameHasSeparator)
	}

	return nil
}
