package exclude

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSetMatchDefaults checks the built-in patterns against typical plugin trees.
func TestSetMatchDefaults(t *testing.T) {
	t.Parallel()

	s, err := NewSet()
	require.NoError(t, err)

	excluded := []string{
		".git",
		filepath.Join(".git", "config"),
		filepath.Join("__pycache__", "mod.pyc"),
		filepath.Join("actions", "__pycache__", "mod.pyc"),
		"plugin.pyc",
		".DS_Store",
		filepath.Join(".idea", "workspace.xml"),
		"package.py",
		"com.sdpulse.audio.streamDeckPlugin",
		"old-build.zip",
	}
	for _, path := range excluded {
		require.True(t, s.Match(path), path)
	}

	included := []string{
		"plugin.py",
		"manifest.json",
		"icon.png",
		filepath.Join("fonts", "DejaVuSans-Bold.ttf"),
		"gitstats.py",
	}
	for _, path := range included {
		require.False(t, s.Match(path), path)
	}
}

// TestSetMatchExtraPatterns ensures config-supplied patterns extend the defaults.
func TestSetMatchExtraPatterns(t *testing.T) {
	t.Parallel()

	s, err := NewSet("*.log", "docs/**")
	require.NoError(t, err)

	require.True(t, s.Match("debug.log"))
	require.True(t, s.Match(filepath.Join("docs", "readme.md")))
	require.True(t, s.Match(filepath.Join(".git", "HEAD")))
	require.False(t, s.Match("plugin.py"))
}

// TestNewSetRejectsBadPattern ensures malformed globs fail before any copy happens.
func TestNewSetRejectsBadPattern(t *testing.T) {
	t.Parallel()

	_, err := NewSet("[unclosed")
	require.Error(t, err)

	require.Error(t, ValidatePattern("[unclosed"))
	require.NoError(t, ValidatePattern("**/*.pyc"))
}
