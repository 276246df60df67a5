package packager

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sdpulse/sd-packager/internal/domain/plugin"
	"github.com/sdpulse/sd-packager/internal/exclude"
)

// writePluginTree lays out a plugin source with artifacts that must be excluded.
func writePluginTree(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "__pycache__"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fonts"), 0o755))

	regular := []string{
		"manifest.json",
		"icon.png",
		filepath.Join("fonts", "f.ttf"),
		filepath.Join(".git", "config"),
		filepath.Join("__pycache__", "mod.pyc"),
	}
	for _, name := range regular {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644))
	}

	// Entry point carries an executable bit.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plugin.py"), []byte("plugin.py"), 0o755))

	return dir
}

// TestResolveSourceDir checks argument, config and manifest-fallback precedence.
func TestResolveSourceDir(t *testing.T) {
	t.Parallel()

	cwd := t.TempDir()
	src := filepath.Join(cwd, "plugin")
	require.NoError(t, os.MkdirAll(src, 0o755))

	// Explicit argument wins.
	got, err := resolveSourceDir(cwd, src, "")
	require.NoError(t, err)
	require.Equal(t, src, got)

	// Relative argument resolves against the invocation directory.
	got, err = resolveSourceDir(cwd, "plugin", "")
	require.NoError(t, err)
	require.Equal(t, src, got)

	// Configured source directory is next.
	got, err = resolveSourceDir(cwd, "", "plugin")
	require.NoError(t, err)
	require.Equal(t, src, got)

	// Nothing configured and no manifest in the invocation directory.
	_, err = resolveSourceDir(cwd, "", "")
	require.ErrorIs(t, err, errSourceNotFound)

	// With a manifest, the invocation directory itself is the source.
	require.NoError(t, os.WriteFile(
		filepath.Join(cwd, plugin.ManifestFilename), []byte("{}"), 0o644))

	got, err = resolveSourceDir(cwd, "", "")
	require.NoError(t, err)
	require.Equal(t, filepath.Clean(cwd), got)

	// A file where a directory is expected is rejected.
	_, err = resolveSourceDir(cwd, filepath.Join(cwd, plugin.ManifestFilename), "")
	require.ErrorIs(t, err, errSourceNotDirectory)

	// A missing explicit path is rejected, not silently replaced by fallbacks.
	_, err = resolveSourceDir(cwd, filepath.Join(cwd, "absent"), "")
	require.ErrorIs(t, err, errSourceNotFound)
}

// TestStageTree verifies the filtered copy: structure, exclusions and modes.
func TestStageTree(t *testing.T) {
	t.Parallel()

	src := writePluginTree(t)
	excl, err := exclude.NewSet()
	require.NoError(t, err)

	p := &packager{
		sourceDir:  src,
		excl:       excl,
		folderName: "com.sdpulse.audio.sdPlugin",
	}

	dstRoot := filepath.Join(t.TempDir(), p.folderName)

	copied, err := p.stageTree(context.Background(), dstRoot)
	require.NoError(t, err)
	require.Equal(t, 4, copied)

	// Wanted files are present at their relative paths.
	for _, name := range []string{"manifest.json", "plugin.py", "icon.png", filepath.Join("fonts", "f.ttf")} {
		_, err = os.Stat(filepath.Join(dstRoot, name))
		require.NoError(t, err, name)
	}

	// Excluded trees never reach staging.
	for _, name := range []string{".git", "__pycache__"} {
		_, err = os.Stat(filepath.Join(dstRoot, name))
		require.ErrorIs(t, err, os.ErrNotExist, name)
	}

	// Executable bit survives the copy.
	if runtime.GOOS != "windows" {
		info, statErr := os.Stat(filepath.Join(dstRoot, "plugin.py"))
		require.NoError(t, statErr)
		require.NotZero(t, info.Mode().Perm()&0o100)
	}
}

// TestStageTreeCanceled ensures cancellation aborts the copy.
func TestStageTreeCanceled(t *testing.T) {
	t.Parallel()

	src := writePluginTree(t)
	excl, err := exclude.NewSet()
	require.NoError(t, err)

	p := &packager{
		sourceDir: src,
		excl:      excl,
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = p.stageTree(ctx, filepath.Join(t.TempDir(), "out"))
	require.Error(t, err)
}

// TestMoveFile covers the rename path and replacement of an existing destination.
func TestMoveFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "a.bin")
	dst := filepath.Join(dir, "b.bin")

	require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("old"), 0o644))

	require.NoError(t, moveFile(src, dst))

	contents, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "new", string(contents))

	_, err = os.Stat(src)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestCopyAndRemove covers the rename fallback used for cross-device moves:
// the destination gets the contents and mode, the source is deleted.
func TestCopyAndRemove(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "a.bin")
	dst := filepath.Join(dir, "b.bin")

	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o755))
	require.NoError(t, copyAndRemove(src, dst))

	contents, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "payload", string(contents))

	_, err = os.Stat(src)
	require.ErrorIs(t, err, os.ErrNotExist)

	if runtime.GOOS != "windows" {
		info, statErr := os.Stat(dst)
		require.NoError(t, statErr)
		require.NotZero(t, info.Mode().Perm()&0o100)
	}
}

// TestMoveFileFallbackFailure forces the rename to fail and checks that the
// fallback error is wrapped and the source survives the failed move.
func TestMoveFileFallbackFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "a.bin")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	// Destination parent does not exist: rename fails, then the copy fails too.
	err := moveFile(src, filepath.Join(dir, "missing", "b.bin"))
	require.Error(t, err)
	require.ErrorContains(t, err, "move archive")

	// The source is still intact after the failed move.
	contents, err := os.ReadFile(src)
	require.NoError(t, err)
	require.Equal(t, "payload", string(contents))
}
