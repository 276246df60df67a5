package archive

import (
	// The reader intentionally comes from the standard library: the produced
	// file must stay openable by any standard ZIP implementation.
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeTree lays out a small plugin-like tree for archiving tests.
func writeTree(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fonts"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plugin.py"), []byte("print('hi')\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fonts", "font.ttf"), []byte("ttf"), 0o644))

	return dir
}

// TestWriteDir archives a tree and reads it back with the standard library reader.
func TestWriteDir(t *testing.T) {
	t.Parallel()

	src := writeTree(t)
	dst := filepath.Join(t.TempDir(), "out.zip")

	count, err := WriteDir(context.Background(), src, "com.sdpulse.audio.sdPlugin", dst)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	reader, err := zip.OpenReader(dst)
	require.NoError(t, err)

	defer func() {
		_ = reader.Close()
	}()

	entries := make(map[string]*zip.File, len(reader.File))
	for _, f := range reader.File {
		entries[f.Name] = f
	}

	// Files are rooted under the plugin folder.
	require.Contains(t, entries, "com.sdpulse.audio.sdPlugin/plugin.py")
	require.Contains(t, entries, "com.sdpulse.audio.sdPlugin/fonts/font.ttf")

	// Directory entries survive, including empty ones.
	require.Contains(t, entries, "com.sdpulse.audio.sdPlugin/")
	require.Contains(t, entries, "com.sdpulse.audio.sdPlugin/empty/")

	// Contents round-trip.
	rc, err := entries["com.sdpulse.audio.sdPlugin/plugin.py"].Open()
	require.NoError(t, err)

	contents, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	require.Equal(t, "print('hi')\n", string(contents))

	// Executable bit is preserved where the platform records one.
	if runtime.GOOS != "windows" {
		mode := entries["com.sdpulse.audio.sdPlugin/plugin.py"].Mode()
		require.NotZero(t, mode&0o100)
	}
}

// TestWriteDirCanceled ensures a canceled context aborts the walk with an error.
func TestWriteDirCanceled(t *testing.T) {
	t.Parallel()

	src := writeTree(t)
	dst := filepath.Join(t.TempDir(), "out.zip")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WriteDir(ctx, src, "root", dst)
	require.Error(t, err)
}

// TestWriteDirMissingSource ensures a vanished source directory fails cleanly.
func TestWriteDirMissingSource(t *testing.T) {
	t.Parallel()

	dst := filepath.Join(t.TempDir(), "out.zip")

	_, err := WriteDir(context.Background(), filepath.Join(t.TempDir(), "absent"), "root", dst)
	require.Error(t, err)
}
