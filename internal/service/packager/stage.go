package packager

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sdpulse/sd-packager/internal/domain/plugin"
)

// resolveSourceDir picks the plugin source directory for this run.
// Precedence: explicit argument, then the configured source directory
// (relative to the invocation directory unless absolute), then the invocation
// directory itself when it carries a manifest. The last rule keeps the tool
// runnable from inside the plugin tree without name-based guessing.
func resolveSourceDir(cwd, argSource, cfgSource string) (string, error) {
	for _, candidate := range []string{argSource, cfgSource} {
		if candidate == "" {
			continue
		}

		if !filepath.IsAbs(candidate) {
			candidate = filepath.Join(cwd, candidate)
		}

		return checkSourceDir(candidate)
	}

	if _, err := os.Stat(filepath.Join(cwd, plugin.ManifestFilename)); err == nil {
		return checkSourceDir(cwd)
	}

	return "", errSourceNotFound
}

// checkSourceDir verifies the candidate exists and is a directory.
func checkSourceDir(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", errSourceNotFound, path)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", errSourceNotDirectory, path)
	}

	return filepath.Clean(path), nil
}

// stageTree copies the source tree into dstRoot, skipping excluded paths and
// preserving file modes. Returns the number of files copied.
func (p *packager) stageTree(ctx context.Context, dstRoot string) (int, error) {
	var copied int

	err := filepath.WalkDir(p.sourceDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if err = ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(p.sourceDir, path)
		if err != nil {
			return err
		}

		if rel == "." {
			return os.MkdirAll(dstRoot, 0o755)
		}

		if p.excl.Match(rel) {
			if d.IsDir() {
				return fs.SkipDir
			}

			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		dst := filepath.Join(dstRoot, rel)

		if d.IsDir() {
			return os.MkdirAll(dst, info.Mode().Perm())
		}

		// Symlinks and other special files are not staged.
		if !info.Mode().IsRegular() {
			return nil
		}

		if err = copyFile(path, dst, info.Mode().Perm()); err != nil {
			return err
		}

		copied++

		return nil
	})
	if err != nil {
		return 0, err
	}

	return copied, nil
}

// copyFile duplicates src at dst with the given permissions.
func copyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}

	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(filepath.Clean(dst), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()

		return err
	}

	return out.Close()
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// rename crosses file systems (staging lives under the system temp root).
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	return copyAndRemove(src, dst)
}

// copyAndRemove duplicates src at dst preserving its mode, then deletes src.
func copyAndRemove(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err = copyFile(src, dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("move archive: %w", err)
	}

	return os.Remove(src)
}
