package archive

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

// WriteDir compresses the directory tree rooted at srcDir into a ZIP archive
// at dstPath. Every entry is placed under the top-level folder rootName, so
// unpacking yields a single directory rather than loose files. File modes are
// preserved through the entry headers. Returns the number of file entries
// written.
//
// Cancellation is checked between entries; a canceled context aborts the walk
// and the error surfaces to the caller, which owns cleanup of dstPath.
func WriteDir(ctx context.Context, srcDir, rootName, dstPath string) (int, error) {
	out, err := os.Create(filepath.Clean(dstPath))
	if err != nil {
		return 0, fmt.Errorf("create archive: %w", err)
	}

	count, err := writeEntries(ctx, out, srcDir, rootName)
	if err != nil {
		// Close the half-written file before reporting; the caller removes it
		// together with the staging directory.
		_ = out.Close()

		return 0, err
	}

	if err = out.Close(); err != nil {
		return 0, fmt.Errorf("close archive: %w", err)
	}

	return count, nil
}

// writeEntries walks srcDir and streams its entries into the ZIP writer.
func writeEntries(ctx context.Context, out io.Writer, srcDir, rootName string) (int, error) {
	var (
		writer = zip.NewWriter(out)
		count  int
	)

	walkErr := filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if err = ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		// Symlinks and other special files have no place in a plugin archive.
		if !info.Mode().IsRegular() && !info.IsDir() {
			return nil
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}

		if rel == "." {
			header.Name = rootName + "/"
		} else {
			header.Name = path.Join(rootName, filepath.ToSlash(rel))
		}

		if info.IsDir() {
			if rel != "." {
				header.Name += "/"
			}

			_, err = writer.CreateHeader(header)

			return err
		}

		header.Method = zip.Deflate

		entry, err := writer.CreateHeader(header)
		if err != nil {
			return err
		}

		in, err := os.Open(filepath.Clean(p))
		if err != nil {
			return err
		}

		if _, err = io.Copy(entry, in); err != nil {
			_ = in.Close()

			return err
		}

		if err = in.Close(); err != nil {
			return err
		}

		count++

		return nil
	})
	if walkErr != nil {
		// Flush what we have so the writer state is released.
		_ = writer.Close()

		return 0, fmt.Errorf("write archive entries: %w", walkErr)
	}

	if err := writer.Close(); err != nil {
		return 0, fmt.Errorf("finish archive: %w", err)
	}

	return count, nil
}
