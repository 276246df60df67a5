package packager

import (
	"crypto"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	// Ensure SHA512 is available for checksum calculation.
	_ "crypto/sha512"
)

// defaultChecksumFunction is used to fingerprint the produced archive.
const defaultChecksumFunction crypto.Hash = crypto.SHA512

var errHashUnavailable = errors.New("hash function unavailable")

// fileChecksum returns checksum bytes for a file using defaultChecksumFunction.
func fileChecksum(path string) ([]byte, error) {
	if !defaultChecksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	in, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = in.Close()
	}()

	hasher := defaultChecksumFunction.New()
	if _, err = io.Copy(hasher, in); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}
