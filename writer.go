package pagesplice

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/alnah/go-pagesplice/internal/fileutil"
)

// defaultFilePermissions applies to documents created by a sibling output.
const defaultFilePermissions = 0o644 // rw-r--r--

// WriteBack commits final to path only if it differs from original. The
// write goes through a temporary file and a rename, so readers see either the
// old or the new content and a failure leaves the old file intact.
func WriteBack(path string, original, final []byte) (bool, error) {
	if original != nil && bytes.Equal(original, final) {
		return false, nil
	}

	perm := fs.FileMode(defaultFilePermissions)
	info, err := os.Stat(path)
	switch {
	case err == nil:
		perm = info.Mode().Perm()
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}

	if err := fileutil.WriteFileAtomic(path, final, perm); err != nil {
		return false, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return true, nil
}
