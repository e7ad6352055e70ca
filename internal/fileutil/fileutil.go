// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for file utility operations.
var (
	ErrSuffixEmpty         = errors.New("suffix cannot be empty")
	ErrSuffixPathTraversal = errors.New("suffix contains path separator or null byte")
)

// WriteFileAtomic writes data to a temporary file in the target's directory,
// syncs it, then renames it over path. On any error the temporary file is
// removed and path is left as it was.
func WriteFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmpFile, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, writeErr := tmpFile.Write(data); writeErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("writing temp file: %w", writeErr)
	}
	if syncErr := tmpFile.Sync(); syncErr != nil {
		_ = tmpFile.Close()
		cleanup()
		return fmt.Errorf("syncing temp file: %w", syncErr)
	}
	if closeErr := tmpFile.Close(); closeErr != nil {
		cleanup()
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if chmodErr := os.Chmod(tmpPath, perm); chmodErr != nil {
		cleanup()
		return fmt.Errorf("setting permissions: %w", chmodErr)
	}
	if renameErr := os.Rename(tmpPath, path); renameErr != nil {
		cleanup()
		return fmt.Errorf("replacing %s: %w", path, renameErr)
	}
	return nil
}

// ValidateSuffix checks that an output suffix names a sibling file and
// cannot escape the document's directory.
func ValidateSuffix(suffix string) error {
	if suffix == "" {
		return ErrSuffixEmpty
	}
	if strings.ContainsAny(suffix, "/\\\x00") {
		return ErrSuffixPathTraversal
	}
	return nil
}

// SiblingPath replaces the extension of path with suffix.
//
// Examples:
//   - ("admin/users.html", ".template.html") -> "admin/users.template.html"
//   - ("index.htm", ".out.htm") -> "index.out.htm"
//   - ("README", ".bak") -> "README.bak"
func SiblingPath(path, suffix string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix
}

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "pages" -> false (name)
//   - "./pages.yaml" -> true (relative path)
//   - "../shared/pages.yaml" -> true (parent path)
//   - "/etc/pagesplice.yaml" -> true (absolute)
//   - "site-admin" -> false (hyphenated name)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
