// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-pagesplice/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForWriteFailure returns hints for write-back errors.
// Inside a container the document tree is often a read-only bind mount.
func ForWriteFailure() string {
	hints := []string{"check the document directory is writable"}
	if IsInContainer() {
		hints = append(hints, "mount the site volume read-write")
	}
	hints = append(hints, "use --dry-run to preview without writing")
	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-pagesplice/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-pagesplice") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForRootNotFound returns hints when the document root is missing.
func ForRootNotFound() string {
	if os.Getenv("PAGESPLICE_ROOT") != "" {
		return format("PAGESPLICE_ROOT is set and overrides the config root")
	}
	return format("set root in the config file or pass --root")
}

// ForFamilyNotFound lists the families the config declares.
func ForFamilyNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForNoMatch returns hints for documents no marker or rule matched.
func ForNoMatch() string {
	return format("run 'pagesplice segments <file> --family NAME' to see which markers are present")
}

// ForUnknownEncoding returns hints for unsupported encoding labels.
func ForUnknownEncoding() string {
	return format("use a WHATWG label such as utf-8, windows-1252 or shift_jis")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
