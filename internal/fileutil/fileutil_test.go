package fileutil_test

// Notes:
// - The Sync and Chmod error branches in WriteFileAtomic are not tested:
//   triggering them needs platform-specific filesystem faults.

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-pagesplice/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestValidateSuffix - Output suffix validation
// ---------------------------------------------------------------------------

func TestValidateSuffix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		suffix  string
		wantErr error
	}{
		{
			name:    "template suffix",
			suffix:  ".template.html",
			wantErr: nil,
		},
		{
			name:    "plain extension",
			suffix:  ".bak",
			wantErr: nil,
		},
		{
			name:    "empty suffix",
			suffix:  "",
			wantErr: fileutil.ErrSuffixEmpty,
		},
		{
			name:    "forward slash path traversal",
			suffix:  "/../../etc/passwd",
			wantErr: fileutil.ErrSuffixPathTraversal,
		},
		{
			name:    "backslash path traversal",
			suffix:  "..\\windows",
			wantErr: fileutil.ErrSuffixPathTraversal,
		},
		{
			name:    "null byte injection",
			suffix:  ".html\x00.exe",
			wantErr: fileutil.ErrSuffixPathTraversal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fileutil.ValidateSuffix(tt.suffix)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateSuffix(%q) = %v, want %v", tt.suffix, err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestSiblingPath - Sibling output naming
// ---------------------------------------------------------------------------

func TestSiblingPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		path   string
		suffix string
		want   string
	}{
		{
			name:   "html with template suffix",
			path:   "admin/users.html",
			suffix: ".template.html",
			want:   "admin/users.template.html",
		},
		{
			name:   "htm extension replaced",
			path:   "index.htm",
			suffix: ".out.htm",
			want:   "index.out.htm",
		},
		{
			name:   "no extension appends",
			path:   "README",
			suffix: ".bak",
			want:   "README.bak",
		},
		{
			name:   "only last extension replaced",
			path:   "page.en.html",
			suffix: ".template.html",
			want:   "page.en.template.html",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := fileutil.SiblingPath(tt.path, tt.suffix)
			if got != tt.want {
				t.Errorf("SiblingPath(%q, %q) = %q, want %q", tt.path, tt.suffix, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Atomic replacement
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing string // empty means the file does not exist yet
		content  string
		perm     os.FileMode
	}{
		{
			name:    "creates new file",
			content: "<html></html>",
			perm:    0o644,
		},
		{
			name:     "replaces existing file",
			existing: "<html>old</html>",
			content:  "<html>new</html>",
			perm:     0o644,
		},
		{
			name:     "empty content",
			existing: "old",
			content:  "",
			perm:     0o600,
		},
		{
			name:    "large content",
			content: strings.Repeat("x", 1024*1024),
			perm:    0o644,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			path := filepath.Join(dir, "page.html")
			if tt.existing != "" {
				if err := os.WriteFile(path, []byte(tt.existing), 0o644); err != nil {
					t.Fatalf("failed to create file: %v", err)
				}
			}

			if err := fileutil.WriteFileAtomic(path, []byte(tt.content), tt.perm); err != nil {
				t.Fatalf("WriteFileAtomic() error = %v", err)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("ReadFile error = %v", err)
			}
			if string(data) != tt.content {
				t.Errorf("file content length = %d, want %d", len(data), len(tt.content))
			}

			if runtime.GOOS != "windows" {
				info, err := os.Stat(path)
				if err != nil {
					t.Fatalf("Stat error = %v", err)
				}
				if info.Mode().Perm() != tt.perm {
					t.Errorf("mode = %v, want %v", info.Mode().Perm(), tt.perm)
				}
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatalf("ReadDir error = %v", err)
			}
			if len(entries) != 1 {
				t.Errorf("directory has %d entries, want 1 (temp file left behind)", len(entries))
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteFileAtomic_MissingDirectory - Failure leaves nothing behind
// ---------------------------------------------------------------------------

func TestWriteFileAtomic_MissingDirectory(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "page.html")

	err := fileutil.WriteFileAtomic(path, []byte("content"), 0o644)
	if err == nil {
		t.Fatal("WriteFileAtomic() expected error for missing directory, got nil")
	}
	if !strings.Contains(err.Error(), "creating temp file") {
		t.Errorf("WriteFileAtomic() error = %q, want error containing 'creating temp file'", err.Error())
	}
}

// ---------------------------------------------------------------------------
// TestWriteFileAtomic_TargetIsDirectory - Rename failure keeps target
// ---------------------------------------------------------------------------

func TestWriteFileAtomic_TargetIsDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "page.html")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(target, "keep"), []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	if err := fileutil.WriteFileAtomic(target, []byte("content"), 0o644); err == nil {
		t.Fatal("WriteFileAtomic() expected error when target is a non-empty directory, got nil")
	}

	if !fileutil.DirExists(target) {
		t.Error("target directory was replaced")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1 (temp file left behind)", len(entries))
	}
}

// ---------------------------------------------------------------------------
// TestFileExists - File existence check
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	tempDir := t.TempDir()

	testFile := filepath.Join(tempDir, "test.html")
	if err := os.WriteFile(testFile, []byte("content"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	testDir := filepath.Join(tempDir, "testdir")
	if err := os.Mkdir(testDir, 0755); err != nil {
		t.Fatalf("failed to create test dir: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		wantFil bool
		wantDir bool
	}{
		{
			name:    "existing file",
			path:    testFile,
			wantFil: true,
		},
		{
			name:    "directory",
			path:    testDir,
			wantDir: true,
		},
		{
			name: "nonexistent path",
			path: filepath.Join(tempDir, "nonexistent"),
		},
		{
			name: "empty path",
			path: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.wantFil {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.wantFil)
			}
			if got := fileutil.DirExists(tt.path); got != tt.wantDir {
				t.Errorf("DirExists(%q) = %v, want %v", tt.path, got, tt.wantDir)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestIsFilePath - File path detection
// ---------------------------------------------------------------------------

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{
			name:  "simple name returns false",
			input: "pages",
			want:  false,
		},
		{
			name:  "relative path with dot-slash returns true",
			input: "./pages.yaml",
			want:  true,
		},
		{
			name:  "parent path returns true",
			input: "../shared/pages.yaml",
			want:  true,
		},
		{
			name:  "absolute Unix path returns true",
			input: "/etc/pagesplice.yaml",
			want:  true,
		},
		{
			name:  "Windows path with backslash returns true",
			input: "C:\\sites\\pages.yaml",
			want:  true,
		},
		{
			name:  "hyphenated name returns false",
			input: "site-admin",
			want:  false,
		},
		{
			name:  "empty string returns false",
			input: "",
			want:  false,
		},
		{
			name:  "name with dots but no slash returns false",
			input: "pages.prod.yaml",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := fileutil.IsFilePath(tt.input)
			if got != tt.want {
				t.Errorf("IsFilePath(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
