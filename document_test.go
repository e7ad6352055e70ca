package pagesplice

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewCodec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label    string
		wantName string
		wantErr  error
	}{
		{label: "", wantName: "utf-8"},
		{label: "utf-8", wantName: "utf-8"},
		{label: "UTF8", wantName: "utf-8"},
		{label: "windows-1252", wantName: "windows-1252"},
		{label: "latin1", wantName: "windows-1252"},
		{label: "shift_jis", wantName: "shift_jis"},
		{label: "klingon", wantErr: ErrUnknownEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			t.Parallel()

			c, err := newCodec(tt.label)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("newCodec(%q) error = %v, want %v", tt.label, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if c.name != tt.wantName {
				t.Errorf("name = %q, want %q", c.name, tt.wantName)
			}
		})
	}
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		label    string
		raw      []byte
		wantText string
	}{
		{
			name:     "utf-8 passes through",
			label:    "utf-8",
			raw:      []byte("café"),
			wantText: "café",
		},
		{
			name:     "invalid utf-8 survives",
			label:    "utf-8",
			raw:      []byte("a\xffb"),
			wantText: "a\xffb",
		},
		{
			name:     "windows-1252",
			label:    "windows-1252",
			raw:      []byte("caf\xe9 \x80"),
			wantText: "café €",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := newCodec(tt.label)
			if err != nil {
				t.Fatalf("newCodec() unexpected error: %v", err)
			}
			text, err := c.decode(tt.raw)
			if err != nil {
				t.Fatalf("decode() unexpected error: %v", err)
			}
			if text != tt.wantText {
				t.Errorf("decode() = %q, want %q", text, tt.wantText)
			}
			back, err := c.encode(text)
			if err != nil {
				t.Fatalf("encode() unexpected error: %v", err)
			}
			if string(back) != string(tt.raw) {
				t.Errorf("encode() = %q, want %q", back, tt.raw)
			}
		})
	}
}

func TestCodec_EncodeUnsupportedRune(t *testing.T) {
	t.Parallel()

	c, err := newCodec("windows-1252")
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.encode("日")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "&#26085;" {
		t.Errorf("encode() = %q, want a numeric character reference", got)
	}
}

func TestReadDocument(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "legacy.html")
	if err := os.WriteFile(path, []byte("<p>\xe9t\xe9</p>"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("decodes declared encoding", func(t *testing.T) {
		t.Parallel()

		doc, err := ReadDocument(path, "windows-1252")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if doc.Text != "<p>été</p>" {
			t.Errorf("Text = %q", doc.Text)
		}
		if doc.Encoding != "windows-1252" || doc.Path != path {
			t.Errorf("Document = %+v", doc)
		}
		if string(doc.Raw) != "<p>\xe9t\xe9</p>" {
			t.Errorf("Raw = %q", doc.Raw)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := ReadDocument(filepath.Join(dir, "missing.html"), "")
		if !errors.Is(err, ErrDocumentNotFound) {
			t.Errorf("error = %v, want ErrDocumentNotFound", err)
		}
	})

	t.Run("directory is a read error", func(t *testing.T) {
		t.Parallel()

		_, err := ReadDocument(dir, "")
		if !errors.Is(err, ErrReadDocument) {
			t.Errorf("error = %v, want ErrReadDocument", err)
		}
	})

	t.Run("unknown encoding", func(t *testing.T) {
		t.Parallel()

		_, err := ReadDocument(path, "klingon")
		if !errors.Is(err, ErrUnknownEncoding) {
			t.Errorf("error = %v, want ErrUnknownEncoding", err)
		}
	})
}

func TestEngine_Process_PreservesLegacyEncoding(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	raw := "<aside class=\"sidebar\">men\xfa</aside><p>\xe9t\xe9</p>"
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	f := sidebarFamily(dir)
	f.Encoding = "windows-1252"
	e := mustNew(t, f)

	res := e.Process(DocumentRef{Path: "page.html"})
	if res.Outcome != Converted {
		t.Fatalf("Outcome = %v (err %v)", res.Outcome, res.Err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := sidebarPlaceholder + "<p>\xe9t\xe9</p>"
	if string(got) != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}
