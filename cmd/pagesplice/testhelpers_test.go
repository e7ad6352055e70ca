package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

const testPlaceholder = `<aside class="sidebar" data-component="sidebar"></aside>`

const testHardcodedPage = `<html><body>
<aside class="sidebar" data-active="deals"><ul><li>Deals</li></ul></aside>
<script src="js/sidebar.js"></script>
<main>content</main>
</body></html>
`

const testLandingPage = "<main>\n<!-- Hero -->\n<h1>Hi</h1>\n<!-- Pricing -->\n<p>$</p>\n<!-- Footer -->\n</main>\n"

const testLandingReordered = "<main>\n<!-- Pricing -->\n<p>$</p>\n<!-- Hero -->\n<h1>Hi</h1>\n<!-- Footer -->\n</main>\n"

const testConfig = `root: .
families:
  - name: client
    dir: client
    documents:
      - page.html
      - {path: dashboard.html, active: dashboard}
    rules:
      - role: sidebar
        required: true
        rules:
          - name: hardcoded
            tags: [aside, nav]
            tokens: [sidebar]
            placeholder: '<aside class="sidebar" data-component="sidebar"></aside>'
            companion: sidebar.js
  - name: landing
    dir: landing
    documents: [index.html]
    reorder:
      markers:
        - {name: hero, literal: "<!-- Hero -->", required: true}
        - {name: pricing, literal: "<!-- Pricing -->"}
        - {name: footer, literal: "<!-- Footer -->"}
      order: [pricing, hero, footer]
`

// testSite is a temporary document root with a config file.
type testSite struct {
	dir    string
	config string
}

// newTestSite writes the default config and fixture documents.
func newTestSite(t *testing.T) *testSite {
	t.Helper()
	return newTestSiteWithConfig(t, testConfig)
}

func newTestSiteWithConfig(t *testing.T, cfg string) *testSite {
	t.Helper()
	dir := t.TempDir()
	s := &testSite{dir: dir, config: filepath.Join(dir, "pagesplice.yaml")}

	s.write(t, "pagesplice.yaml", cfg)
	s.write(t, "client/page.html", testHardcodedPage)
	s.write(t, "client/dashboard.html", "<body>\n"+testPlaceholder+"\n</body>\n")
	s.write(t, "landing/index.html", testLandingPage)
	return s
}

func (s *testSite) path(rel string) string {
	return filepath.Join(s.dir, filepath.FromSlash(rel))
}

func (s *testSite) write(t *testing.T, rel, content string) {
	t.Helper()
	p := s.path(rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func (s *testSite) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(s.path(rel))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

// testEnv returns an Environment writing to buffers.
func testEnv(t *testing.T) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
		Logger: zaptest.NewLogger(t),
	}
	return env, stdout, stderr
}
