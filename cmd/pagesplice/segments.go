package main

import (
	"fmt"
	"io"
	"path/filepath"

	pagesplice "github.com/alnah/go-pagesplice"
	"github.com/alnah/go-pagesplice/internal/config"
	"github.com/alnah/go-pagesplice/internal/fileutil"
	"github.com/alnah/go-pagesplice/internal/yamlutil"
)

// segmentReport is the read-only view of a document's marker segments.
type segmentReport struct {
	Path      string        `yaml:"path"`
	Family    string        `yaml:"family"`
	Encoding  string        `yaml:"encoding"`
	Length    int           `yaml:"length"`
	Prefix    int           `yaml:"prefix"`
	InOrder   bool          `yaml:"in_order"`
	Canonical bool          `yaml:"canonical"`
	Segments  []segmentLine `yaml:"segments"`
}

type segmentLine struct {
	Name     string `yaml:"name"`
	Marker   string `yaml:"marker"`
	Required bool   `yaml:"required,omitempty"`
	Found    bool   `yaml:"found"`
	Offset   int    `yaml:"offset"`
	Length   int    `yaml:"length"`
}

// runSegments prints where the family's markers split a document.
func runSegments(args []string, env *Environment) error {
	flags, positional, err := parseSegmentsFlags(args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return fmt.Errorf("%w: segments takes exactly one document path", ErrMissingArgument)
	}
	if flags.family == "" {
		return fmt.Errorf("%w: --family is required", ErrMissingArgument)
	}
	if flags.format != formatText && flags.format != formatYAML {
		return fmt.Errorf("%w: --format must be text or yaml, got %q", ErrInvalidFlags, flags.format)
	}

	cfg, err := loadConfig(flags.common.config, flags.root, loadEnvConfig())
	if err != nil {
		return err
	}
	selected, err := selectFamilies(cfg, []string{flags.family})
	if err != nil {
		return err
	}
	fc := selected[0]
	if fc.Reorder == nil {
		return fmt.Errorf("%w: %s", ErrNoCatalog, fc.Name)
	}

	path := positional[0]
	if !filepath.IsAbs(path) && !fileutil.FileExists(path) {
		path = filepath.Join(cfg.FamilyDir(fc), path)
	}
	doc, err := pagesplice.ReadDocument(path, cfg.FamilyEncoding(fc))
	if err != nil {
		return err
	}

	report := buildSegmentReport(doc, fc)
	if flags.format == formatYAML {
		data, err := yamlutil.Marshal(report)
		if err != nil {
			return err
		}
		_, err = env.Stdout.Write(data)
		return err
	}
	printSegmentReport(env.Stdout, report)
	return nil
}

func buildSegmentReport(doc *pagesplice.Document, fc *config.FamilyConfig) segmentReport {
	reorder := buildReorder(fc.Reorder)
	ex := pagesplice.Extract(doc.Text, reorder.Catalog)

	report := segmentReport{
		Path:      doc.Path,
		Family:    fc.Name,
		Encoding:  doc.Encoding,
		Length:    len(doc.Text),
		Prefix:    len(ex.Prefix),
		InOrder:   pagesplice.InOrder(doc.Text, reorder.Catalog, reorder.Order),
		Canonical: pagesplice.IsCanonical(doc.Text, fc.Canonical),
	}
	for _, l := range ex.Locations {
		line := segmentLine{
			Name:     l.Marker.Name,
			Marker:   l.Marker.Literal,
			Required: l.Marker.Required,
			Found:    l.Found(),
			Offset:   l.Offset,
		}
		if seg, ok := ex.Segments[l.Marker.Name]; ok {
			line.Length = len(seg.Text)
		}
		report.Segments = append(report.Segments, line)
	}
	return report
}

func printSegmentReport(w io.Writer, r segmentReport) {
	fmt.Fprintf(w, "%s (%s, %s, %d bytes)\n", r.Path, r.Family, r.Encoding, r.Length)
	fmt.Fprintf(w, "  %-20s %8s %8s  %s\n", "SEGMENT", "OFFSET", "LENGTH", "MARKER")
	fmt.Fprintf(w, "  %-20s %8d %8d  %s\n", "(prefix)", 0, r.Prefix, "")
	for _, s := range r.Segments {
		name := s.Name
		if s.Required {
			name += "*"
		}
		if !s.Found {
			fmt.Fprintf(w, "  %-20s %8s %8s  %s\n", name, "-", "-", s.Marker)
			continue
		}
		fmt.Fprintf(w, "  %-20s %8d %8d  %s\n", name, s.Offset, s.Length, s.Marker)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "In requested order: %s\n", yesNo(r.InOrder))
	fmt.Fprintf(w, "Already canonical:  %s\n", yesNo(r.Canonical))
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
