package pagesplice

import (
	"fmt"
	"path/filepath"
)

// DocumentRef names one document of a family.
type DocumentRef struct {
	Path   string // relative to the family directory unless absolute
	Active string // navigation key for placeholders; overridden by data-active in the page
}

// Output controls where transformed text is written.
type Output struct {
	// Suffix, when set, writes page.html to page<Suffix> (for example
	// ".template.html") and leaves the source untouched. The sibling's
	// existence marks the document as already converted.
	Suffix string
}

// Family is a group of documents sharing one marker catalog, one set of
// rewrite rules and one canonical form.
type Family struct {
	Name          string
	Dir           string
	Encoding      string
	Canonical     []string // document-level signatures; any match skips the document
	RuleSets      []RuleSet
	Reorder       *Reorder
	Substitutions []Substitution
	Output        Output
	Documents     []DocumentRef
}

// Validate compiles every rule, reorder and substitution of the family.
func (f Family) Validate() error {
	_, err := New(f)
	return err
}

func (f Family) validateShape() error {
	if f.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidFamily)
	}
	if len(f.RuleSets) == 0 && f.Reorder == nil && len(f.Substitutions) == 0 {
		return fmt.Errorf("%w: %q has no rules, reorder or substitutions", ErrInvalidFamily, f.Name)
	}
	seen := make(map[string]bool, len(f.RuleSets))
	for _, rs := range f.RuleSets {
		if seen[rs.Role] {
			return fmt.Errorf("%w: %q: duplicate rule set role %q", ErrInvalidFamily, f.Name, rs.Role)
		}
		seen[rs.Role] = true
	}
	return nil
}

// documentPath resolves a document reference against the family directory.
func (f Family) documentPath(doc DocumentRef) string {
	if filepath.IsAbs(doc.Path) || f.Dir == "" {
		return doc.Path
	}
	return filepath.Join(f.Dir, doc.Path)
}
