package pagesplice

import (
	"fmt"
	"strings"
)

// NotFound is the offset reported for a marker absent from the text.
const NotFound = -1

// Marker names a segment and the literal boundary string that starts it.
type Marker struct {
	Name     string
	Literal  string
	Required bool // a missing required marker makes the reorder a no-match
}

// Catalog is the fixed, ordered marker list of a document family.
// Declaration order defines segment ordinals, not order of occurrence.
type Catalog []Marker

// Validate checks that every marker is named, has a literal, and is unique.
func (c Catalog) Validate() error {
	if len(c) == 0 {
		return ErrEmptyCatalog
	}
	seen := make(map[string]bool, len(c))
	for i, m := range c {
		if m.Name == "" || m.Literal == "" {
			return fmt.Errorf("%w: marker %d", ErrEmptyMarker, i)
		}
		if seen[m.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateMarker, m.Name)
		}
		seen[m.Name] = true
	}
	return nil
}

// Names returns the segment names in declaration order.
func (c Catalog) Names() []string {
	names := make([]string, len(c))
	for i, m := range c {
		names[i] = m.Name
	}
	return names
}

// Location is where a catalog marker first occurs in a text.
type Location struct {
	Marker  Marker
	Ordinal int // position in the catalog
	Offset  int // byte offset, or NotFound
}

// Found reports whether the marker occurs in the text.
func (l Location) Found() bool {
	return l.Offset != NotFound
}

// Locate returns the first-occurrence offset of every catalog marker, in
// catalog order. Offsets are not sorted: a later-declared marker may occur
// earlier in the text.
func Locate(text string, catalog Catalog) []Location {
	locs := make([]Location, len(catalog))
	for i, m := range catalog {
		off := NotFound
		if m.Literal != "" {
			off = strings.Index(text, m.Literal)
		}
		locs[i] = Location{Marker: m, Ordinal: i, Offset: off}
	}
	return locs
}
