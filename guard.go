package pagesplice

import "strings"

// IsCanonical reports whether text already contains any of the signatures.
// Checks are plain substring tests so they match exactly what the rewriter
// and composer emit.
func IsCanonical(text string, signatures []string) bool {
	_, ok := canonicalSignature(text, signatures)
	return ok
}

// canonicalSignature returns the first signature present in text.
func canonicalSignature(text string, signatures []string) (string, bool) {
	for _, sig := range signatures {
		if sig != "" && strings.Contains(text, sig) {
			return sig, true
		}
	}
	return "", false
}

// InOrder reports whether the catalog markers present in text occur in the
// requested order. Absent markers and names unknown to the catalog are
// ignored. Fewer than two present markers is trivially in order.
func InOrder(text string, catalog Catalog, order []string) bool {
	byName := make(map[string]Marker, len(catalog))
	for _, m := range catalog {
		byName[m.Name] = m
	}

	last := NotFound
	for _, name := range order {
		m, ok := byName[name]
		if !ok {
			continue
		}
		off := strings.Index(text, m.Literal)
		if off == NotFound {
			continue
		}
		if off <= last {
			return false
		}
		last = off
	}
	return true
}
