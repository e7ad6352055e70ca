package pagesplice

import (
	"fmt"
	"strings"
)

// Compose concatenates the prefix and the named segments in the requested
// order. Names missing from the extraction contribute nothing.
func Compose(ex *Extraction, order []string) string {
	var buf strings.Builder
	buf.WriteString(ex.Prefix)
	for _, name := range order {
		if seg, ok := ex.Segments[name]; ok {
			buf.WriteString(seg.Text)
		}
	}
	return buf.String()
}

// Reorder moves marker-delimited sections of a document into a new order.
type Reorder struct {
	Name    string
	Catalog Catalog
	Order   []string
}

// Validate checks the catalog and that Order is a permutation of its names,
// so no segment can be dropped or duplicated.
func (r *Reorder) Validate() error {
	if err := r.Catalog.Validate(); err != nil {
		return err
	}
	if len(r.Order) != len(r.Catalog) {
		return fmt.Errorf("%w: %d names for %d markers", ErrInvalidOrder, len(r.Order), len(r.Catalog))
	}
	known := make(map[string]bool, len(r.Catalog))
	for _, name := range r.Catalog.Names() {
		known[name] = true
	}
	for _, name := range r.Order {
		if !known[name] {
			return fmt.Errorf("%w: %q is unknown or repeated", ErrInvalidOrder, name)
		}
		delete(known, name)
	}
	return nil
}

// Apply reorders text. The step is canonical when the located markers
// already appear in the requested order.
func (r *Reorder) Apply(text string) (string, StepResult) {
	step := StepResult{Name: r.stepName(), Kind: StepReorder, Required: true}

	ex := Extract(text, r.Catalog)
	if len(ex.Segments) == 0 {
		step.Outcome = SkippedNoMatch
		step.Detail = "no catalog marker found"
		return text, step
	}
	for _, l := range ex.Locations {
		if l.Marker.Required && !l.Found() {
			step.Outcome = SkippedNoMatch
			step.Detail = fmt.Sprintf("required marker %q (%s) not found", l.Marker.Name, l.Marker.Literal)
			return text, step
		}
	}

	if InOrder(text, r.Catalog, r.Order) {
		step.Outcome = SkippedAlreadyCanonical
		step.Detail = "sections already in requested order"
		return text, step
	}

	if gaps := overlapGaps(ex); len(gaps) > 0 {
		step.Outcome = SkippedNoMatch
		step.Detail = fmt.Sprintf("absent marker(s) %s make segments overlap", strings.Join(gaps, ", "))
		return text, step
	}

	out := Compose(ex, r.Order)
	if len(out) != len(text) {
		step.Outcome = SkippedNoMatch
		step.Detail = "segments do not cover the document exactly once; check catalog order"
		return text, step
	}
	if out == text {
		step.Outcome = SkippedAlreadyCanonical
		step.Detail = "composed text unchanged"
		return text, step
	}

	step.Outcome = Converted
	step.Detail = fmt.Sprintf("%d of %d segments reordered", len(ex.Segments), len(r.Catalog))
	if missing := ex.Missing(); len(missing) > 0 {
		step.Detail += "; absent: " + strings.Join(missing, ", ")
	}
	return out, step
}

// overlapGaps returns the absent markers that let a segment run past a later
// located marker. Composing such an extraction would emit the later segment
// twice.
func overlapGaps(ex *Extraction) []string {
	var gaps []string
	for i, l := range ex.Locations {
		seg, ok := ex.Segments[l.Marker.Name]
		if !ok {
			continue
		}
		swallows := false
		for _, other := range ex.Segments {
			if other.Start > seg.Start && other.Start < seg.End {
				swallows = true
				break
			}
		}
		if !swallows {
			continue
		}
		for j := i + 1; j < len(ex.Locations) && !ex.Locations[j].Found(); j++ {
			gaps = append(gaps, ex.Locations[j].Marker.Name)
		}
	}
	return gaps
}

func (r *Reorder) stepName() string {
	if r.Name != "" {
		return r.Name
	}
	return "reorder"
}
