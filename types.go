package pagesplice

import "sort"

// Outcome is the per-document (or per-step) result of a transformation pass.
type Outcome int

// Outcome values. The zero value is deliberately not a valid outcome.
const (
	Converted Outcome = iota + 1
	SkippedAlreadyCanonical
	SkippedNotFound
	SkippedNoMatch
	Failed
)

// String returns the report label for the outcome.
func (o Outcome) String() string {
	switch o {
	case Converted:
		return "converted"
	case SkippedAlreadyCanonical:
		return "already canonical"
	case SkippedNotFound:
		return "not found"
	case SkippedNoMatch:
		return "no match"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// IsFailure reports whether the outcome needs manual intervention.
// A document with no match is never written but still counts as failed.
func (o Outcome) IsFailure() bool {
	return o == SkippedNoMatch || o == Failed
}

// StepKind identifies which engine component produced a StepResult.
type StepKind string

// Step kinds.
const (
	StepGuard      StepKind = "guard"
	StepRewrite    StepKind = "rewrite"
	StepReorder    StepKind = "reorder"
	StepSubstitute StepKind = "substitute"
	StepOutput     StepKind = "output"
)

// StepResult records what a single rule set, reorder or substitution did.
type StepResult struct {
	Name     string
	Kind     StepKind
	Outcome  Outcome
	Required bool
	Detail   string // which marker, rule or signature decided the outcome
	Err      error  // set when Outcome is Failed
}

// Result is the structured outcome for one document.
type Result struct {
	Path       string // document read
	OutputPath string // document written (same as Path unless the family uses a sibling suffix)
	Outcome    Outcome
	Changed    bool // bytes on disk differ from before (or would, under dry run)
	DryRun     bool
	Steps      []StepResult
	Err        error
}

// Summary aggregates results after a full batch.
type Summary struct {
	Converted   int
	Skipped     int
	Failed      int
	ByOutcome   map[Outcome]int
	FailedPaths []string
}

// Summarize tallies results. Already-canonical and missing documents count as
// skipped; no-match and failed documents count as failed and are listed.
func Summarize(results []Result) Summary {
	s := Summary{ByOutcome: make(map[Outcome]int)}
	for _, r := range results {
		s.ByOutcome[r.Outcome]++
		switch {
		case r.Outcome == Converted:
			s.Converted++
		case r.Outcome.IsFailure():
			s.Failed++
			s.FailedPaths = append(s.FailedPaths, r.Path)
		default:
			s.Skipped++
		}
	}
	sort.Strings(s.FailedPaths)
	return s
}
