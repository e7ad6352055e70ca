package main

import (
	"context"
	"errors"
	"fmt"

	pagesplice "github.com/alnah/go-pagesplice"
	"github.com/alnah/go-pagesplice/internal/hints"
)

// processFamily runs the engine over its family's documents one at a time.
// It stops between documents once ctx is canceled and reports whether it did.
func processFamily(ctx context.Context, eng *pagesplice.Engine) ([]pagesplice.Result, bool) {
	docs := eng.Family().Documents
	results := make([]pagesplice.Result, 0, len(docs))
	for _, doc := range docs {
		if ctx.Err() != nil {
			return results, true
		}
		results = append(results, eng.Process(doc))
	}
	return results, false
}

// printFamilyResults outputs one line per document worth reporting.
// Failures and missing documents always go to stderr; conversions go to
// stdout unless quiet; canonical skips only show when verbose.
func printFamilyResults(family string, results []pagesplice.Result, quiet, verbose bool, env *Environment) {
	if verbose && !quiet {
		fmt.Fprintf(env.Stdout, "[%s] %d document(s)\n", family, len(results))
	}

	for _, r := range results {
		switch r.Outcome {
		case pagesplice.Converted:
			if !quiet {
				fmt.Fprintln(env.Stdout, convertedLine(r))
			}
		case pagesplice.SkippedNotFound:
			fmt.Fprintf(env.Stderr, "WARNING %s: not found, skipped\n", r.Path)
		case pagesplice.SkippedNoMatch, pagesplice.Failed:
			fmt.Fprintf(env.Stderr, "FAILED %s: %v%s\n", r.Path, r.Err, hintFor(r))
		case pagesplice.SkippedAlreadyCanonical:
			if verbose && !quiet {
				fmt.Fprintf(env.Stdout, "Skipped %s (already canonical)\n", r.Path)
			}
		}

		if verbose && !quiet {
			for _, s := range r.Steps {
				fmt.Fprintf(env.Stdout, "  %s %s: %s", s.Kind, s.Name, s.Outcome)
				if s.Detail != "" {
					fmt.Fprintf(env.Stdout, " (%s)", s.Detail)
				}
				fmt.Fprintln(env.Stdout)
			}
		}
	}
}

func convertedLine(r pagesplice.Result) string {
	verb := "Converted"
	if r.DryRun {
		verb = "Would convert"
	}
	if r.OutputPath != "" && r.OutputPath != r.Path {
		return fmt.Sprintf("%s %s -> %s", verb, r.Path, r.OutputPath)
	}
	return fmt.Sprintf("%s %s", verb, r.Path)
}

// hintFor returns an actionable hint for a failed document.
func hintFor(r pagesplice.Result) string {
	switch {
	case r.Outcome == pagesplice.SkippedNoMatch:
		return hints.ForNoMatch()
	case errors.Is(r.Err, pagesplice.ErrWriteFailure):
		return hints.ForWriteFailure()
	}
	return ""
}

// printSummary prints the batch totals and the documents needing review.
func printSummary(results []pagesplice.Result, quiet, dryRun bool, env *Environment) pagesplice.Summary {
	summary := pagesplice.Summarize(results)
	if quiet {
		return summary
	}

	suffix := ""
	if dryRun {
		suffix = " (dry run, nothing written)"
	}
	fmt.Fprintf(env.Stdout, "\n%d converted, %d skipped, %d failed%s\n",
		summary.Converted, summary.Skipped, summary.Failed, suffix)

	if len(summary.FailedPaths) > 0 {
		fmt.Fprintln(env.Stdout, "Needs manual review:")
		for _, p := range summary.FailedPaths {
			fmt.Fprintf(env.Stdout, "  %s\n", p)
		}
	}
	return summary
}
