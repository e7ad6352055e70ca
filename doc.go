// Package pagesplice rewrites batches of HTML pages by structure: it moves
// marker-delimited sections into a new order, replaces hardcoded regions
// (sidebars, headers) with component placeholders, and applies follow-up
// substitutions, writing each page back only when its bytes changed.
//
// # Quick Start
//
// Describe a document family, compile it, and process its documents:
//
//	eng, err := pagesplice.New(pagesplice.Family{
//	    Name: "client",
//	    Dir:  "public/client",
//	    RuleSets: []pagesplice.RuleSet{{
//	        Role:     "sidebar",
//	        Required: true,
//	        Rules: []pagesplice.Rule{{
//	            Name:        "hardcoded",
//	            Tags:        []string{"aside", "nav"},
//	            Tokens:      []string{"sidebar"},
//	            Placeholder: `<aside class="sidebar" data-component="sidebar"></aside>`,
//	            Companion:   "sidebar.js",
//	        }},
//	    }},
//	    Documents: []pagesplice.DocumentRef{{Path: "dashboard.html"}},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, res := range eng.ProcessAll(nil) {
//	    fmt.Println(res.Path, res.Outcome)
//	}
//
// Engine.Transform runs the same pipeline over a string without touching
// storage.
//
// # Pipeline
//
// Each document goes through these steps, in order:
//
//  1. Family guard: any family canonical signature skips the document
//  2. Rule sets: the first matching rule (by priority) replaces its first match
//  3. Reorder: prefix plus catalog segments in the requested order
//  4. Substitutions: literal or pattern replace-all edits
//
// Every step reports a StepResult. A failed step, or a required step that
// found nothing to act on, vetoes the document and nothing is written.
//
// # Idempotence
//
// A second pass over its own output changes nothing. Rule sets recognise
// their placeholders through canonical signatures, reorders recognise sections
// already in order, and substitutions use an unless guard.
//
// # Match Modes
//
// MatchText (the default) scans with a bounded non-greedy expression and
// truncates elements that nest the same tag. MatchStructural tokenizes the
// markup and replaces the balanced subtree.
//
// # Encodings
//
// Family.Encoding takes a WHATWG label. UTF-8 documents are passed through
// byte for byte; others are decoded before matching and re-encoded on write.
package pagesplice
