package pagesplice

import (
	"fmt"
	"regexp"
	"strings"
)

// Substitution is a replace-all edit applied after rewrites and reorders:
// stylesheet path fixes, duplicate inline CSS removal, script insertion
// before an anchor, body class fixes.
type Substitution struct {
	Name     string
	Literal  string // replace every occurrence of this string
	Pattern  string // or every match of this regular expression ($1 expands)
	Replace  string
	Unless   string // skip when the text already contains this
	Required bool   // nothing to replace is a no-match instead of canonical
}

// compiledSubstitution is a validated substitution.
type compiledSubstitution struct {
	sub Substitution
	re  *regexp.Regexp
}

// templateRef matches $1, ${name} and $$ in a pattern replacement.
var templateRef = regexp.MustCompile(`\$(\$|\{\w+\}|\w+)`)

// compileSubstitution validates s. A substitution whose replacement would be
// rewritten again on the next pass needs an Unless guard, or every pass would
// grow the text.
func compileSubstitution(s Substitution) (*compiledSubstitution, error) {
	if s.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidSubstitution)
	}
	if (s.Literal == "") == (s.Pattern == "") {
		return nil, fmt.Errorf("%w: %q: exactly one of literal or pattern", ErrInvalidSubstitution, s.Name)
	}

	cs := &compiledSubstitution{sub: s}
	if s.Literal != "" {
		if s.Unless == "" && strings.Contains(s.Replace, s.Literal) {
			return nil, fmt.Errorf("%w: %q: replacement contains the literal; add unless", ErrInvalidSubstitution, s.Name)
		}
		return cs, nil
	}

	re, err := regexp.Compile(s.Pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidPattern, s.Name, err)
	}
	cs.re = re
	if s.Unless == "" && !patternFixedPoint(re, s.Replace) {
		return nil, fmt.Errorf("%w: %q: replacement matches the pattern again; add unless", ErrInvalidSubstitution, s.Name)
	}
	return cs, nil
}

// patternFixedPoint reports whether replace, with its group references
// emptied, is left unchanged by a second application of re.
func patternFixedPoint(re *regexp.Regexp, replace string) bool {
	sample := templateRef.ReplaceAllStringFunc(replace, func(ref string) string {
		if ref == "$$" {
			return "$"
		}
		return ""
	})
	return re.ReplaceAllString(sample, replace) == sample
}

// Apply performs the substitution as one engine step.
func (cs *compiledSubstitution) Apply(text string) (string, StepResult) {
	s := cs.sub
	step := StepResult{Name: s.Name, Kind: StepSubstitute, Required: s.Required}

	if s.Unless != "" && strings.Contains(text, s.Unless) {
		step.Outcome = SkippedAlreadyCanonical
		step.Detail = "found " + s.Unless
		return text, step
	}

	var out string
	var n int
	if cs.re != nil {
		n = len(cs.re.FindAllStringIndex(text, -1))
		if n > 0 {
			out = cs.re.ReplaceAllString(text, s.Replace)
		}
	} else {
		n = strings.Count(text, s.Literal)
		if n > 0 {
			out = strings.ReplaceAll(text, s.Literal, s.Replace)
		}
	}

	switch {
	case n == 0 && s.Required:
		step.Outcome = SkippedNoMatch
		step.Detail = "nothing to replace"
		return text, step
	case n == 0 || out == text:
		step.Outcome = SkippedAlreadyCanonical
		step.Detail = "nothing to replace"
		return text, step
	}

	step.Outcome = Converted
	step.Detail = fmt.Sprintf("%d replacement(s)", n)
	return out, step
}
