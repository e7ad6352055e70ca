package pagesplice

import (
	"fmt"
	"regexp"
	"strings"
)

// activePattern captures the navigation key a hardcoded block declares.
var activePattern = regexp.MustCompile(`data-active="([^"]+)"`)

// RewriteParams carries per-document values for placeholder templates.
type RewriteParams struct {
	Active string // fallback when the matched block has no data-active attribute
}

// RewriteMatch describes the span a rule replaced.
type RewriteMatch struct {
	Rule        string
	Start       int
	End         int
	Matched     string
	Replacement string
	Companions  int // companion script tags removed
}

// RuleSetMatcher applies a compiled rule set.
type RuleSetMatcher struct {
	set       RuleSet
	rules     []*compiledRule
	canonical []string
}

// CompileRuleSet validates a rule set and prepares its matchers.
//
// Every placeholder must contain one of the canonical signatures, otherwise
// a second pass could never recognise the first pass's output. Without
// explicit signatures, untemplated placeholders become the signatures.
func CompileRuleSet(rs RuleSet) (*RuleSetMatcher, error) {
	if rs.Role == "" {
		return nil, fmt.Errorf("%w: rule set role is required", ErrInvalidRule)
	}
	if len(rs.Rules) == 0 {
		return nil, fmt.Errorf("%w: rule set %q has no rules", ErrInvalidRule, rs.Role)
	}

	m := &RuleSetMatcher{set: rs, canonical: rs.Canonical}
	for i, r := range rs.Rules {
		cr, err := compileRule(r, i)
		if err != nil {
			return nil, err
		}
		m.rules = append(m.rules, cr)
	}
	sortRules(m.rules)

	if len(m.canonical) == 0 {
		for _, cr := range m.rules {
			if !cr.rule.templated() && cr.rule.Placeholder != "" {
				m.canonical = append(m.canonical, cr.rule.Placeholder)
			}
		}
	}
	if len(m.canonical) == 0 {
		return nil, fmt.Errorf("%w: rule set %q needs canonical signatures for templated placeholders", ErrNotCanonical, rs.Role)
	}

	for _, cr := range m.rules {
		sample, err := cr.render(placeholderData{Role: rs.Role, Rule: cr.rule.Name})
		if err != nil {
			return nil, err
		}
		if !IsCanonical(sample, m.canonical) {
			return nil, fmt.Errorf("%w: rule %q in set %q", ErrNotCanonical, cr.rule.Name, rs.Role)
		}
	}

	return m, nil
}

// Role returns the rule set's role.
func (m *RuleSetMatcher) Role() string {
	return m.set.Role
}

// Canonical returns the signatures that mark the role as migrated.
func (m *RuleSetMatcher) Canonical() []string {
	return m.canonical
}

// Rewrite replaces the first match of the first matching rule. It reports
// false when no rule matches; text is then returned unchanged.
func (m *RuleSetMatcher) Rewrite(text string, params RewriteParams) (string, RewriteMatch, bool, error) {
	for _, cr := range m.rules {
		start, end, ok := cr.find(text)
		if !ok {
			continue
		}

		matched := text[start:end]
		data := placeholderData{Active: params.Active, Role: m.set.Role, Rule: cr.rule.Name}
		if sub := activePattern.FindStringSubmatch(matched); sub != nil {
			data.Active = sub[1]
		}
		replacement, err := cr.render(data)
		if err != nil {
			return text, RewriteMatch{Rule: cr.rule.Name}, false, err
		}

		out := text[:start] + replacement + text[end:]
		match := RewriteMatch{
			Rule:        cr.rule.Name,
			Start:       start,
			End:         end,
			Matched:     matched,
			Replacement: replacement,
		}
		if cr.companion != nil {
			match.Companions = len(cr.companion.FindAllStringIndex(out, -1))
			out = cr.companion.ReplaceAllString(out, "")
		}
		return out, match, true, nil
	}
	return text, RewriteMatch{}, false, nil
}

// Apply runs the guard and the rewrite for this rule set as one engine step.
func (m *RuleSetMatcher) Apply(text string, params RewriteParams) (string, StepResult) {
	step := StepResult{Name: m.set.Role, Kind: StepRewrite, Required: m.set.Required}

	if sig, ok := canonicalSignature(text, m.canonical); ok {
		step.Outcome = SkippedAlreadyCanonical
		step.Detail = "found " + sig
		return text, step
	}

	out, match, ok, err := m.Rewrite(text, params)
	if err != nil {
		step.Outcome = Failed
		step.Detail = err.Error()
		step.Err = err
		return text, step
	}
	if !ok {
		step.Outcome = SkippedNoMatch
		step.Detail = "no rule matched (tried " + strings.Join(m.ruleNames(), ", ") + ")"
		return text, step
	}

	step.Outcome = Converted
	step.Detail = fmt.Sprintf("rule %q replaced bytes %d-%d", match.Rule, match.Start, match.End)
	if match.Companions > 0 {
		step.Detail += fmt.Sprintf(", removed %d companion script(s)", match.Companions)
	}
	return out, step
}

func (m *RuleSetMatcher) ruleNames() []string {
	names := make([]string, len(m.rules))
	for i, cr := range m.rules {
		names[i] = cr.rule.Name
	}
	return names
}

// find locates the rule's first match.
func (cr *compiledRule) find(text string) (start, end int, ok bool) {
	if cr.rule.Mode == MatchStructural {
		return findElement(text, cr.tags, cr.attrs, cr.rule.Tokens)
	}
	loc := cr.re.FindStringIndex(text)
	if loc == nil {
		return 0, 0, false
	}
	return loc[0], loc[1], true
}
