package pagesplice

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"text/template"

	"golang.org/x/net/html/atom"
)

// MatchMode selects how a rule finds the element it replaces.
type MatchMode string

// Match modes.
const (
	// MatchText scans with a bounded, non-greedy regular expression. It stops
	// at the first closing tag of the same name, so an element that contains a
	// nested element with the same tag is truncated: the replacement ends at
	// the inner closing tag and the outer closing tag is left behind.
	MatchText MatchMode = "text"

	// MatchStructural tokenizes the markup and balances nested same-name
	// elements, replacing the whole subtree.
	MatchStructural MatchMode = "structural"
)

// defaultAttrs are the attributes searched for a rule's tokens.
var defaultAttrs = []string{"class", "id"}

// Rule identifies an element by tag name and an attribute token, and the
// placeholder that replaces it.
type Rule struct {
	Name        string
	Tags        []string // opening-tag alternatives, e.g. aside, nav
	Attrs       []string // attributes holding the token (default: class, id)
	Tokens      []string // substrings any of which must occur in the attribute value
	Pattern     string   // raw regular expression; replaces Tags/Attrs/Tokens (text mode only)
	Placeholder string   // text/template; .Active, .Role and .Rule are available
	Companion   string   // token in a script src to remove once the rule applied
	Priority    int      // lower runs first; ties keep declaration order
	Mode        MatchMode
}

// RuleSet groups the rules for one structural role (sidebar, header).
// At most one rule of a set is applied per pass.
type RuleSet struct {
	Role      string
	Rules     []Rule
	Canonical []string // signatures marking the role as migrated; defaults to untemplated placeholders
	Required  bool     // no match on a required set makes the document a no-match
}

// placeholderData is passed to placeholder templates.
type placeholderData struct {
	Active string
	Role   string
	Rule   string
}

// compiledRule is a validated rule ready for matching.
type compiledRule struct {
	rule        Rule
	order       int
	re          *regexp.Regexp
	tags        map[string]bool
	attrs       []string
	placeholder *template.Template
	companion   *regexp.Regexp
}

// Validate checks the rule without compiling it into a matcher.
func (r Rule) Validate() error {
	_, err := compileRule(r, 0)
	return err
}

func compileRule(r Rule, order int) (*compiledRule, error) {
	if r.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidRule)
	}
	mode := r.Mode
	if mode == "" {
		mode = MatchText
	}
	if mode != MatchText && mode != MatchStructural {
		return nil, fmt.Errorf("%w: rule %q: %q", ErrInvalidMatchMode, r.Name, r.Mode)
	}
	r.Mode = mode

	cr := &compiledRule{rule: r, order: order}

	switch {
	case r.Pattern != "":
		if mode == MatchStructural {
			return nil, fmt.Errorf("%w: rule %q: pattern requires text mode", ErrInvalidRule, r.Name)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %q: %v", ErrInvalidPattern, r.Name, err)
		}
		cr.re = re
	default:
		if len(r.Tags) == 0 || len(r.Tokens) == 0 {
			return nil, fmt.Errorf("%w: rule %q: tags and tokens are required without a pattern", ErrInvalidRule, r.Name)
		}
		cr.tags = make(map[string]bool, len(r.Tags))
		for _, tag := range r.Tags {
			name := strings.ToLower(strings.TrimSpace(tag))
			// Custom elements (app-sidebar) are not in the atom table.
			if atom.Lookup([]byte(name)) == 0 && !strings.Contains(name, "-") {
				return nil, fmt.Errorf("%w: rule %q: unknown tag %q", ErrInvalidRule, r.Name, tag)
			}
			cr.tags[name] = true
		}
		cr.attrs = r.Attrs
		if len(cr.attrs) == 0 {
			cr.attrs = defaultAttrs
		}
		for _, tok := range r.Tokens {
			if tok == "" {
				return nil, fmt.Errorf("%w: rule %q: empty token", ErrInvalidRule, r.Name)
			}
		}
		if mode == MatchText {
			cr.re = regexp.MustCompile(signaturePattern(r.Tags, cr.attrs, r.Tokens))
		}
	}

	tmpl, err := template.New(r.Name).Option("missingkey=error").Parse(r.Placeholder)
	if err != nil {
		return nil, fmt.Errorf("%w: rule %q: %v", ErrInvalidTemplate, r.Name, err)
	}
	cr.placeholder = tmpl

	if r.Companion != "" {
		cr.companion = regexp.MustCompile(companionPattern(r.Companion))
	}

	return cr, nil
}

// signaturePattern builds one non-greedy branch per tag so each match closes
// with the tag that opened it:
//
//	<aside\b[^>]*(?:class="[^"]*(?:sidebar)[^"]*"|id="...")[^>]*>.*?</aside>
func signaturePattern(tags, attrs, tokens []string) string {
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = regexp.QuoteMeta(tok)
	}
	tokenAlt := strings.Join(quoted, "|")

	attrAlts := make([]string, len(attrs))
	for i, attr := range attrs {
		attrAlts[i] = regexp.QuoteMeta(attr) + `="[^"]*(?:` + tokenAlt + `)[^"]*"`
	}
	attrAlt := strings.Join(attrAlts, "|")

	branches := make([]string, len(tags))
	for i, tag := range tags {
		t := regexp.QuoteMeta(strings.ToLower(strings.TrimSpace(tag)))
		branches[i] = `<` + t + `\b[^>]*(?:` + attrAlt + `)[^>]*>.*?</` + t + `>`
	}
	return `(?s)(?:` + strings.Join(branches, "|") + `)`
}

// companionPattern matches a script tag whose src contains token, along with
// the whitespace before it.
func companionPattern(token string) string {
	return `\s*<script\b[^>]*\bsrc="[^"]*` + regexp.QuoteMeta(token) + `[^"]*"[^>]*>\s*</script>`
}

// render executes the placeholder template.
func (cr *compiledRule) render(data placeholderData) (string, error) {
	var buf strings.Builder
	if err := cr.placeholder.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: rule %q: %v", ErrPlaceholder, cr.rule.Name, err)
	}
	return buf.String(), nil
}

// templated reports whether the placeholder has template actions.
func (r Rule) templated() bool {
	return strings.Contains(r.Placeholder, "{{")
}

// sortRules orders compiled rules by priority, then declaration order.
func sortRules(rules []*compiledRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].rule.Priority != rules[j].rule.Priority {
			return rules[i].rule.Priority < rules[j].rule.Priority
		}
		return rules[i].order < rules[j].order
	})
}
