package pagesplice

import (
	"strings"

	"golang.org/x/net/html"
)

// findElement returns the byte span of the first element whose tag is in
// tags and whose attributes carry one of the tokens, including its balanced
// closing tag. The tokenizer's raw tokens are contiguous, so summing their
// lengths gives offsets into the original text; nothing is re-rendered.
func findElement(text string, tags map[string]bool, attrs, tokens []string) (start, end int, ok bool) {
	z := html.NewTokenizer(strings.NewReader(text))

	offset := 0
	start = -1
	depth := 0
	var target string

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or a tokenizer error; either way no balanced element
			return 0, 0, false
		}
		tokStart := offset
		offset += len(z.Raw())

		switch tt {
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			tag := string(name)
			if start < 0 {
				if !tags[tag] || !hasAttr || !attrsCarryToken(z, attrs, tokens) {
					continue
				}
				if tt == html.SelfClosingTagToken {
					return tokStart, offset, true
				}
				start, target, depth = tokStart, tag, 1
				continue
			}
			if tt == html.StartTagToken && tag == target {
				depth++
			}
		case html.EndTagToken:
			if start < 0 {
				continue
			}
			name, _ := z.TagName()
			if string(name) != target {
				continue
			}
			depth--
			if depth == 0 {
				return start, offset, true
			}
		}
	}
}

// attrsCarryToken consumes the current tag's attributes and reports whether
// one of attrs contains one of tokens.
func attrsCarryToken(z *html.Tokenizer, attrs, tokens []string) bool {
	for {
		key, val, more := z.TagAttr()
		if containsFold(attrs, string(key)) {
			v := string(val)
			for _, tok := range tokens {
				if strings.Contains(v, tok) {
					return true
				}
			}
		}
		if !more {
			return false
		}
	}
}

// containsFold reports whether list contains s, ignoring case.
func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
