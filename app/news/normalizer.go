package news

import (
	"strings"
	"unicode"
)

// ReplaceRule folds one known synonymous phrasing into its canonical form.
// Rules are applied in declaration order; later rules see the output of
// earlier ones.
type ReplaceRule struct {
	From string
	To   string
}

// Normalizer canonicalizes article titles for comparison: lowercasing,
// separator stripping and synonym folding. It is a pure transform with no
// failure mode.
type Normalizer struct {
	strip map[rune]struct{}
	rules []ReplaceRule
}

func NewNormalizer(stripChars string, rules []ReplaceRule) *Normalizer {
	strip := make(map[rune]struct{}, len(stripChars))
	for _, r := range stripChars {
		strip[r] = struct{}{}
	}
	return &Normalizer{strip: strip, rules: rules}
}

func (n *Normalizer) Run(title string) string {
	lowered := strings.ToLower(title)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsSpace(r) {
			continue
		}
		if _, ok := n.strip[r]; ok {
			continue
		}
		b.WriteRune(r)
	}

	normalized := b.String()
	for _, rule := range n.rules {
		normalized = strings.ReplaceAll(normalized, rule.From, rule.To)
	}

	return normalized
}
