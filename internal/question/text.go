package question

import (
	"regexp"
	"strings"
)

var (
	sentenceRe = regexp.MustCompile(`(?s)^(.+?[.?!])(\s|$)`)
	tokenRe    = regexp.MustCompile(`[A-Za-z0-9]+`)
)

// FirstSentence trims a generated question down to its first sentence.
// Models sometimes return preamble or several candidates on separate
// lines; only the first line's first sentence survives.
func FirstSentence(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if m := sentenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

// EnsureQuestionMark appends a question mark when the text lacks one.
func EnsureQuestionMark(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasSuffix(s, "?") {
		return s
	}
	return strings.TrimSuffix(s, ".") + "?"
}

// TooSimilar reports whether two questions share most of their vocabulary,
// using Jaccard similarity over lowercased word tokens.
func TooSimilar(a, b string, threshold float64) bool {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return false
	}
	inter := 0
	for tok := range ta {
		if tb[tok] {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	if union < 1 {
		union = 1
	}
	return float64(inter)/float64(union) >= threshold
}

func tokenSet(s string) map[string]bool {
	out := make(map[string]bool)
	for _, tok := range tokenRe.FindAllString(strings.ToLower(s), -1) {
		out[tok] = true
	}
	return out
}
