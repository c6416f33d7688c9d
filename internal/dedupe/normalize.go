// Package dedupe implements reference identity matching: hybrid exact
// keys, a fuzzy similarity fallback, match-confidence scoring, and
// multi-file deduplication with provenance tracking.
package dedupe

import (
	"strings"
	"unicode"
)

// articlePrefixes are stripped once from the front of a title before
// key generation, so "The Impact of AI" and "Impact of AI" collide.
var articlePrefixes = []string{"the ", "a ", "an "}

// NormalizeTitle canonicalizes a title into a matching token: lowercase,
// trim, strip one leading English article, then drop every rune that is
// not a letter or digit. The result is used purely for matching, never
// for display. An empty or whitespace-only title yields an empty token.
func NormalizeTitle(title string) string {
	t := strings.ToLower(strings.TrimSpace(title))

	for _, prefix := range articlePrefixes {
		if strings.HasPrefix(t, prefix) {
			t = t[len(prefix):]
			break
		}
	}

	var b strings.Builder
	b.Grow(len(t))
	for _, r := range t {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
