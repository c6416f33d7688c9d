package search

import (
	"regexp"
	"sort"
	"strings"
)

type span struct {
	start, end int
	text       string
}

// Highlight wraps matched terms in <mark> tags. When occurrences
// overlap, it keeps the combination that yields the most distinct
// highlights: candidates are ordered by start position then length
// (shorter first, leaving room for neighbors) and selected greedily
// when they do not overlap an already chosen span.
func Highlight(text string, matchedTerms []string) string {
	if text == "" || len(matchedTerms) == 0 {
		return text
	}

	var spans []span
	for _, term := range matchedTerms {
		if term == "" {
			continue
		}
		re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(term))
		if err != nil {
			continue
		}
		for _, loc := range re.FindAllStringIndex(text, -1) {
			spans = append(spans, span{start: loc[0], end: loc[1], text: text[loc[0]:loc[1]]})
		}
	}
	if len(spans) == 0 {
		return text
	}

	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end-spans[i].start < spans[j].end-spans[j].start
	})

	var selected []span
	occupied := make([]bool, len(text))
	for _, s := range spans {
		free := true
		for i := s.start; i < s.end; i++ {
			if occupied[i] {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		selected = append(selected, s)
		for i := s.start; i < s.end; i++ {
			occupied[i] = true
		}
	}

	sort.Slice(selected, func(i, j int) bool { return selected[i].start < selected[j].start })

	var b strings.Builder
	pos := 0
	for _, s := range selected {
		b.WriteString(text[pos:s.start])
		b.WriteString("<mark>")
		b.WriteString(s.text)
		b.WriteString("</mark>")
		pos = s.end
	}
	b.WriteString(text[pos:])
	return b.String()
}
