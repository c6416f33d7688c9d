// Package search evaluates Boolean queries against reference records,
// with wildcard matching and match highlighting.
package search

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/refscreen/refscreen/internal/query"
	"github.com/refscreen/refscreen/internal/record"
)

// DefaultFields are searched when the caller does not pick fields.
var DefaultFields = []string{"title", "abstract"}

// ValidFields lists the searchable record fields.
var ValidFields = []string{"title", "abstract", "keywords", "journal", "authors"}

// Match is one record that satisfied the query, with the strings that
// matched per field and highlighted variants of title and abstract.
type Match struct {
	record.Record
	MatchedTerms        []string `json:"matched_terms"`
	MatchCount          int      `json:"match_count"`
	TitleHighlighted    string   `json:"title_highlighted,omitempty"`
	AbstractHighlighted string   `json:"abstract_highlighted,omitempty"`
}

// Result holds the outcome of one search over one collection.
type Result struct {
	Matched   []Match         `json:"matched"`
	Unmatched []record.Record `json:"unmatched"`
	Stats     Stats           `json:"stats"`
}

// Stats summarizes a search.
type Stats struct {
	TotalRefs       int      `json:"total_refs"`
	MatchedCount    int      `json:"matched_count"`
	UnmatchedCount  int      `json:"unmatched_count"`
	MatchPercentage float64  `json:"match_percentage"`
	Query           string   `json:"query"`
	Fields          []string `json:"fields"`
}

// Search parses q and evaluates it against every record over the given
// fields. A syntax error is returned to the caller rather than treated
// as "no matches".
func Search(records []record.Record, q string, fields []string) (Result, error) {
	if len(fields) == 0 {
		fields = DefaultFields
	}
	for _, f := range fields {
		if !validField(f) {
			return Result{}, fmt.Errorf("unknown search field %q (valid: %s)", f, strings.Join(ValidFields, ", "))
		}
	}

	result := Result{Stats: Stats{Query: q, Fields: fields, TotalRefs: len(records)}}
	if len(records) == 0 {
		return result, nil
	}

	ast, err := query.Parse(q)
	if err != nil {
		return Result{}, err
	}

	for _, rec := range records {
		matched, fieldMatches := evaluate(ast, rec, fields)
		if !matched {
			result.Unmatched = append(result.Unmatched, rec)
			continue
		}

		m := Match{Record: rec}
		if terms, ok := fieldMatches["title"]; ok && rec.Title != "" {
			m.TitleHighlighted = Highlight(rec.Title, terms)
		}
		if terms, ok := fieldMatches["abstract"]; ok && rec.Abstract != "" {
			m.AbstractHighlighted = Highlight(rec.Abstract, terms)
		}
		for _, field := range fields {
			m.MatchedTerms = append(m.MatchedTerms, fieldMatches[field]...)
		}
		m.MatchCount = len(m.MatchedTerms)
		result.Matched = append(result.Matched, m)
	}

	result.Stats.MatchedCount = len(result.Matched)
	result.Stats.UnmatchedCount = len(result.Unmatched)
	result.Stats.MatchPercentage = float64(result.Stats.MatchedCount) / float64(result.Stats.TotalRefs) * 100

	return result, nil
}

func validField(f string) bool {
	for _, v := range ValidFields {
		if f == v {
			return true
		}
	}
	return false
}

// evaluate walks the AST against one record. It returns whether the
// record matches plus, per field, the distinct strings that matched
// (sorted, so output is deterministic).
func evaluate(node query.Node, rec record.Record, fields []string) (bool, map[string][]string) {
	switch n := node.(type) {
	case query.Term:
		fieldMatches := make(map[string][]string)
		for _, field := range fields {
			seen := make(map[string]bool)
			var terms []string
			for _, value := range fieldValues(rec, field) {
				for _, m := range matchTerm(n.Text, value) {
					if !seen[m] {
						seen[m] = true
						terms = append(terms, m)
					}
				}
			}
			if len(terms) > 0 {
				sort.Strings(terms)
				fieldMatches[field] = terms
			}
		}
		return len(fieldMatches) > 0, fieldMatches

	case query.Operator:
		leftOK, left := evaluate(n.Left, rec, fields)
		rightOK, right := evaluate(n.Right, rec, fields)

		var ok bool
		switch n.Op {
		case "AND":
			ok = leftOK && rightOK
		case "OR":
			ok = leftOK || rightOK
		}
		if !ok {
			return false, nil
		}
		return true, mergeFieldMatches(left, right)
	}
	return false, nil
}

func fieldValues(rec record.Record, field string) []string {
	switch field {
	case "title":
		return []string{rec.Title}
	case "abstract":
		return []string{rec.Abstract}
	case "keywords":
		return rec.Keywords
	case "journal":
		return []string{rec.Journal}
	case "authors":
		return rec.Authors
	}
	return nil
}

func mergeFieldMatches(a, b map[string][]string) map[string][]string {
	merged := make(map[string][]string, len(a)+len(b))
	for field, terms := range a {
		merged[field] = append(merged[field], terms...)
	}
	for field, terms := range b {
		merged[field] = append(merged[field], terms...)
	}
	for field, terms := range merged {
		seen := make(map[string]bool, len(terms))
		var dedup []string
		for _, t := range terms {
			if !seen[t] {
				seen[t] = true
				dedup = append(dedup, t)
			}
		}
		sort.Strings(dedup)
		merged[field] = dedup
	}
	return merged
}

// matchTerm returns the actual strings in text matched by term, which
// may carry * wildcards. Matching is case-insensitive with word
// boundaries, except at an edge where the wildcard sits.
func matchTerm(term, text string) []string {
	if text == "" || term == "" {
		return nil
	}

	pattern := regexp.QuoteMeta(term)
	pattern = strings.ReplaceAll(pattern, `\*`, `\w*`)
	if !strings.HasPrefix(term, "*") {
		pattern = `\b` + pattern
	}
	if !strings.HasSuffix(term, "*") {
		pattern = pattern + `\b`
	}

	re, err := regexp.Compile(`(?i)` + pattern)
	if err != nil {
		return nil
	}
	return re.FindAllString(text, -1)
}
